package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks the migrations in an on-disk directory. The embedded
// directory name resolves to the set compiled into the binary.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if dir == EmbeddedDir {
		if _, err := os.Stat(dir); err != nil {
			return ValidateFS(embedded, EmbeddedDir)
		}
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateFS checks filenames, version uniqueness and goose markers for every
// .sql file in dir. Each file needs an Up section before its Down section.
func ValidateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	seen := make(map[string]string, len(names))
	for _, name := range names {
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}
		if err := checkMarkers(name, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func checkMarkers(name, body string) error {
	up := strings.Index(body, upMarker)
	if up < 0 {
		return fmt.Errorf("migration %q missing %q", name, upMarker)
	}
	down := strings.Index(body, downMarker)
	if down < 0 {
		return fmt.Errorf("migration %q missing %q", name, downMarker)
	}
	if down < up {
		return fmt.Errorf("migration %q declares Down before Up", name)
	}
	if strings.Count(body, "-- +goose StatementBegin") != strings.Count(body, "-- +goose StatementEnd") {
		return fmt.Errorf("migration %q has unbalanced StatementBegin/StatementEnd", name)
	}
	return nil
}
