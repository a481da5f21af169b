package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2025, 4, 2, 10, 0, 0, 123, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", out, in)
	}
	if c, err := ParseCursor(" "); err != nil || c != nil {
		t.Fatalf("blank cursor should be nil, got %v err=%v", c, err)
	}
	if _, err := ParseCursor("not-base64!"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestNormalizePage(t *testing.T) {
	got := NormalizePage(Page{})
	if got.Page != 1 || got.PageSize != DefaultPageSize {
		t.Fatalf("unexpected defaults %+v", got)
	}
	got = NormalizePage(Page{Page: 3, PageSize: 1000})
	if got.PageSize != MaxPageSize || got.Offset() != 2*MaxPageSize {
		t.Fatalf("unexpected clamp %+v offset=%d", got, got.Offset())
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
	info := Info(Page{Page: 2, PageSize: 10}, 21)
	if info.TotalPages != 3 || info.Total != 21 {
		t.Fatalf("unexpected info %+v", info)
	}
}
