package migrate

import (
	"context"
	"fmt"

	"github.com/threadline/threadline-backend/pkg/config"
	"github.com/threadline/threadline-backend/pkg/db"
	"github.com/threadline/threadline-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations when the app runs in dev mode
// with the auto-migrate flag set. SQLite databases are skipped because db.New
// already created their schema.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "auto-migrate skipped: sqlite schema is applied at connect")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": EmbeddedDir})
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, EmbeddedDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
