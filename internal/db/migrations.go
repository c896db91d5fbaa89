package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS app_state (
		owner VARCHAR(128) PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'app_state' AND column_name = 'created_at') THEN
			ALTER TABLE app_state ADD COLUMN created_at TIMESTAMPTZ NOT NULL DEFAULT NOW();
		END IF;
	END
	$$;`,
	`CREATE INDEX IF NOT EXISTS idx_app_state_updated_at ON app_state (updated_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
