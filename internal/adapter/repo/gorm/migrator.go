package gormrepo

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

type MigrationStatus struct {
	Version   string
	Applied   bool
	AppliedAt *time.Time
}

const createMetaTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

func ApplyMigrations(ctx context.Context, db *gorm.DB, migrations fs.FS) ([]string, error) {
	if err := db.WithContext(ctx).Exec(createMetaTableSQL).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	files, err := migrationFiles(migrations)
	if err != nil {
		return nil, err
	}

	applied := []string{}
	for _, name := range files {
		version := strings.TrimSuffix(name, ".sql")
		var count int64
		if err := db.WithContext(ctx).Table("schema_migrations").Where("version = ?", version).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("check migration %s: %w", version, err)
		}
		if count > 0 {
			continue
		}

		content, err := fs.ReadFile(migrations, name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
			if err := tx.Exec(`INSERT INTO schema_migrations(version, applied_at) VALUES (?, ?)`, version, time.Now()).Error; err != nil {
				return fmt.Errorf("record migration %s: %w", version, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}
	return applied, nil
}

// MigrationStatuses lists every known migration, in apply order.
func MigrationStatuses(ctx context.Context, db *gorm.DB, migrations fs.FS) ([]MigrationStatus, error) {
	if err := db.WithContext(ctx).Exec(createMetaTableSQL).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	files, err := migrationFiles(migrations)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Version   string
		AppliedAt time.Time
	}
	if err := db.WithContext(ctx).Table("schema_migrations").Select("version, applied_at").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schema_migrations: %w", err)
	}
	appliedAt := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		appliedAt[r.Version] = r.AppliedAt
	}

	out := make([]MigrationStatus, 0, len(files))
	for _, name := range files {
		version := strings.TrimSuffix(name, ".sql")
		st := MigrationStatus{Version: version}
		if at, ok := appliedAt[version]; ok {
			at := at
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

func migrationFiles(migrations fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("read migration dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
