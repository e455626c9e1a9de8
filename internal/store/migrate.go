package store

import (
	"database/sql"
	"fmt"
)

// runMigrations upgrades a database at the given user_version to
// currentSchemaVersion. Callers reject versions above it.
func runMigrations(db *sql.DB, version int, o options) error {
	if version >= currentSchemaVersion {
		return nil
	}

	if version < 2 {
		migrate := migrateToV2
		if o.destructiveMigration {
			migrate = recreateV2
		}
		if err := migrate(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	if version > 0 {
		o.logger.Info("log schema upgraded",
			"from", version,
			"to", currentSchemaVersion,
			"destructive", o.destructiveMigration,
		)
	}
	return nil
}

// migrateToV2 adds the tag column to version 1 tables.
// New databases already get it from schema.sql, so this is a no-op there.
func migrateToV2(db *sql.DB) error {
	has, err := hasColumn(db, TableName, "tag")
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	if has {
		return nil
	}

	_, err = db.Exec(fmt.Sprintf(
		"ALTER TABLE %s ADD COLUMN tag TEXT NOT NULL DEFAULT ''", TableName,
	))
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	return nil
}

// recreateV2 drops the log table and recreates it from schema.sql.
func recreateV2(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("recreate v2: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", TableName)); err != nil {
		return fmt.Errorf("recreate v2: drop: %w", err)
	}
	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("recreate v2: create: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recreate v2: commit: %w", err)
	}
	return nil
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return false, fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate table info: %w", err)
	}
	return false, nil
}
