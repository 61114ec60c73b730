package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "create_kv" {
			t.Errorf("expected first migration create_kv, got %q", migrations[0].Name)
		}
	})

	t.Run("parseMigrationName", func(t *testing.T) {
		tests := []struct {
			in        string
			version   int
			label     string
			direction string
			ok        bool
		}{
			{"0000_create_kv_up.sql", 0, "create_kv", "up", true},
			{"0012_add_index_down.sql", 12, "add_index", "down", true},
			{"README.md", 0, "", "", false},
			{"abc_create_up.sql", 0, "", "", false},
			{"0001_sideways.sql", 0, "", "", false},
		}

		for _, tt := range tests {
			t.Run(tt.in, func(t *testing.T) {
				v, label, dir, ok := parseMigrationName(tt.in)
				if ok != tt.ok || v != tt.version || label != tt.label || dir != tt.direction {
					t.Errorf("parseMigrationName(%q) = %d %q %q %v", tt.in, v, label, dir, ok)
				}
			})
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(MemoryDatabase)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM kv LIMIT 1"); err != nil {
			t.Errorf("kv table should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM kv LIMIT 1"); err == nil {
			t.Error("kv table should be gone after rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("rolling back with nothing applied should fail")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(MemoryDatabase)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		for range 2 {
			if err := RunMigrations(db); err != nil {
				t.Fatalf("failed to run migrations: %v", err)
			}
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d applied migrations, got %d", len(migrations), count)
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		script := "-- header\nCREATE TABLE a (x INT);\n\n-- note\nCREATE TABLE b (y INT); -- trailing\n"
		stmts := splitStatements(script)
		if len(stmts) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
		}
		if stmts[1] != "CREATE TABLE b (y INT)" {
			t.Errorf("unexpected statement %q", stmts[1])
		}
	})
}
