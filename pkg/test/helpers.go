// Package test holds the shared fixtures: an in-memory sqlite database
// with migrations applied, behind the same handle the repositories use in
// production.
package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"taskvault/internal/adapter/database"
	"taskvault/internal/adapter/database/sqlite"
)

// findProjectRoot walks up from this file until it hits go.mod, so tests
// find the migrations regardless of which package runs them.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

func InitTestDB() *database.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	// A second pooled connection would see a fresh empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations")

	if err := sqlite.RunMigrations(sqlDB, migrationsPath); err != nil {
		log.Fatal(err)
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return database.New(sqlDB, builder)
}
