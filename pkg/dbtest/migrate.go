package dbtest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmoiron/sqlx"
)

// MigrateDir applies every *.sql file of dir in lexical order, so files are
// expected to be named 001_..., 002_... .
func MigrateDir(db *sqlx.DB, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("filepath.Glob: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no migrations in %s", dir)
	}

	sort.Strings(files)

	return MigrateFromFile(db, files...)
}

// MigrateFromFile executes all SQL queries from the files over a database
// connection.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		query, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.Exec(string(query)); err != nil {
			return fmt.Errorf("db.Exec %s: %w", filepath.Base(fileName), err)
		}
	}

	return nil
}
