package db

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	embeddedmigrations "github.com/terraincognita07/pitchlog/migrations"
	"gorm.io/gorm"
)

var (
	migrationFilePattern = regexp.MustCompile(`^(\d+)_[^/]*\.sql$`)

	errEmptyMigration     = errors.New("migration has no SQL statements")
	errDuplicateMigration = errors.New("duplicate migration version")
)

type schemaMigration struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// schemaVersion is one row of the bookkeeping table. The timestamp is filled
// by the column default.
type schemaVersion struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name"`
	AppliedAt time.Time `gorm:"column:applied_at;->"`
}

func (schemaVersion) TableName() string {
	return "schema_migrations"
}

const schemaVersionsDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// applyEmbeddedMigrations brings the journal schema up to date and returns
// the file names it ran.
func applyEmbeddedMigrations(database *gorm.DB) ([]string, error) {
	if err := database.Exec(schemaVersionsDDL).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := loadSchemaMigrations(embeddedmigrations.Files)
	if err != nil {
		return nil, err
	}

	var done []string
	if err := database.Model(&schemaVersion{}).Pluck("version", &done).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	pending = slices.DeleteFunc(pending, func(migration schemaMigration) bool {
		return slices.Contains(done, migration.Version)
	})

	applied := make([]string, 0, len(pending))
	for _, migration := range pending {
		if err := database.Transaction(migration.run); err != nil {
			return applied, err
		}
		applied = append(applied, migration.Name)
	}
	return applied, nil
}

// run executes the file and records it in one transaction; a failing
// statement leaves neither schema changes nor a version row behind.
func (migration schemaMigration) run(tx *gorm.DB) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("%s: %w", migration.Name, errEmptyMigration)
	}
	for index, statement := range statements {
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("migration %s statement %d: %w", migration.Name, index+1, err)
		}
	}
	record := schemaVersion{Version: migration.Version, Name: migration.Name}
	if err := tx.Select("version", "name").Create(&record).Error; err != nil {
		return fmt.Errorf("record migration %s: %w", migration.Name, err)
	}
	return nil
}

// loadSchemaMigrations reads NNNN_name.sql files from the root of files,
// ordered by their numeric prefix. Other files are ignored.
func loadSchemaMigrations(files fs.FS) ([]schemaMigration, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(names))
	byOrder := make(map[int]string, len(names))
	for _, name := range names {
		match := migrationFilePattern.FindStringSubmatch(path.Base(name))
		if match == nil {
			continue
		}
		order, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}
		if other, taken := byOrder[order]; taken {
			return nil, fmt.Errorf("%w %d: %s and %s", errDuplicateMigration, order, other, name)
		}
		byOrder[order] = name

		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, schemaMigration{
			Version: match[1],
			Order:   order,
			Name:    name,
			SQL:     string(body),
		})
	}

	slices.SortFunc(migrations, func(a, b schemaMigration) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return migrations, nil
}

// splitSQLStatements cuts on semicolons. Migration files must not carry
// semicolons inside literals or trigger bodies.
func splitSQLStatements(sqlText string) []string {
	var statements []string
	for part := range strings.SplitSeq(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
