package db

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	embeddedmigrations "github.com/terraincognita07/pitchlog/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pitchlog-clean.db")
	database := openSQLiteForMigrationBootstrapTest(t, databasePath)

	for table, expected := range map[string][]string{
		"activities":       {"id", "date", "kind", "location", "notes", "rating"},
		"match_details":    {"activity_id", "opponent", "score", "goals_scored", "assists", "playing_time", "performance"},
		"practice_details": {"activity_id", "focus", "duration", "intensity", "learnings"},
		"goals":            {"title", "description", "deadline", "is_completed", "progress", "creation_date"},
		"reflections":      {"date", "mood", "successes", "next_goal", "feelings", "activity_id"},
		"settings":         {"key", "value"},
	} {
		columns := loadTableColumns(t, database, table)
		for _, column := range expected {
			if _, ok := columns[column]; !ok {
				t.Fatalf("expected %s.%s to exist, got %v", table, column, columns)
			}
		}
	}

	if definition := loadSQLiteObjectSQL(t, database, "index", "idx_match_details_activity_id"); !strings.Contains(strings.ToUpper(definition), "UNIQUE") {
		t.Fatalf("expected unique activity index on match_details, got %q", definition)
	}
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteEnablesForeignKeys(t *testing.T) {
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "pitchlog-fk.db"))

	var enabled int
	if err := database.Raw(`PRAGMA foreign_keys`).Scan(&enabled).Error; err != nil {
		t.Fatalf("read foreign_keys pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("expected foreign keys enabled, got %d", enabled)
	}

	err := database.Exec(`INSERT INTO match_details (id, activity_id, opponent, score) VALUES ('m1', 'missing', 'X', '0-0')`).Error
	if err == nil {
		t.Fatal("expected orphan match detail to be rejected")
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pitchlog-idempotent.db")

	firstOpen := openSQLiteForMigrationBootstrapTest(t, databasePath)
	firstRecords := loadMigrationRecords(t, firstOpen)
	if err := Close(firstOpen); err != nil {
		t.Fatalf("close first database: %v", err)
	}

	secondOpen := openSQLiteForMigrationBootstrapTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestLoadSchemaMigrationsOrdersByVersionAndRejectsDuplicates(t *testing.T) {
	migrations, err := loadSchemaMigrations(fstest.MapFS{
		"0010_later.sql":  {Data: []byte("SELECT 1;")},
		"0002_second.sql": {Data: []byte("SELECT 2;")},
		"README.md":       {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("loadSchemaMigrations() unexpected error: %v", err)
	}
	names := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		names = append(names, migration.Name)
	}
	if got := strings.Join(names, ","); got != "0002_second.sql,0010_later.sql" {
		t.Fatalf("unexpected migration order %s", got)
	}

	_, err = loadSchemaMigrations(fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"1_b.sql":    {Data: []byte("SELECT 1;")},
	})
	if !errors.Is(err, errDuplicateMigration) {
		t.Fatalf("expected duplicate migration order to fail, got %v", err)
	}
}

func TestSplitSQLStatementsSkipsBlankStatements(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id TEXT);\n\n;CREATE INDEX b ON a(id);\n")
	if len(statements) != 2 {
		t.Fatalf("expected two statements, got %d: %q", len(statements), statements)
	}
}

func openSQLiteForMigrationBootstrapTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	database, err := OpenSQLite(databasePath, log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})

	return database
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	expectedVersions := embeddedMigrationVersionsForTest(t)
	actualVersions := make([]string, 0)
	for _, record := range loadMigrationRecords(t, database) {
		actualVersions = append(actualVersions, record.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func loadSQLiteObjectSQL(t *testing.T, database *gorm.DB, objectType string, objectName string) string {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType,
		objectName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load sqlite master sql for %s %s: %v", objectType, objectName, err)
	}
	return row.SQL
}

func embeddedMigrationVersionsForTest(t *testing.T) []string {
	t.Helper()

	migrations, err := loadSchemaMigrations(embeddedmigrations.Files)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}

	versions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		versions = append(versions, migration.Version)
	}
	return versions
}
