package cli

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/pitchlog/internal/db"
	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

const scheduleFixture = "../calendar/testdata/schedule.ics"

func TestImportICSCreatesActivitiesOnce(t *testing.T) {
	databasePath := useTestConfig(t)
	args := []string{"import-ics", scheduleFixture, "--from", "2026-03-01", "--to", "2026-03-31"}

	out, err := execute(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2, duplicates 0, skipped 1")

	out, err = execute(t, "", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0, duplicates 2, skipped 1")

	activities := loadActivities(t, databasePath)
	require.Len(t, activities, 2)

	byKind := map[string]models.Activity{}
	for _, activity := range activities {
		byKind[activity.Kind] = activity
	}
	assert.Equal(t, "Riverside Park", byKind[models.KindMatch].Location)
	assert.Nil(t, byKind[models.KindMatch].Match)

	practice := byKind[models.KindPractice]
	require.NotNil(t, practice.Practice)
	assert.Equal(t, "Finishing drills", practice.Practice.Focus)
	assert.Equal(t, 90, practice.Practice.Duration)
}

func TestImportICSDefaultLocationAndDryRun(t *testing.T) {
	databasePath := useTestConfig(t)

	out, err := execute(t, "", "import-ics", scheduleFixture, "--from", "2026-03-01", "--to", "2026-03-31", "--location", "Club House", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3, duplicates 0, skipped 0")
	assert.Contains(t, out, "would import practice")
	assert.Empty(t, loadActivities(t, databasePath))
}

func TestImportICSValidatesFlags(t *testing.T) {
	useTestConfig(t)

	_, err := execute(t, "", "import-ics", scheduleFixture, "--kind", "tournament")
	assert.ErrorContains(t, err, "invalid --kind")

	_, err = execute(t, "", "import-ics", scheduleFixture, "--from", "March")
	assert.ErrorContains(t, err, "invalid --from")

	_, err = execute(t, "", "import-ics", "missing.ics")
	assert.Error(t, err)
}

func loadActivities(t *testing.T, databasePath string) []models.Activity {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	database, err := db.OpenSQLite(databasePath, log)
	require.NoError(t, err)
	defer db.Close(database)

	store := services.NewEntityStore(services.EntityRepositoriesFrom(db.NewRepositories(database)))
	activities, err := services.Collect(store.FetchActivities(context.Background(), services.ActivityQuery{}))
	require.NoError(t, err)
	return activities
}
