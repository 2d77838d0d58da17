package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/pitchlog/internal/db"
	"github.com/terraincognita07/pitchlog/internal/i18n"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/notify"
	"github.com/terraincognita07/pitchlog/internal/reminders"
	"github.com/terraincognita07/pitchlog/internal/services"
)

const testPasscode = "Kickoff2024"

type testEnv struct {
	app       *fiber.App
	handler   *Handler
	store     *services.EntityStore
	journal   *journal.Synchronizer
	center    *notify.MemoryCenter
	reminders *reminders.Scheduler
}

func newTestEnv(t *testing.T, withOverview bool) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "pitchlog-api-test.db"), log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	repos := db.NewRepositories(database)
	store := services.NewEntityStore(services.EntityRepositoriesFrom(repos))
	synchronizer := journal.New(journal.GormTransactor(database), journal.WithLogger(log))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = synchronizer.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	messages, err := i18n.NewManager(i18n.LangEN)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	center := notify.NewMemoryCenter(true)
	scheduler := reminders.NewScheduler(center, store, reminders.NewComposer(messages, i18n.LangEN, time.UTC), reminders.WithLogger(log))

	var overview *Overview
	if withOverview {
		overview, err = NewOverview(ctx, synchronizer, store)
		if err != nil {
			t.Fatalf("init overview: %v", err)
		}
		t.Cleanup(overview.Close)
	}

	handler, err := NewHandler(Dependencies{
		Store:       store,
		Journal:     synchronizer,
		Reminders:   scheduler,
		Passcodes:   services.NewPasscodeService(repos.Settings),
		Overview:    overview,
		SecretKey:   "test-secret-key-test-secret-key-0123",
		Location:    time.UTC,
		ChangesWait: 200 * time.Millisecond,
		Logger:      log,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testEnv{
		app:       app,
		handler:   handler,
		store:     store,
		journal:   synchronizer,
		center:    center,
		reminders: scheduler,
	}
}

// signIn sets the test passcode and returns a bearer token for it.
func (env *testEnv) signIn(t *testing.T) string {
	t.Helper()

	response, body := env.do(t, http.MethodPost, "/api/passcode", "", fiber.Map{"passcode": testPasscode})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected passcode setup status 201, got %d: %v", response.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected session token in passcode setup response")
	}
	return token
}

func (env *testEnv) do(t *testing.T, method string, path string, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	decoded := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return response, decoded
}

// createActivity posts an activity and returns its id.
func (env *testEnv) createActivity(t *testing.T, token string, payload fiber.Map) string {
	t.Helper()

	response, body := env.do(t, http.MethodPost, "/api/activities", token, payload)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected create status 201, got %d: %v", response.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("expected id in create response, got %v", body)
	}
	return id
}

func itemsOf(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()

	raw, ok := body["items"].([]any)
	if !ok {
		t.Fatalf("expected items array, got %v", body)
	}
	items := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		item, ok := entry.(map[string]any)
		if !ok {
			t.Fatalf("expected object item, got %T", entry)
		}
		items = append(items, item)
	}
	return items
}
