package api

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestChangesReturnsCommitsAfterSeq(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	id := env.createActivity(t, token, fiber.Map{
		"date":     futureDate(24 * time.Hour),
		"kind":     "match",
		"location": "Home",
	})
	env.do(t, http.MethodPost, "/api/goals", token, fiber.Map{"title": "Assist more", "deadline": futureDate(240 * time.Hour)})

	response, body := env.do(t, http.MethodGet, "/api/changes?after=0", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	events, _ := body["events"].([]any)
	if len(events) != 2 || body["latest"] != float64(2) {
		t.Fatalf("expected two events up to seq 2, got %v", body)
	}
	first, _ := events[0].(map[string]any)
	ids, _ := first["ids"].([]any)
	if first["kind"] != "activity" || first["op"] != "insert" || len(ids) == 0 || ids[0] != id {
		t.Fatalf("expected activity insert event for %s, got %v", id, first)
	}

	_, body = env.do(t, http.MethodGet, "/api/changes?after=1", token, nil)
	events, _ = body["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("expected only the goal event after seq 1, got %v", body)
	}
}

func TestChangesTimesOutWithEmptyBatch(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	started := time.Now()
	response, body := env.do(t, http.MethodGet, "/api/changes?after=0&wait=50ms", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if events, _ := body["events"].([]any); len(events) != 0 {
		t.Fatalf("expected no events, got %v", body)
	}
	if elapsed := time.Since(started); elapsed < 50*time.Millisecond {
		t.Fatalf("expected the poll to wait, returned after %s", elapsed)
	}

	response, body = env.do(t, http.MethodGet, "/api/changes?wait=soon", token, nil)
	if response.StatusCode != http.StatusBadRequest || body["error"] != "invalid_query" {
		t.Fatalf("expected invalid_query for bad wait, got %d %v", response.StatusCode, body)
	}
}

func TestOverviewReflectsCommittedSeq(t *testing.T) {
	env := newTestEnv(t, true)
	token := env.signIn(t)

	env.createActivity(t, token, fiber.Map{
		"date":     futureDate(24 * time.Hour),
		"kind":     "practice",
		"location": "Training Ground",
	})
	response, body := env.do(t, http.MethodPost, "/api/goals", token, fiber.Map{"title": "Weak foot", "deadline": futureDate(240 * time.Hour)})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected goal create status 201, got %d", response.StatusCode)
	}
	seq, _ := body["seq"].(float64)

	response, body = env.do(t, http.MethodGet, "/api/overview?after="+formatSeq(seq), token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %v", response.StatusCode, body)
	}
	activities, _ := body["activities"].([]any)
	goals, _ := body["open_goals"].([]any)
	if len(activities) != 1 || len(goals) != 1 {
		t.Fatalf("expected one activity and one open goal, got %v", body)
	}
	if got, _ := body["seq"].(float64); got < seq {
		t.Fatalf("expected overview seq >= %v, got %v", seq, got)
	}
}

func TestOverviewUnavailableWithoutViews(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	response, body := env.do(t, http.MethodGet, "/api/overview", token, nil)
	if response.StatusCode != http.StatusServiceUnavailable || body["error"] != "unavailable" {
		t.Fatalf("expected 503 unavailable, got %d %v", response.StatusCode, body)
	}
}

func formatSeq(seq float64) string {
	return strconv.FormatInt(int64(seq), 10)
}
