package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestGoalLifecycle(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	response, body := env.do(t, http.MethodPost, "/api/goals", token, fiber.Map{
		"title":    "Score ten goals",
		"deadline": futureDate(30 * 24 * time.Hour),
		"progress": 140,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %v", response.StatusCode, body)
	}
	id, _ := body["id"].(string)

	_, body = env.do(t, http.MethodGet, "/api/goals/"+id, token, nil)
	if body["progress"] != float64(100) || body["is_completed"] != false {
		t.Fatalf("expected clamped progress without auto-completion, got %v", body)
	}

	response, _ = env.do(t, http.MethodPatch, "/api/goals/"+id+"/progress", token, fiber.Map{"progress": -5})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected progress update status 200, got %d", response.StatusCode)
	}
	_, body = env.do(t, http.MethodGet, "/api/goals/"+id, token, nil)
	if body["progress"] != float64(0) {
		t.Fatalf("expected progress clamped to 0, got %v", body["progress"])
	}

	response, _ = env.do(t, http.MethodPut, "/api/goals/"+id, token, fiber.Map{
		"title":        "Score ten goals",
		"deadline":     futureDate(30 * 24 * time.Hour),
		"is_completed": true,
		"progress":     100,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected update status 200, got %d", response.StatusCode)
	}

	_, body = env.do(t, http.MethodGet, "/api/goals?completed=false", token, nil)
	if len(itemsOf(t, body)) != 0 {
		t.Fatalf("expected no open goals, got %v", body)
	}
	_, body = env.do(t, http.MethodGet, "/api/goals?completed=true", token, nil)
	if len(itemsOf(t, body)) != 1 {
		t.Fatalf("expected one completed goal, got %v", body)
	}

	response, _ = env.do(t, http.MethodDelete, "/api/goals/"+id, token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected delete status 200, got %d", response.StatusCode)
	}
	response, _ = env.do(t, http.MethodGet, "/api/goals/"+id, token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected deleted goal to be gone, got %d", response.StatusCode)
	}
}

func TestGoalListingKeepsDeadlineAscendingWithoutOrder(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	for _, goal := range []struct {
		title string
		due   time.Duration
	}{
		{"Later", 60 * 24 * time.Hour},
		{"Sooner", 10 * 24 * time.Hour},
		{"Middle", 30 * 24 * time.Hour},
	} {
		response, body := env.do(t, http.MethodPost, "/api/goals", token, fiber.Map{
			"title":    goal.title,
			"deadline": futureDate(goal.due),
		})
		if response.StatusCode != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %v", response.StatusCode, body)
		}
	}

	for path, want := range map[string][]string{
		"/api/goals":                          {"Sooner", "Middle", "Later"},
		"/api/goals?sort=deadline":            {"Sooner", "Middle", "Later"},
		"/api/goals?sort=deadline&order=desc": {"Later", "Middle", "Sooner"},
		"/api/goals?order=asc":                {"Sooner", "Middle", "Later"},
	} {
		_, body := env.do(t, http.MethodGet, path, token, nil)
		items := itemsOf(t, body)
		if len(items) != len(want) {
			t.Fatalf("%s: expected %d goals, got %v", path, len(want), body)
		}
		for index, item := range items {
			if item["title"] != want[index] {
				t.Fatalf("%s: expected order %v, got %v", path, want, items)
			}
		}
	}
}

func TestGoalValidation(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	response, body := env.do(t, http.MethodPost, "/api/goals", token, fiber.Map{"title": "No deadline"})
	if response.StatusCode != http.StatusBadRequest || body["field"] != "deadline" {
		t.Fatalf("expected deadline validation error, got %d %v", response.StatusCode, body)
	}

	response, body = env.do(t, http.MethodGet, "/api/goals?completed=maybe", token, nil)
	if response.StatusCode != http.StatusBadRequest || body["error"] != "invalid_query" {
		t.Fatalf("expected invalid_query, got %d %v", response.StatusCode, body)
	}
}

func TestReflectionLinksToActivityAndSurvivesItsDeletion(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	activityID := env.createActivity(t, token, fiber.Map{
		"date":     futureDate(24 * time.Hour),
		"kind":     "match",
		"location": "Home",
	})

	response, body := env.do(t, http.MethodPost, "/api/reflections", token, fiber.Map{
		"date":        futureDate(26 * time.Hour),
		"mood":        0,
		"successes":   "Won the header duels",
		"activity_id": activityID,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %v", response.StatusCode, body)
	}
	reflectionID, _ := body["id"].(string)

	_, body = env.do(t, http.MethodGet, "/api/reflections?activity_id="+activityID, token, nil)
	items := itemsOf(t, body)
	if len(items) != 1 || items[0]["mood"] != float64(1) {
		t.Fatalf("expected one linked reflection with clamped mood, got %v", items)
	}

	env.do(t, http.MethodDelete, "/api/activities/"+activityID, token, nil)

	response, body = env.do(t, http.MethodGet, "/api/reflections/"+reflectionID, token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected reflection to survive activity deletion, got %d", response.StatusCode)
	}
	if body["activity_id"] != nil {
		t.Fatalf("expected activity link to be cleared, got %v", body["activity_id"])
	}
}

func TestReflectionUnknownActivityAndDelete(t *testing.T) {
	env := newTestEnv(t, false)
	token := env.signIn(t)

	response, body := env.do(t, http.MethodPost, "/api/reflections", token, fiber.Map{
		"date":        futureDate(time.Hour),
		"activity_id": "missing",
	})
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown activity, got %d %v", response.StatusCode, body)
	}

	response, body = env.do(t, http.MethodPost, "/api/reflections", token, fiber.Map{"date": futureDate(time.Hour), "mood": 4})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}
	id, _ := body["id"].(string)

	response, _ = env.do(t, http.MethodPut, "/api/reflections/"+id, token, fiber.Map{"date": futureDate(time.Hour), "mood": 2, "feelings": "tired"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected update status 200, got %d", response.StatusCode)
	}
	_, body = env.do(t, http.MethodGet, "/api/reflections?min_mood=3", token, nil)
	if len(itemsOf(t, body)) != 0 {
		t.Fatalf("expected min_mood to filter the reflection out, got %v", body)
	}

	response, _ = env.do(t, http.MethodDelete, "/api/reflections/"+id, token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected delete status 200, got %d", response.StatusCode)
	}
	response, _ = env.do(t, http.MethodDelete, "/api/reflections/"+id, token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected second delete to be not found, got %d", response.StatusCode)
	}
}
