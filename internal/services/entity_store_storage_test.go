package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/pitchlog/internal/db"
	"github.com/terraincognita07/pitchlog/internal/models"
)

type stubActivityRepo struct {
	activity  models.Activity
	found     bool
	findErr   error
	createErr error
	listErr   error
	listCalls int
	created   []models.Activity
}

func (stub *stubActivityRepo) FindByID(context.Context, string) (models.Activity, bool, error) {
	return stub.activity, stub.found, stub.findErr
}

func (stub *stubActivityRepo) Create(_ context.Context, activity *models.Activity) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	activity.ID = "stub-activity"
	stub.created = append(stub.created, *activity)
	return nil
}

func (stub *stubActivityRepo) Update(context.Context, *models.Activity) (bool, error) {
	return stub.found, nil
}

func (stub *stubActivityRepo) Delete(context.Context, string) (bool, error) {
	return stub.found, nil
}

func (stub *stubActivityRepo) List(_ context.Context, _ db.ActivityFilter, page db.Page) ([]models.Activity, error) {
	stub.listCalls++
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	if page.Offset > 0 {
		return nil, nil
	}
	return []models.Activity{stub.activity}, nil
}

func TestEntityStoreWrapsStorageFailures(t *testing.T) {
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")
	repo := &stubActivityRepo{createErr: diskErr, findErr: diskErr, listErr: diskErr}
	store := NewEntityStore(EntityRepositories{Activities: repo})

	_, err := store.InsertActivity(ctx, ActivityInput{Date: time.Now(), Kind: models.KindMatch, Location: "Ground"})
	if !errors.Is(err, ErrStorage) || !errors.Is(err, diskErr) {
		t.Fatalf("expected storage error wrapping the cause, got %v", err)
	}

	if _, _, err := store.JoinDetail(ctx, "any"); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected JoinDetail storage error, got %v", err)
	}

	_, err = Collect(store.FetchActivities(ctx, ActivityQuery{}))
	var storageErr *StorageError
	if !errors.As(err, &storageErr) || storageErr.Op != "fetch activities" {
		t.Fatalf("expected fetch StorageError, got %#v", err)
	}
}

func TestEntityStoreValidatesBeforeTouchingStorage(t *testing.T) {
	repo := &stubActivityRepo{}
	store := NewEntityStore(EntityRepositories{Activities: repo})

	_, err := store.InsertActivity(context.Background(), ActivityInput{Kind: models.KindMatch, Location: "Ground"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing date, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no insert, got %d", len(repo.created))
	}
}

func TestFetchSequenceIsLazy(t *testing.T) {
	repo := &stubActivityRepo{activity: models.Activity{ID: "a1", Kind: models.KindMatch}}
	store := NewEntityStore(EntityRepositories{Activities: repo})

	sequence := store.FetchActivities(context.Background(), ActivityQuery{})
	if repo.listCalls != 0 {
		t.Fatalf("expected no query before ranging, got %d", repo.listCalls)
	}

	for activity, err := range sequence {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if activity.ID != "a1" {
			t.Fatalf("unexpected activity %q", activity.ID)
		}
		break
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected a single page load, got %d", repo.listCalls)
	}
}

func TestFetchSequenceStopsOnCancelledContext(t *testing.T) {
	repo := &stubActivityRepo{activity: models.Activity{ID: "a1"}}
	store := NewEntityStore(EntityRepositories{Activities: repo})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(store.FetchActivities(ctx, ActivityQuery{}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.listCalls != 0 {
		t.Fatalf("expected no query after cancellation, got %d", repo.listCalls)
	}
}
