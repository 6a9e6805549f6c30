package service

import (
	"errors"
	"testing"
	"time"

	"ghostmedia/backend/internal/models"
)

func newPostFixture() (*PostService, *fakePostStore, *recordingNotifier, *captureScheduler) {
	store := newFakePostStore()
	notify := &recordingNotifier{}
	sched := &captureScheduler{}
	return NewPostService(store, notify, sched), store, notify, sched
}

func TestCreatePostBroadcasts(t *testing.T) {
	svc, _, notify, sched := newPostFixture()

	p := &models.Post{Username: "alice", Content: "hello world"}
	if err := svc.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected a post id")
	}
	if !notify.broadcasted("postAdded") {
		t.Fatal("postAdded must be broadcast")
	}
	if len(sched.fires) != 0 {
		t.Fatal("regular post must not arm a timer")
	}
}

func TestCreatePostValidation(t *testing.T) {
	svc, _, _, _ := newPostFixture()

	err := svc.Create(&models.Post{Username: "alice"})
	var badReq *BadRequestError
	if !errors.As(err, &badReq) {
		t.Fatalf("expected BadRequestError, got %v", err)
	}
}

func TestGhostPostExpires(t *testing.T) {
	svc, store, notify, sched := newPostFixture()
	expires := time.Now().Add(time.Minute)

	p := &models.Post{Username: "alice", Content: "vanishing", IsGhost: true, ExpiresAt: &expires}
	if err := svc.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(sched.fires) != 1 {
		t.Fatalf("expected 1 armed timer, got %d", len(sched.fires))
	}

	sched.fireAll()

	if _, err := store.GetByID(p.ID); err == nil {
		t.Fatal("expired ghost post must be deleted")
	}
	if !notify.broadcasted("postDeleted") {
		t.Fatal("postDeleted must be broadcast at expiry")
	}
}

func TestEditedOutOfGhostModeSurvivesExpiry(t *testing.T) {
	svc, store, _, sched := newPostFixture()
	expires := time.Now().Add(time.Minute)

	p := &models.Post{Username: "alice", Content: "maybe keep", IsGhost: true, ExpiresAt: &expires}
	if err := svc.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Update(p.ID, "alice", "keeping this one", false); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sched.fireAll()

	stored, err := store.GetByID(p.ID)
	if err != nil {
		t.Fatalf("post edited out of ghost mode must survive: %v", err)
	}
	if !stored.Edited {
		t.Fatal("edit must set the edited flag")
	}
}

func TestUpdateOnlyAuthor(t *testing.T) {
	svc, _, _, _ := newPostFixture()

	p := &models.Post{Username: "alice", Content: "original"}
	if err := svc.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(p.ID, "bob", "hijacked", false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author edit must be forbidden, got %v", err)
	}
	if _, err := svc.Update("missing", "alice", "x", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing post must be ErrNotFound, got %v", err)
	}
}

func TestDeleteOnlyAuthor(t *testing.T) {
	svc, store, notify, _ := newPostFixture()

	p := &models.Post{Username: "alice", Content: "short lived"}
	if err := svc.Create(p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(p.ID, "bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete must be forbidden, got %v", err)
	}
	if err := svc.Delete(p.ID, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(p.ID); err == nil {
		t.Fatal("post must be gone")
	}
	if !notify.broadcasted("postDeleted") {
		t.Fatal("postDeleted must be broadcast")
	}
}
