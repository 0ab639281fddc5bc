package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/auth"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "darsi.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSessionRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	repo := st.Sessions()

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected nil session before save")
	}

	sess := &auth.Session{
		BearerToken: "tok-1",
		User:        api.User{ID: 9, Name: "Nadia", Email: "n@x.io", Role: "staff"},
		SavedAt:     time.Now().UTC().Truncate(time.Second),
	}
	if err := repo.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected saved session")
	}
	if loaded.BearerToken != "tok-1" || loaded.User.Name != "Nadia" {
		t.Errorf("loaded = %+v, want saved values", loaded)
	}

	// Second save replaces, not duplicates.
	sess.BearerToken = "tok-2"
	if err := repo.Save(ctx, sess); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	loaded, _ = repo.Load(ctx)
	if loaded.BearerToken != "tok-2" {
		t.Errorf("token after re-save = %q, want tok-2", loaded.BearerToken)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	loaded, _ = repo.Load(ctx)
	if loaded != nil {
		t.Error("expected nil session after clear")
	}
}

func TestActivitySequenceOrdering(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	repo := st.Activity()

	if err := repo.AppendVideoEvent(ctx, VideoEventData{RunID: "r1", LessonID: "l1", Elapsed: 30, Reported: true}); err != nil {
		t.Fatalf("append video: %v", err)
	}
	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{RunID: "r1", LessonID: "l1", QuestionID: "q1", Level: "medium", Answer: "a", Correct: true, Points: 10}); err != nil {
		t.Fatalf("append answer: %v", err)
	}
	if err := repo.AppendCompletionEvent(ctx, CompletionEventData{RunID: "r1", LessonID: "l1", Level: "medium", Score: 80, Correct: 4, Attempted: 5}); err != nil {
		t.Fatalf("append completion: %v", err)
	}

	entries, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	// Newest first, cross-type ordering by the shared sequence.
	wantKinds := []string{"completion", "answer", "video"}
	for i, want := range wantKinds {
		if entries[i].Kind != want {
			t.Errorf("entries[%d].Kind = %q, want %q", i, entries[i].Kind, want)
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Seq <= entries[i].Seq {
			t.Errorf("sequence not strictly decreasing at %d: %d then %d", i, entries[i-1].Seq, entries[i].Seq)
		}
	}
}

func TestRecentLimit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	repo := st.Activity()

	for range 5 {
		if err := repo.AppendVideoEvent(ctx, VideoEventData{RunID: "r", LessonID: "l", Elapsed: 1, Reported: true}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("len = %d, want 2", len(entries))
	}
}
