package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func pool(n int) []api.Question {
	qs := make([]api.Question, n)
	for i := range qs {
		qs[i] = api.Question{
			ID:           string(rune('a' + i)),
			LessonID:     "lesson1",
			QuestionType: api.MultipleChoice,
			QuestionText: "سؤال",
			Points:       10,
			Options: []api.Option{
				{Value: "1", Ar: "واحد"},
				{Value: "2", Ar: "اثنان"},
			},
		}
	}
	return qs
}

func presentedRun(t *testing.T, n int) *Run {
	t.Helper()
	r := NewRun("lesson1", api.LevelMedium, t0)
	if !ApplyQuestions(r, r.Generation, pool(n), t0) {
		t.Fatal("pool was not accepted")
	}
	return r
}

func TestEmptyPoolIsTerminalForLevel(t *testing.T) {
	r := NewRun("lesson1", api.LevelHigh, t0)
	if !ApplyQuestions(r, r.Generation, nil, t0) {
		t.Fatal("empty pool was not accepted")
	}
	if r.Phase != PhaseEmpty {
		t.Fatalf("Phase = %v, want PhaseEmpty", r.Phase)
	}
	if q := Current(r); q != nil {
		t.Fatalf("Current = %v, want nil", q)
	}

	// Empty is distinct from Failed: no load error is recorded.
	if r.LoadErr != nil {
		t.Fatalf("LoadErr = %v, want nil", r.LoadErr)
	}
}

func TestFailedFetchIsDistinctAndReloadable(t *testing.T) {
	r := NewRun("lesson1", api.LevelHigh, t0)
	fetchErr := errors.New("connection refused")
	if !ApplyLoadFailure(r, r.Generation, fetchErr) {
		t.Fatal("failure was not applied")
	}
	if r.Phase != PhaseFailed {
		t.Fatalf("Phase = %v, want PhaseFailed", r.Phase)
	}
	if !errors.Is(r.LoadErr, fetchErr) {
		t.Fatalf("LoadErr = %v, want %v", r.LoadErr, fetchErr)
	}

	gen := r.Generation
	if !Reload(r, t0) {
		t.Fatal("Reload returned false")
	}
	if r.Phase != PhaseLoading || r.LoadErr != nil {
		t.Fatalf("after reload: Phase = %v, LoadErr = %v", r.Phase, r.LoadErr)
	}
	if r.Generation != gen+1 {
		t.Fatalf("Generation = %d, want %d", r.Generation, gen+1)
	}

	// A late response for the failed fetch must be ignored.
	if ApplyQuestions(r, gen, pool(3), t0) {
		t.Fatal("stale pool was accepted after reload")
	}
}

func TestCheckWithoutSelectionIsNoop(t *testing.T) {
	r := presentedRun(t, 2)
	if CanCheck(r) {
		t.Fatal("CanCheck = true with no selection")
	}
	if _, ok := AnswerSubmission(r, t0); ok {
		t.Fatal("AnswerSubmission built a payload with no selection")
	}

	Select(r, "2")
	if !CanCheck(r) {
		t.Fatal("CanCheck = false after selecting")
	}
}

func TestAnswerSubmissionPayload(t *testing.T) {
	r := presentedRun(t, 1)
	r.Level = api.LevelSpecialNeeds
	r.Questions[0].Hints = []locale.Text{{Ar: "تلميح"}}

	Select(r, "1")
	RevealHint(r)

	req, ok := AnswerSubmission(r, t0.Add(42*time.Second))
	if !ok {
		t.Fatal("AnswerSubmission returned false")
	}
	if req.QuestionID != "a" || req.StudentAnswer != "1" {
		t.Fatalf("payload = %+v", req)
	}
	if req.TimeSpent != 42 {
		t.Fatalf("TimeSpent = %d, want 42", req.TimeSpent)
	}
	if req.HintsUsed != 1 {
		t.Fatalf("HintsUsed = %d, want 1", req.HintsUsed)
	}
}

func TestScoreAddsPointsOnlyOnCorrect(t *testing.T) {
	r := presentedRun(t, 3)

	Select(r, "1")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: true, Points: 20})
	if r.Score != 20 || r.Correct != 1 || r.Attempted != 1 {
		t.Fatalf("score=%d correct=%d attempted=%d, want 20/1/1", r.Score, r.Correct, r.Attempted)
	}
	Advance(r, t0)

	Select(r, "2")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: true, Points: 10})
	if r.Score != 30 {
		t.Fatalf("Score = %d, want 30", r.Score)
	}
	Advance(r, t0)

	// Wrong answer leaves the score untouched even if points are present.
	Select(r, "1")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: false, Points: 10})
	if r.Score != 30 {
		t.Fatalf("Score = %d after wrong answer, want 30", r.Score)
	}
	if r.Attempted != 3 || r.Correct != 2 {
		t.Fatalf("attempted=%d correct=%d, want 3/2", r.Attempted, r.Correct)
	}
}

func TestFinishedOnlyAfterEveryReveal(t *testing.T) {
	r := presentedRun(t, 2)

	// Advancing from presenting does nothing; reveal is required first.
	Advance(r, t0)
	if r.Phase != PhasePresenting || r.Index != 0 {
		t.Fatalf("Phase = %v Index = %d after advance from presenting", r.Phase, r.Index)
	}

	Select(r, "1")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: true, Points: 5})
	Advance(r, t0)
	if r.Phase != PhasePresenting || r.Index != 1 {
		t.Fatalf("Phase = %v Index = %d, want presenting(1)", r.Phase, r.Index)
	}
	if r.Selected != "" || r.Result != nil {
		t.Fatal("selection or result survived the advance")
	}

	Select(r, "2")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: false})
	Advance(r, t0)
	if r.Phase != PhaseFinished {
		t.Fatalf("Phase = %v, want PhaseFinished", r.Phase)
	}
}

func TestSwitchLevelResetsEverything(t *testing.T) {
	r := presentedRun(t, 2)
	Select(r, "1")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: true, Points: 10})
	Advance(r, t0)
	Select(r, "2")
	oldGen := r.Generation

	SwitchLevel(r, api.LevelSpecialNeeds, t0)
	if r.Phase != PhaseLoading {
		t.Fatalf("Phase = %v, want PhaseLoading", r.Phase)
	}
	if r.Index != 0 || r.Score != 0 || r.Correct != 0 || r.Attempted != 0 {
		t.Fatalf("counters not reset: index=%d score=%d correct=%d attempted=%d",
			r.Index, r.Score, r.Correct, r.Attempted)
	}
	if r.Selected != "" || r.Questions != nil {
		t.Fatal("selection or questions survived the level switch")
	}
	if r.Level != api.LevelSpecialNeeds {
		t.Fatalf("Level = %v, want special_needs", r.Level)
	}

	// The old level's in-flight fetch resolves late and must be dropped.
	if ApplyQuestions(r, oldGen, pool(5), t0) {
		t.Fatal("stale pool from previous level was accepted")
	}
	if r.Phase != PhaseLoading {
		t.Fatalf("Phase = %v after stale pool, want PhaseLoading", r.Phase)
	}
}

func TestStaleAnswerVerdictDiscarded(t *testing.T) {
	r := presentedRun(t, 2)
	Select(r, "1")
	oldGen := r.Generation

	SwitchLevel(r, api.LevelHigh, t0)
	ApplyQuestions(r, r.Generation, pool(2), t0)

	if ApplyAnswer(r, oldGen, &api.AnswerResult{IsCorrect: true, Points: 10}) {
		t.Fatal("stale verdict was accepted")
	}
	if r.Score != 0 || r.Phase != PhasePresenting {
		t.Fatalf("score=%d phase=%v after stale verdict", r.Score, r.Phase)
	}
}

func TestHintRevealIdempotentForSingleHint(t *testing.T) {
	r := presentedRun(t, 1)
	r.Level = api.LevelSpecialNeeds
	r.Questions[0].Hints = []locale.Text{{Ar: "فكر في الجمع", En: "think addition"}}

	if got := RevealHint(r); got != 1 {
		t.Fatalf("first reveal = %d, want 1", got)
	}
	if got := RevealHint(r); got != 1 {
		t.Fatalf("second reveal = %d, want 1", got)
	}

	hints := RevealedHints(r, locale.Arabic)
	if len(hints) != 1 || hints[0] != "فكر في الجمع" {
		t.Fatalf("RevealedHints = %v", hints)
	}
}

func TestHintsHiddenOutsideSpecialNeeds(t *testing.T) {
	r := presentedRun(t, 1)
	r.Questions[0].Hints = []locale.Text{{Ar: "تلميح"}}

	if HintAvailable(r) {
		t.Fatal("hint available for medium level")
	}
	if got := RevealHint(r); got != 0 {
		t.Fatalf("RevealHint = %d for medium level, want 0", got)
	}

	r.Level = api.LevelSpecialNeeds
	if !HintAvailable(r) {
		t.Fatal("hint unavailable for special_needs")
	}
}

func TestHintStateResetsOnAdvance(t *testing.T) {
	r := presentedRun(t, 2)
	r.Level = api.LevelSpecialNeeds
	r.Questions[0].Hints = []locale.Text{{Ar: "أ"}, {Ar: "ب"}}

	RevealHint(r)
	RevealHint(r)
	if r.HintsRevealed != 2 {
		t.Fatalf("HintsRevealed = %d, want 2", r.HintsRevealed)
	}

	Select(r, "1")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: true, Points: 5})
	Advance(r, t0)
	if r.HintsRevealed != 0 {
		t.Fatalf("HintsRevealed = %d after advance, want 0", r.HintsRevealed)
	}
}

func TestCompletionOnlyWhenFinished(t *testing.T) {
	r := presentedRun(t, 1)
	if _, ok := CompletionRequest(r); ok {
		t.Fatal("completion available while presenting")
	}

	Select(r, "1")
	ApplyAnswer(r, r.Generation, &api.AnswerResult{IsCorrect: true, Points: 10})
	Advance(r, t0)

	req, ok := CompletionRequest(r)
	if !ok {
		t.Fatal("completion unavailable when finished")
	}
	if req.LessonID != "lesson1" || req.SelectedLevel != api.LevelMedium {
		t.Fatalf("completion payload = %+v", req)
	}

	ApplyCompletion(r, r.Generation, &api.CompletionResult{Score: 100, QuestionsCorrect: 1, QuestionsAttempted: 1})
	if r.Completion == nil || r.Completion.Score != 100 {
		t.Fatalf("Completion = %+v", r.Completion)
	}

	// Confirmed runs do not build a second finalization payload.
	if _, ok := CompletionRequest(r); ok {
		t.Fatal("completion payload rebuilt after confirmation")
	}
}
