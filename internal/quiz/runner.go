package quiz

import (
	"time"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
)

// Phase represents the current phase of a question run.
type Phase int

const (
	PhaseLoading    Phase = iota // Fetching the question pool for (lesson, level)
	PhasePresenting              // Showing a question, awaiting an answer
	PhaseRevealed                // Showing the result for the checked answer
	PhaseFinished                // Every question presented and revealed
	PhaseEmpty                   // Fetch succeeded but the pool is empty
	PhaseFailed                  // Fetch errored; learner may reload or switch level
)

// Run tracks the runtime state of a single question run for one lesson
// and difficulty level. All mutation goes through the package-level
// transition functions; the quiz screen owns the I/O.
type Run struct {
	// LessonID is the lesson whose question pool is being run.
	LessonID string

	// Level is the difficulty level the pool was fetched for.
	Level api.Level

	// Generation tags the in-flight fetch/submit for this run. Every
	// level switch or reload bumps it; responses carrying a stale
	// generation are discarded instead of overwriting current state.
	Generation uint64

	// Phase is the current run phase.
	Phase Phase

	// Questions is the fetched pool, in presentation order.
	Questions []api.Question

	// Index is the position of the current question in Questions.
	Index int

	// Selected is the learner's selected answer value ("" if none).
	Selected string

	// Score accumulates returned point values for correct answers.
	// Display-only; the backend is authoritative at finalization.
	Score int

	// Attempted and Correct count revealed answers in this run.
	Attempted int
	Correct   int

	// HintsRevealed counts hints shown for the current question.
	HintsRevealed int

	// QuestionStart is when the current question was first displayed.
	QuestionStart time.Time

	// Result is the backend's verdict for the current question
	// (nil until revealed).
	Result *api.AnswerResult

	// LoadErr holds the fetch error when Phase is PhaseFailed.
	LoadErr error

	// Completion is the finalization result (nil until the backend
	// confirms lesson completion).
	Completion *api.CompletionResult
}

// NewRun starts a run in the loading phase for the given lesson and level.
func NewRun(lessonID string, level api.Level, now time.Time) *Run {
	return &Run{
		LessonID:      lessonID,
		Level:         level,
		Generation:    1,
		Phase:         PhaseLoading,
		QuestionStart: now,
	}
}

// Current returns the question being presented or revealed, nil otherwise.
func Current(r *Run) *api.Question {
	if r.Phase != PhasePresenting && r.Phase != PhaseRevealed {
		return nil
	}
	if r.Index < 0 || r.Index >= len(r.Questions) {
		return nil
	}
	return &r.Questions[r.Index]
}

// ApplyQuestions installs a fetched question pool. The fetch is discarded
// when its generation is stale or the run is no longer loading. An empty
// pool moves the run to PhaseEmpty, which is terminal for this level.
// Returns true if the pool was accepted.
func ApplyQuestions(r *Run, gen uint64, questions []api.Question, now time.Time) bool {
	if gen != r.Generation || r.Phase != PhaseLoading {
		return false
	}
	if len(questions) == 0 {
		r.Phase = PhaseEmpty
		return true
	}
	r.Questions = questions
	r.Index = 0
	r.Phase = PhasePresenting
	r.QuestionStart = now
	return true
}

// ApplyLoadFailure moves a loading run to PhaseFailed. Stale failures
// are discarded. Returns true if the failure was applied.
func ApplyLoadFailure(r *Run, gen uint64, err error) bool {
	if gen != r.Generation || r.Phase != PhaseLoading {
		return false
	}
	r.Phase = PhaseFailed
	r.LoadErr = err
	return true
}

// Select records the learner's current answer choice. Only valid while
// a question is being presented.
func Select(r *Run, value string) {
	if r.Phase != PhasePresenting {
		return
	}
	r.Selected = value
}

// CanCheck reports whether "check answer" may submit: a question must be
// presented and an answer selected.
func CanCheck(r *Run) bool {
	return r.Phase == PhasePresenting && r.Selected != ""
}

// AnswerSubmission builds the submission payload for the current question.
// Returns false when checking is not currently allowed; the caller treats
// that as a no-op.
func AnswerSubmission(r *Run, now time.Time) (api.SubmitAnswerRequest, bool) {
	if !CanCheck(r) {
		return api.SubmitAnswerRequest{}, false
	}
	q := Current(r)
	return api.SubmitAnswerRequest{
		QuestionID:    q.ID,
		StudentAnswer: r.Selected,
		TimeSpent:     int(now.Sub(r.QuestionStart).Seconds()),
		HintsUsed:     r.HintsRevealed,
	}, true
}

// ApplyAnswer installs the backend's verdict for the current question and
// moves the run to PhaseRevealed. Score adds the returned points only on
// a correct answer. Stale verdicts are discarded. Returns true if applied.
func ApplyAnswer(r *Run, gen uint64, res *api.AnswerResult) bool {
	if gen != r.Generation || r.Phase != PhasePresenting {
		return false
	}
	r.Result = res
	r.Phase = PhaseRevealed
	r.Attempted++
	if res.IsCorrect {
		r.Correct++
		r.Score += res.Points
	}
	return true
}

// Advance moves a revealed run to the next question, resetting selection,
// hint state, and the per-question timer. After the last question it moves
// to PhaseFinished instead.
func Advance(r *Run, now time.Time) {
	if r.Phase != PhaseRevealed {
		return
	}
	r.Selected = ""
	r.HintsRevealed = 0
	r.Result = nil
	if r.Index+1 >= len(r.Questions) {
		r.Phase = PhaseFinished
		return
	}
	r.Index++
	r.Phase = PhasePresenting
	r.QuestionStart = now
}

// SwitchLevel restarts the run from PhaseLoading for a new level. All
// prior in-memory answers, score, and counters are discarded, and the
// generation is bumped so any response still in flight for the old level
// is ignored. Valid from every phase.
func SwitchLevel(r *Run, level api.Level, now time.Time) {
	r.Level = level
	r.Generation++
	r.Phase = PhaseLoading
	r.Questions = nil
	r.Index = 0
	r.Selected = ""
	r.Score = 0
	r.Attempted = 0
	r.Correct = 0
	r.HintsRevealed = 0
	r.Result = nil
	r.LoadErr = nil
	r.Completion = nil
	r.QuestionStart = now
}

// Reload retries a failed fetch with a fresh generation. Only valid from
// PhaseFailed.
func Reload(r *Run, now time.Time) bool {
	if r.Phase != PhaseFailed {
		return false
	}
	r.Generation++
	r.Phase = PhaseLoading
	r.LoadErr = nil
	r.QuestionStart = now
	return true
}

// HintAvailable reports whether the hint control is shown: special-needs
// level only, a question presented, and at least one hint left to reveal.
func HintAvailable(r *Run) bool {
	if r.Level != api.LevelSpecialNeeds || r.Phase != PhasePresenting {
		return false
	}
	q := Current(r)
	return q != nil && r.HintsRevealed < len(q.Hints)
}

// RevealHint shows the next hint for the current question. Revealing past
// the end of the hint list is a no-op, so a repeated reveal of the only
// hint counts once. Returns the number of hints now revealed.
func RevealHint(r *Run) int {
	if !HintAvailable(r) {
		return r.HintsRevealed
	}
	r.HintsRevealed++
	return r.HintsRevealed
}

// RevealedHints returns the hint texts shown so far for the current
// question, in order.
func RevealedHints(r *Run, lang locale.Language) []string {
	q := Current(r)
	if q == nil || r.HintsRevealed == 0 {
		return nil
	}
	n := r.HintsRevealed
	if n > len(q.Hints) {
		n = len(q.Hints)
	}
	out := make([]string, 0, n)
	for _, h := range q.Hints[:n] {
		out = append(out, h.In(lang))
	}
	return out
}

// CompletionRequest builds the finalization payload. Only available once
// the run is finished and not yet confirmed complete.
func CompletionRequest(r *Run) (api.CompleteLessonRequest, bool) {
	if r.Phase != PhaseFinished || r.Completion != nil {
		return api.CompleteLessonRequest{}, false
	}
	return api.CompleteLessonRequest{
		LessonID:      r.LessonID,
		SelectedLevel: r.Level,
	}, true
}

// ApplyCompletion installs the backend's completion summary. Stale
// confirmations are discarded. Returns true if applied.
func ApplyCompletion(r *Run, gen uint64, res *api.CompletionResult) bool {
	if gen != r.Generation || r.Phase != PhaseFinished {
		return false
	}
	r.Completion = res
	return true
}
