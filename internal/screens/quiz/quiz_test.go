package quiz

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
	qz "github.com/darsihq/darsi/internal/quiz"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/store"
)

// fakeClient implements Client with canned responses.
type fakeClient struct {
	questions     []api.Question
	questionsErr  error
	answer        *api.AnswerResult
	answerErr     error
	completion    *api.CompletionResult
	completionErr error

	submitCalls   []api.SubmitAnswerRequest
	completeCalls int
}

func (f *fakeClient) GetQuestions(_ context.Context, _ string, _ api.Level) ([]api.Question, error) {
	return f.questions, f.questionsErr
}

func (f *fakeClient) SubmitAnswer(_ context.Context, req api.SubmitAnswerRequest) (*api.AnswerResult, error) {
	f.submitCalls = append(f.submitCalls, req)
	return f.answer, f.answerErr
}

func (f *fakeClient) CompleteLesson(_ context.Context, _ api.CompleteLessonRequest) (*api.CompletionResult, error) {
	f.completeCalls++
	return f.completion, f.completionErr
}

// fakeActivity implements store.ActivityRepo with in-memory slices.
type fakeActivity struct {
	videos      []store.VideoEventData
	answers     []store.AnswerEventData
	completions []store.CompletionEventData
}

func (f *fakeActivity) AppendVideoEvent(_ context.Context, data store.VideoEventData) error {
	f.videos = append(f.videos, data)
	return nil
}
func (f *fakeActivity) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	f.answers = append(f.answers, data)
	return nil
}
func (f *fakeActivity) AppendCompletionEvent(_ context.Context, data store.CompletionEventData) error {
	f.completions = append(f.completions, data)
	return nil
}
func (f *fakeActivity) Recent(_ context.Context, _ int) ([]store.ActivityEntry, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testPool(n int) []api.Question {
	qs := make([]api.Question, n)
	for i := range qs {
		qs[i] = api.Question{
			ID:           string(rune('a' + i)),
			LessonID:     "lesson-1",
			QuestionType: api.MultipleChoice,
			Level:        api.LevelMedium,
			QuestionText: "سؤال",
			Options: []api.Option{
				{Value: "x", Ar: "الأولى"},
				{Value: "y", Ar: "الثانية"},
			},
			Points: 10,
		}
	}
	return qs
}

func testScreen(client *fakeClient) (*QuizScreen, *fakeActivity) {
	activity := &fakeActivity{}
	s := New(client, activity, nil, zap.NewNop(), "run-1", "lesson-1", "كسور", locale.Arabic)
	return s, activity
}

// toPresenting walks the screen through the picker and the fetch so the
// first question is on screen.
func toPresenting(t *testing.T, s *QuizScreen) {
	t.Helper()
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("picker enter should start the fetch")
	}
	s.Update(cmd())
	if s.run == nil || s.run.Phase != qz.PhasePresenting {
		t.Fatalf("expected presenting phase, got %+v", s.run)
	}
}

func TestCheckWithoutChoiceDoesNotSubmit(t *testing.T) {
	client := &fakeClient{questions: testPool(2)}
	s, _ := testScreen(client)
	toPresenting(t, s)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("check without a chosen answer should do nothing")
	}
	if len(client.submitCalls) != 0 {
		t.Errorf("submit calls = %d, want 0", len(client.submitCalls))
	}
}

func TestChooseThenCheckSubmits(t *testing.T) {
	client := &fakeClient{
		questions: testPool(2),
		answer:    &api.AnswerResult{IsCorrect: true, CorrectAnswer: "x", Points: 10},
	}
	s, activity := testScreen(client)
	toPresenting(t, s)

	s.Update(specialKey(tea.KeySpace))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	s.Update(cmd())

	if len(client.submitCalls) != 1 {
		t.Fatalf("submit calls = %d, want 1", len(client.submitCalls))
	}
	if got := client.submitCalls[0].StudentAnswer; got != "x" {
		t.Errorf("submitted answer = %q, want %q", got, "x")
	}
	if s.run.Phase != qz.PhaseRevealed {
		t.Errorf("phase = %v, want revealed", s.run.Phase)
	}
	if len(activity.answers) != 1 {
		t.Fatalf("journaled answers = %d, want 1", len(activity.answers))
	}
	if !activity.answers[0].Correct || activity.answers[0].Points != 10 {
		t.Errorf("journaled answer = %+v", activity.answers[0])
	}
}

func TestFailedSubmitKeepsQuestionOnScreen(t *testing.T) {
	client := &fakeClient{
		questions: testPool(1),
		answerErr: &api.APIError{StatusCode: 500, Message: "boom"},
	}
	s, activity := testScreen(client)
	toPresenting(t, s)

	s.Update(specialKey(tea.KeySpace))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(cmd())

	if s.run.Phase != qz.PhasePresenting {
		t.Errorf("phase = %v, want presenting", s.run.Phase)
	}
	if s.submitErr == "" {
		t.Error("expected a visible submit error")
	}
	if len(activity.answers) != 0 {
		t.Errorf("journaled answers = %d, want 0", len(activity.answers))
	}

	// The same answer can be checked again.
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Error("expected retry submit command")
	}
}

func TestEmptyPoolShowsEmptyState(t *testing.T) {
	client := &fakeClient{}
	s, _ := testScreen(client)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(cmd())

	if s.run.Phase != qz.PhaseEmpty {
		t.Fatalf("phase = %v, want empty", s.run.Phase)
	}
	view := s.View(80, 24)
	if !strings.Contains(view, "لا توجد أسئلة") {
		t.Error("empty view should say there are no questions")
	}
}

func TestStaleFetchIgnoredAfterLevelSwitch(t *testing.T) {
	client := &fakeClient{questions: testPool(2)}
	s, _ := testScreen(client)

	s.Update(specialKey(tea.KeyEnter))
	staleGen := s.run.Generation

	// Change level before the first fetch lands.
	s.Update(keyPress('l'))
	s.Update(specialKey(tea.KeyEnter))

	s.Update(questionsMsg{Gen: staleGen, Questions: testPool(5)})
	if s.run.Phase != qz.PhaseLoading {
		t.Errorf("stale pool applied, phase = %v", s.run.Phase)
	}

	// The current generation's fetch still lands normally.
	s.Update(questionsMsg{Gen: s.run.Generation, Questions: testPool(2)})
	if s.run.Phase != qz.PhasePresenting {
		t.Errorf("phase = %v, want presenting", s.run.Phase)
	}
}

func answerThrough(t *testing.T, s *QuizScreen) {
	t.Helper()
	for s.run.Phase == qz.PhasePresenting || s.run.Phase == qz.PhaseRevealed {
		switch s.run.Phase {
		case qz.PhasePresenting:
			s.Update(specialKey(tea.KeySpace))
			_, cmd := s.Update(specialKey(tea.KeyEnter))
			if cmd == nil {
				t.Fatal("expected submit command")
			}
			s.Update(cmd())
		case qz.PhaseRevealed:
			scr, cmd := s.Update(specialKey(tea.KeyEnter))
			s = scr.(*QuizScreen)
			if s.run.Phase == qz.PhaseFinished {
				if cmd != nil {
					s.Update(cmd())
				}
				return
			}
		}
	}
}

func TestCompletionReplacesWithSummary(t *testing.T) {
	client := &fakeClient{
		questions:  testPool(1),
		answer:     &api.AnswerResult{IsCorrect: true, CorrectAnswer: "x", Points: 10},
		completion: &api.CompletionResult{Score: 100, QuestionsCorrect: 1, QuestionsAttempted: 1},
	}
	s, activity := testScreen(client)
	toPresenting(t, s)

	s.Update(specialKey(tea.KeySpace))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(cmd())

	// Advancing past the last reveal triggers finalization.
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected finalize command")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected navigation command after completion")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("completion should replace the quiz with the summary")
	}
	if client.completeCalls != 1 {
		t.Errorf("complete calls = %d, want 1", client.completeCalls)
	}
	if len(activity.completions) != 1 {
		t.Fatalf("journaled completions = %d, want 1", len(activity.completions))
	}
	if activity.completions[0].Score != 100 {
		t.Errorf("journaled score = %v, want 100", activity.completions[0].Score)
	}
}

func TestCompletionFailureWaitsForRetry(t *testing.T) {
	client := &fakeClient{
		questions:     testPool(1),
		answer:        &api.AnswerResult{IsCorrect: true, CorrectAnswer: "x", Points: 10},
		completionErr: &api.APIError{StatusCode: 503, Message: "unavailable"},
	}
	s, activity := testScreen(client)
	toPresenting(t, s)
	answerThrough(t, s)

	if s.finalizeErr == "" {
		t.Fatal("expected a finalize error")
	}
	if client.completeCalls != 1 {
		t.Fatalf("complete calls = %d, want 1", client.completeCalls)
	}

	// Nothing happens until the learner asks for a retry.
	if len(activity.completions) != 0 {
		t.Errorf("journaled completions = %d, want 0", len(activity.completions))
	}

	client.completionErr = nil
	client.completion = &api.CompletionResult{Score: 90, QuestionsCorrect: 1, QuestionsAttempted: 1}
	_, cmd := s.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("expected retry finalize command")
	}
	s.Update(cmd())
	if client.completeCalls != 2 {
		t.Errorf("complete calls = %d, want 2", client.completeCalls)
	}
	if len(activity.completions) != 1 {
		t.Errorf("journaled completions = %d, want 1", len(activity.completions))
	}
}

func TestHintRevealOnSpecialNeedsTier(t *testing.T) {
	pool := testPool(1)
	pool[0].Hints = []locale.Text{{Ar: "فكر في المقام"}}
	client := &fakeClient{questions: pool}
	s, _ := testScreen(client)

	// Pick the special needs tier (last in the picker).
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(cmd())

	if s.run.Level != api.LevelSpecialNeeds {
		t.Fatalf("level = %v, want special needs", s.run.Level)
	}
	s.Update(keyPress('h'))
	if s.run.HintsRevealed != 1 {
		t.Errorf("hints revealed = %d, want 1", s.run.HintsRevealed)
	}
	if !strings.Contains(s.View(80, 24), "فكر في المقام") {
		t.Error("revealed hint should be on screen")
	}
}
