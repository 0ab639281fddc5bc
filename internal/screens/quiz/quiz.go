package quiz

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
	qz "github.com/darsihq/darsi/internal/quiz"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/screens/summary"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/tutor"
	"github.com/darsihq/darsi/internal/ui/components"
	"github.com/darsihq/darsi/internal/ui/layout"
)

// Client is the slice of the platform API the quiz screen talks to.
type Client interface {
	GetQuestions(ctx context.Context, lessonID string, level api.Level) ([]api.Question, error)
	SubmitAnswer(ctx context.Context, req api.SubmitAnswerRequest) (*api.AnswerResult, error)
	CompleteLesson(ctx context.Context, req api.CompleteLessonRequest) (*api.CompletionResult, error)
}

// levels in picker order, matching the platform's difficulty tiers.
var pickerLevels = []api.Level{api.LevelHigh, api.LevelMedium, api.LevelSpecialNeeds}

// QuizScreen drives one question run for a lesson. All transition rules
// live in the quiz package; this screen owns the I/O and the rendering.
type QuizScreen struct {
	client   Client
	activity store.ActivityRepo
	tut      *tutor.Service
	logger   *zap.Logger
	lang     locale.Language

	runID       string
	lessonID    string
	lessonTitle string

	run     *qz.Run
	options components.OptionList

	// picking shows the level selector, before the first run and again
	// when the learner changes level mid-run.
	picking bool
	pickIdx int

	submitting  bool
	finalizing  bool
	submitErr   string
	finalizeErr string

	elab     *tutor.Elaboration
	elabBusy bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a quiz screen for a lesson. The run starts at the level
// selector; runID ties the journal entries to the lesson viewing session.
func New(client Client, activity store.ActivityRepo, tut *tutor.Service, logger *zap.Logger, runID, lessonID, lessonTitle string, lang locale.Language) *QuizScreen {
	return &QuizScreen{
		client:      client,
		activity:    activity,
		tut:         tut,
		logger:      logger,
		lang:        lang,
		runID:       runID,
		lessonID:    lessonID,
		lessonTitle: lessonTitle,
		picking:     true,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return s.lessonTitle
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	pick := locale.Pick(s.lang, "اختيار", "Select")
	back := locale.Pick(s.lang, "رجوع", "Back")

	if s.picking {
		return []layout.KeyHint{
			{Key: "↑/↓", Description: pick},
			{Key: "Enter", Description: locale.Pick(s.lang, "ابدأ", "Start")},
			{Key: "Esc", Description: back},
		}
	}
	if s.run == nil {
		return nil
	}

	switch s.run.Phase {
	case qz.PhasePresenting:
		hints := []layout.KeyHint{
			{Key: "↑/↓", Description: pick},
			{Key: "Space", Description: locale.Pick(s.lang, "اختر الإجابة", "Choose")},
			{Key: "Enter", Description: locale.Pick(s.lang, "تحقق", "Check")},
		}
		if qz.HintAvailable(s.run) {
			hints = append(hints, layout.KeyHint{Key: "H", Description: locale.Pick(s.lang, "تلميح", "Hint")})
		}
		return append(hints,
			layout.KeyHint{Key: "L", Description: locale.Pick(s.lang, "المستوى", "Level")},
			layout.KeyHint{Key: "Esc", Description: back},
		)
	case qz.PhaseRevealed:
		return []layout.KeyHint{
			{Key: "Enter", Description: locale.Pick(s.lang, "متابعة", "Continue")},
			{Key: "Esc", Description: back},
		}
	case qz.PhaseFinished:
		if s.finalizeErr != "" {
			return []layout.KeyHint{
				{Key: "R", Description: locale.Pick(s.lang, "إعادة المحاولة", "Retry")},
				{Key: "Esc", Description: back},
			}
		}
		return nil
	case qz.PhaseFailed:
		return []layout.KeyHint{
			{Key: "R", Description: locale.Pick(s.lang, "إعادة التحميل", "Reload")},
			{Key: "L", Description: locale.Pick(s.lang, "المستوى", "Level")},
			{Key: "Esc", Description: back},
		}
	case qz.PhaseEmpty:
		return []layout.KeyHint{
			{Key: "L", Description: locale.Pick(s.lang, "المستوى", "Level")},
			{Key: "Esc", Description: back},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: back}}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		return s.handleQuestions(msg)
	case answerMsg:
		return s.handleAnswer(msg)
	case completeMsg:
		return s.handleComplete(msg)
	case elaborationMsg:
		return s.handleElaboration(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleQuestions(msg questionsMsg) (screen.Screen, tea.Cmd) {
	if s.run == nil {
		return s, nil
	}
	if msg.Err != nil {
		qz.ApplyLoadFailure(s.run, msg.Gen, msg.Err)
		return s, nil
	}
	if qz.ApplyQuestions(s.run, msg.Gen, msg.Questions, time.Now()) {
		s.resetQuestionUI()
	}
	return s, nil
}

func (s *QuizScreen) handleAnswer(msg answerMsg) (screen.Screen, tea.Cmd) {
	if s.run == nil || msg.Gen != s.run.Generation {
		return s, nil
	}
	s.submitting = false

	if msg.Err != nil {
		// The run stays where it was; the learner can check again.
		s.submitErr = localizedRequestError(s.lang, msg.Err)
		s.logger.Warn("answer submission failed",
			zap.String("lessonId", s.lessonID),
			zap.Error(msg.Err))
		return s, nil
	}

	q := qz.Current(s.run)
	if !qz.ApplyAnswer(s.run, msg.Gen, msg.Result) {
		return s, nil
	}
	s.options.Reveal(msg.Result.CorrectAnswer)

	if q != nil {
		_ = s.activity.AppendAnswerEvent(context.Background(), store.AnswerEventData{
			RunID:      s.runID,
			LessonID:   s.lessonID,
			QuestionID: q.ID,
			Level:      string(s.run.Level),
			Answer:     msg.Req.StudentAnswer,
			Correct:    msg.Result.IsCorrect,
			Points:     msg.Result.Points,
			TimeSpent:  msg.Req.TimeSpent,
			HintsUsed:  msg.Req.HintsUsed,
		})
	}

	if s.tut.Enabled() && q != nil {
		s.elabBusy = true
		return s, s.elaborate(q, msg.Req.StudentAnswer, msg.Result)
	}
	return s, nil
}

func (s *QuizScreen) handleComplete(msg completeMsg) (screen.Screen, tea.Cmd) {
	if s.run == nil || msg.Gen != s.run.Generation {
		return s, nil
	}
	s.finalizing = false

	if msg.Err != nil {
		s.finalizeErr = localizedRequestError(s.lang, msg.Err)
		s.logger.Warn("lesson completion failed",
			zap.String("lessonId", s.lessonID),
			zap.Error(msg.Err))
		return s, nil
	}

	if !qz.ApplyCompletion(s.run, msg.Gen, msg.Result) {
		return s, nil
	}
	s.finalizeErr = ""

	_ = s.activity.AppendCompletionEvent(context.Background(), store.CompletionEventData{
		RunID:     s.runID,
		LessonID:  s.lessonID,
		Level:     string(s.run.Level),
		Score:     msg.Result.Score,
		Correct:   msg.Result.QuestionsCorrect,
		Attempted: msg.Result.QuestionsAttempted,
	})

	// Replace so that leaving the summary exits the quiz view entirely.
	next := summary.New(s.lessonTitle, s.run.Level, s.run.Score, msg.Result, s.lang)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *QuizScreen) handleElaboration(msg elaborationMsg) (screen.Screen, tea.Cmd) {
	if s.run == nil || msg.Gen != s.run.Generation || msg.Index != s.run.Index {
		return s, nil
	}
	s.elabBusy = false
	if msg.Err != nil {
		// The backend explanation is already on screen; the tutor add-on
		// just goes missing.
		s.logger.Debug("tutor elaboration failed", zap.Error(msg.Err))
		return s, nil
	}
	s.elab = msg.Out
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.picking {
		return s.handlePickerKey(key)
	}
	if s.run == nil {
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if key == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.run.Phase {
	case qz.PhaseLoading:
		if key == "l" {
			s.startPicking()
		}
		return s, nil

	case qz.PhasePresenting:
		return s.handlePresentingKey(msg)

	case qz.PhaseRevealed:
		if key == "enter" {
			qz.Advance(s.run, time.Now())
			if s.run.Phase == qz.PhaseFinished {
				return s, s.finalize()
			}
			s.resetQuestionUI()
		}
		return s, nil

	case qz.PhaseFinished:
		// Finalization retries only on an explicit keypress.
		if (key == "r" || key == "enter") && s.finalizeErr != "" && !s.finalizing {
			return s, s.finalize()
		}
		return s, nil

	case qz.PhaseFailed:
		switch key {
		case "r":
			if qz.Reload(s.run, time.Now()) {
				return s, s.fetchQuestions()
			}
		case "l":
			s.startPicking()
		}
		return s, nil

	case qz.PhaseEmpty:
		if key == "l" {
			s.startPicking()
		}
		return s, nil
	}
	return s, nil
}

func (s *QuizScreen) handlePickerKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k":
		if s.pickIdx > 0 {
			s.pickIdx--
		}
	case "down", "j":
		if s.pickIdx < len(pickerLevels)-1 {
			s.pickIdx++
		}
	case "enter":
		level := pickerLevels[s.pickIdx]
		s.picking = false
		if s.run == nil {
			s.run = qz.NewRun(s.lessonID, level, time.Now())
		} else {
			qz.SwitchLevel(s.run, level, time.Now())
		}
		s.resetQuestionUI()
		return s, s.fetchQuestions()
	case "esc":
		if s.run == nil {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		// Mid-run change of mind keeps the current run going.
		s.picking = false
	}
	return s, nil
}

func (s *QuizScreen) handlePresentingKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}

	switch msg.String() {
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		s.options, cmd = s.options.Update(msg)
		return s, cmd
	case " ", "space":
		if value := s.options.Choose(); value != "" {
			qz.Select(s.run, value)
			s.submitErr = ""
		}
		return s, nil
	case "enter":
		// Checking without a chosen answer does nothing.
		if !qz.CanCheck(s.run) {
			return s, nil
		}
		req, ok := qz.AnswerSubmission(s.run, time.Now())
		if !ok {
			return s, nil
		}
		s.submitting = true
		s.submitErr = ""
		return s, s.submit(req)
	case "h":
		if qz.HintAvailable(s.run) {
			qz.RevealHint(s.run)
		}
		return s, nil
	case "l":
		s.startPicking()
		return s, nil
	}
	return s, nil
}

func (s *QuizScreen) startPicking() {
	s.picking = true
	for i, lvl := range pickerLevels {
		if s.run != nil && lvl == s.run.Level {
			s.pickIdx = i
		}
	}
}

// resetQuestionUI rebuilds the option list for the current question.
func (s *QuizScreen) resetQuestionUI() {
	s.elab = nil
	s.elabBusy = false
	s.submitErr = ""
	q := qz.Current(s.run)
	if q == nil {
		s.options = components.OptionList{}
		return
	}
	s.options = components.NewOptionList(questionOptions(q), s.lang)
}

// questionOptions returns the answer options, synthesizing the fixed
// true/false pair when the backend sends a bare true-false question.
func questionOptions(q *api.Question) []api.Option {
	if len(q.Options) > 0 {
		return q.Options
	}
	if q.QuestionType == api.TrueFalse {
		return []api.Option{
			{Value: "true", Ar: "صح", En: "True"},
			{Value: "false", Ar: "خطأ", En: "False"},
		}
	}
	return nil
}

func (s *QuizScreen) fetchQuestions() tea.Cmd {
	gen, lessonID, level := s.run.Generation, s.run.LessonID, s.run.Level
	return func() tea.Msg {
		questions, err := s.client.GetQuestions(context.Background(), lessonID, level)
		if err != nil {
			return questionsMsg{Gen: gen, Err: err}
		}
		return questionsMsg{Gen: gen, Questions: questions}
	}
}

func (s *QuizScreen) submit(req api.SubmitAnswerRequest) tea.Cmd {
	gen := s.run.Generation
	return func() tea.Msg {
		result, err := s.client.SubmitAnswer(context.Background(), req)
		if err != nil {
			return answerMsg{Gen: gen, Req: req, Err: err}
		}
		return answerMsg{Gen: gen, Req: req, Result: result}
	}
}

func (s *QuizScreen) finalize() tea.Cmd {
	req, ok := qz.CompletionRequest(s.run)
	if !ok {
		return nil
	}
	s.finalizing = true
	gen := s.run.Generation
	return func() tea.Msg {
		result, err := s.client.CompleteLesson(context.Background(), req)
		if err != nil {
			return completeMsg{Gen: gen, Err: err}
		}
		return completeMsg{Gen: gen, Result: result}
	}
}

func (s *QuizScreen) elaborate(q *api.Question, selected string, result *api.AnswerResult) tea.Cmd {
	gen, idx, tut := s.run.Generation, s.run.Index, s.tut
	question := *q
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		out, err := tut.Elaborate(ctx, &question, selected, result)
		if err != nil {
			return elaborationMsg{Gen: gen, Index: idx, Err: err}
		}
		return elaborationMsg{Gen: gen, Index: idx, Out: out}
	}
}

// localizedRequestError keeps raw transport errors out of the learner's
// view while the log carries the detail.
func localizedRequestError(lang locale.Language, err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return locale.Pick(lang, "تعذر الاتصال بالمنصة", "Could not reach the platform")
}
