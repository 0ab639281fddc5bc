package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/progress"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/ui/layout"
	"github.com/darsihq/darsi/internal/ui/theme"
)

// SummaryScreen shows the completion result for a finished lesson. The
// backend score is authoritative; the run's running total is shown only as
// the points collected along the way.
type SummaryScreen struct {
	lessonTitle string
	level       api.Level
	runScore    int
	result      *api.CompletionResult
	lang        locale.Language
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary screen for a confirmed completion.
func New(lessonTitle string, level api.Level, runScore int, result *api.CompletionResult, lang locale.Language) *SummaryScreen {
	return &SummaryScreen{
		lessonTitle: lessonTitle,
		level:       level,
		runScore:    runScore,
		result:      result,
		lang:        lang,
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return locale.Pick(s.lang, "اكتمل الدرس", "Lesson Complete")
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: locale.Pick(s.lang, "متابعة", "Continue")},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			// The quiz replaced itself with this summary, so one pop
			// exits the quiz view back to the lesson.
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("🎉 " + s.lessonTitle))
	b.WriteString("\n\n")

	lines := []string{
		fmt.Sprintf("%s: %s",
			locale.Pick(s.lang, "المستوى", "Level"),
			progress.LevelLabel(s.level, s.lang)),
		fmt.Sprintf("%s: %s",
			locale.Pick(s.lang, "النتيجة النهائية", "Final score"),
			progress.FormatScore(s.result.Score)),
		fmt.Sprintf("%s: %d / %d",
			locale.Pick(s.lang, "إجابات صحيحة", "Correct answers"),
			s.result.QuestionsCorrect, s.result.QuestionsAttempted),
		fmt.Sprintf("%s: %d",
			locale.Pick(s.lang, "النقاط المجمعة", "Points collected"),
			s.runScore),
	}

	card := theme.Card.Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render(locale.Pick(s.lang, "أحسنت! استمر في التعلم", "Well done! Keep learning"))))

	return b.String()
}
