package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/auth"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/progress"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/ui/components"
	"github.com/darsihq/darsi/internal/ui/layout"
	"github.com/darsihq/darsi/internal/ui/theme"
)

// Client is the slice of the API client this screen needs.
type Client interface {
	GetStudentProgress(ctx context.Context, studentID string) ([]api.StudentProgress, error)
	GetStudentStats(ctx context.Context, studentID string) (*api.StudentStats, error)
}

type historyMsg struct {
	Gen  uint64
	Rows []api.StudentProgress
	Err  error
}

type statsMsg struct {
	Gen   uint64
	Stats *api.StudentStats
	Err   error
}

// DashboardScreen renders per-lesson history next to the backend's
// aggregate stats. The two fetches are independent and run in parallel.
type DashboardScreen struct {
	client   Client
	session  *auth.Session
	lang     locale.Language
	dash     *progress.Dashboard
	selected int
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a dashboard screen for the signed-in student.
func New(client Client, session *auth.Session, lang locale.Language) *DashboardScreen {
	return &DashboardScreen{
		client:  client,
		session: session,
		lang:    lang,
		dash:    progress.NewDashboard(),
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.fetch()
}

// fetch launches both fetches tagged with the current generation.
func (s *DashboardScreen) fetch() tea.Cmd {
	gen := s.dash.Generation
	studentID := s.session.StudentID()

	history := func() tea.Msg {
		rows, err := s.client.GetStudentProgress(context.Background(), studentID)
		return historyMsg{Gen: gen, Rows: rows, Err: err}
	}
	stats := func() tea.Msg {
		st, err := s.client.GetStudentStats(context.Background(), studentID)
		return statsMsg{Gen: gen, Stats: st, Err: err}
	}
	return tea.Batch(history, stats)
}

func (s *DashboardScreen) Title() string {
	return locale.Pick(s.lang, "تقدمي", "My Progress")
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: locale.Pick(s.lang, "تنقل", "Navigate")},
		{Key: "r", Description: locale.Pick(s.lang, "تحديث", "Refresh")},
		{Key: "Esc", Description: locale.Pick(s.lang, "رجوع", "Back")},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		s.dash.ApplyHistory(msg.Gen, msg.Rows, msg.Err)
		return s, nil

	case statsMsg:
		s.dash.ApplyStats(msg.Gen, msg.Stats, msg.Err)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.dash.History)-1 {
				s.selected++
			}
		case "r":
			s.dash.Refresh()
			return s, s.fetch()
		}
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(s.viewStats(width))
	b.WriteString("\n\n")
	b.WriteString(s.viewHistory(width))

	return b.String()
}

func (s *DashboardScreen) viewStats(width int) string {
	if !s.dash.StatsDone {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(locale.Pick(s.lang, "جارٍ التحميل...", "Loading...")))
	}
	if s.dash.StatsErr != nil {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Incorrect.Render(s.dash.StatsErr.Error()))
	}

	st := s.dash.Stats
	cards := []string{
		statCard(locale.Pick(s.lang, "دروس مكتملة", "Completed"),
			fmt.Sprintf("%d / %d", st.CompletedLessons, st.TotalLessons)),
		statCard(locale.Pick(s.lang, "متوسط الدرجات", "Average score"),
			progress.FormatAverage(st.AverageScore)),
		statCard(locale.Pick(s.lang, "نسبة الإكمال", "Completion rate"),
			progress.FormatRate(st.CompletionRate)),
		statCard(locale.Pick(s.lang, "وقت التعلم", "Time spent"),
			progress.FormatDuration(st.TotalTimeSpent, s.lang)),
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	bar := components.NewProgressBar("", st.CompletionRate/100, false, min(width-8, 60)).View()
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row) + "\n\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, bar)
}

func statCard(label, value string) string {
	inner := lipgloss.NewStyle().Foreground(theme.TextDim).Render(label) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(value)
	return theme.Card.Render(inner)
}

func (s *DashboardScreen) viewHistory(width int) string {
	if !s.dash.HistoryDone {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(locale.Pick(s.lang, "جارٍ تحميل السجل...", "Loading history...")))
	}
	if s.dash.HistoryErr != nil {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Incorrect.Render(s.dash.HistoryErr.Error()))
	}
	if len(s.dash.History) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(locale.Pick(s.lang,
				"لا يوجد تقدم بعد. ابدأ درسك الأول!",
				"No progress yet. Start your first lesson!")))
	}

	var b strings.Builder
	for i, row := range s.dash.History {
		title := row.LessonID
		if row.Lesson != nil {
			title = row.Lesson.LocalTitle(s.lang)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		badges := make([]string, 0, 2)
		if row.Completed() {
			badges = append(badges, theme.Correct.Render(locale.Pick(s.lang, "مكتمل", "Completed")))
		}
		if row.SelectedLevel != "" {
			badges = append(badges, lipgloss.NewStyle().Foreground(theme.Accent).
				Render(progress.LevelLabel(row.SelectedLevel, s.lang)))
		}

		line := fmt.Sprintf("%s%s  %s  %s", prefix, title,
			progress.FormatScore(row.Score), strings.Join(badges, " "))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString("  " + style.Render(line) + "\n")

		if i == s.selected {
			if detail := progress.CorrectLine(row, s.lang); detail != "" {
				extra := detail
				if row.VideoWatched {
					extra += "  ✓ " + locale.Pick(s.lang, "شاهدت الفيديو", "Video watched")
				}
				b.WriteString("      " + theme.Hint.Render(extra) + "\n")
			}
		}
	}
	return b.String()
}
