package activity

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/ui/layout"
	"github.com/darsihq/darsi/internal/ui/theme"
)

const recentLimit = 50

type activityLoadedMsg struct {
	Entries []store.ActivityEntry
	Err     error
}

// ActivityScreen shows the local journal: answers, video milestones and
// completions recorded on this device, newest first.
type ActivityScreen struct {
	repo     store.ActivityRepo
	lang     locale.Language
	entries  []store.ActivityEntry
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates the activity screen.
func New(repo store.ActivityRepo, lang locale.Language) *ActivityScreen {
	return &ActivityScreen{repo: repo, lang: lang}
}

func (s *ActivityScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		entries, err := repo.Recent(context.Background(), recentLimit)
		if err != nil {
			return activityLoadedMsg{Err: err}
		}
		return activityLoadedMsg{Entries: entries}
	}
}

func (s *ActivityScreen) Title() string {
	return locale.Pick(s.lang, "النشاط", "Activity")
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: locale.Pick(s.lang, "تنقل", "Navigate")},
		{Key: "Esc", Description: locale.Pick(s.lang, "رجوع", "Back")},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
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
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		}
		return s, nil
	}
	return s, nil
}

func (s *ActivityScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + locale.Pick(s.lang, "تعذر قراءة السجل", "Could not read the journal"))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n" + locale.Pick(s.lang, "جارٍ التحميل...", "Loading..."))
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n" + locale.Pick(s.lang, "لا يوجد نشاط بعد. افتح درسًا وابدأ!", "No activity yet. Open a lesson and dive in!"))
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, entry := range s.entries {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s  %s  %s",
			prefix,
			entry.CreatedAt.Format("Jan 02 15:04"),
			kindIcon(entry.Kind),
			entry.Detail)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func kindIcon(kind string) string {
	switch kind {
	case "video":
		return "▶"
	case "answer":
		return "✎"
	case "completion":
		return "🎉"
	default:
		return "•"
	}
}
