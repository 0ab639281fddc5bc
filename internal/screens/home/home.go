package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/auth"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/screens/activity"
	"github.com/darsihq/darsi/internal/screens/dashboard"
	"github.com/darsihq/darsi/internal/screens/lessons"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/tutor"
	"github.com/darsihq/darsi/internal/ui/components"
	"github.com/darsihq/darsi/internal/ui/layout"
	"github.com/darsihq/darsi/internal/ui/theme"
)

// Client covers every API slice reachable from the home menu.
type Client interface {
	lessons.Client
	dashboard.Client
}

// HomeScreen is the landing menu after sign-in.
type HomeScreen struct {
	menu    components.Menu
	session *auth.Session
	lang    locale.Language
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen with its navigation wired up.
func New(client Client, repo store.ActivityRepo, tut *tutor.Service, logger *zap.Logger, session *auth.Session, subjectID string, lang locale.Language) *HomeScreen {
	items := []components.MenuItem{
		{
			Label: locale.Pick(lang, "دروسي", "My Lessons"),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: lessons.New(client, repo, tut, logger, subjectID, lang),
					}
				}
			},
		},
		{
			Label: locale.Pick(lang, "تقدمي", "My Progress"),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: dashboard.New(client, session, lang)}
				}
			},
		},
		{
			Label: locale.Pick(lang, "النشاط", "Activity"),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: activity.New(repo, lang)}
				}
			},
		},
		{
			Label: locale.Pick(lang, "خروج", "Exit"),
			Action: func() tea.Cmd {
				return tea.Quit
			},
		},
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		session: session,
		lang:    lang,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return locale.Pick(h.lang, "الرئيسية", "Home")
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: locale.Pick(h.lang, "تنقل", "Navigate")},
		{Key: "Enter", Description: locale.Pick(h.lang, "اختيار", "Select")},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	name := h.session.User.Name
	greeting := locale.Pick(h.lang, "أهلًا", "Hello")
	if name != "" {
		greeting += " " + name
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render(greeting))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(locale.Pick(h.lang, "ماذا نتعلم اليوم؟", "What are we learning today?")))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return b.String()
}
