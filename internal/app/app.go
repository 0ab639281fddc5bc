package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/auth"
	"github.com/darsihq/darsi/internal/config"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/screens/home"
	"github.com/darsihq/darsi/internal/screens/login"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/tutor"
	"github.com/darsihq/darsi/internal/ui/layout"
)

// Deps is everything the TUI needs, wired once at startup.
type Deps struct {
	Config  *config.Config
	Client  *api.Client
	Session *auth.Session
	Store   *store.Store
	Tutor   *tutor.Service
	Logger  *zap.Logger
}

// Model is the root Bubble Tea model: a screen router framed by the
// shared header and footer.
type Model struct {
	deps   Deps
	router *router.Router
	width  int
	height int
}

// NewModel builds the root model. A restored session skips straight to
// the home screen; otherwise the login screen runs first.
func NewModel(deps Deps) Model {
	lang := deps.Config.Language

	buildHome := func() screen.Screen {
		return home.New(deps.Client, deps.Store.Activity(), deps.Tutor, deps.Logger,
			deps.Session, deps.Config.SubjectID, lang)
	}

	var initial screen.Screen
	if _, err := deps.Session.Token(); err == nil {
		initial = buildHome()
	} else {
		initial = login.New(deps.Client, deps.Session, deps.Store.Sessions(),
			deps.Logger, lang, buildHome)
	}

	return Model{
		deps:   deps,
		router: router.New(initial),
	}
}

func (m Model) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.deps.Session.User.Name, m.width)

	footerHints := m.footerHints(active)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// footerHints asks the active screen for its hints, appending the global
// quit key.
func (m Model) footerHints(active screen.Screen) []layout.KeyHint {
	lang := m.deps.Config.Language
	quit := layout.KeyHint{Key: "Ctrl+C", Description: locale.Pick(lang, "إنهاء", "Quit")}

	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); len(hints) > 0 {
			return append(hints, quit)
		}
	}
	return []layout.KeyHint{
		{Key: "↑/↓", Description: locale.Pick(lang, "تنقل", "Navigate")},
		{Key: "Enter", Description: locale.Pick(lang, "اختيار", "Select")},
		quit,
	}
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(NewModel(deps), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
