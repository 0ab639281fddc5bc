package login

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/auth"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/ui/components"
	"github.com/darsihq/darsi/internal/ui/layout"
	"github.com/darsihq/darsi/internal/ui/theme"
)

// Client is the slice of the platform API the login screen talks to.
type Client interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error)
}

// loginMsg resolves one login attempt.
type loginMsg struct {
	Result *api.LoginResult
	Err    error
}

// submitMsg asks the screen to attempt a login with the current fields.
type submitMsg struct{}

const (
	fieldEmail = iota
	fieldPassword
	fieldSubmit
)

// LoginScreen collects credentials and establishes the session. session is
// the shared object the API client reads its token from; a successful login
// mutates it in place and every authenticated call after that just works.
type LoginScreen struct {
	client   Client
	session  *auth.Session
	sessions store.SessionRepo
	logger   *zap.Logger
	lang     locale.Language
	next     func() screen.Screen

	email    components.TextInput
	password components.TextInput
	button   components.Button
	focused  int
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen. next builds the screen shown after a
// successful login.
func New(client Client, session *auth.Session, sessions store.SessionRepo, logger *zap.Logger, lang locale.Language, next func() screen.Screen) *LoginScreen {
	s := &LoginScreen{
		client:   client,
		session:  session,
		sessions: sessions,
		logger:   logger,
		lang:     lang,
		next:     next,
		email:    components.NewTextInput(locale.Pick(lang, "البريد الإلكتروني", "Email"), 254),
		password: components.NewPasswordInput(locale.Pick(lang, "كلمة المرور", "Password"), 128),
	}
	s.button = components.NewButton(
		locale.Pick(lang, "تسجيل الدخول", "Sign in"),
		false,
		func() tea.Cmd { return func() tea.Msg { return submitMsg{} } },
	)
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	return locale.Pick(s.lang, "تسجيل الدخول", "Sign in")
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: locale.Pick(s.lang, "الحقل التالي", "Next field")},
		{Key: "Enter", Description: locale.Pick(s.lang, "دخول", "Sign in")},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginMsg:
		return s.handleLogin(msg)
	case submitMsg:
		return s.submit()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LoginScreen) handleLogin(msg loginMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = localizedLoginError(s.lang, msg.Err)
		s.logger.Info("login failed", zap.Error(msg.Err))
		return s, nil
	}

	*s.session = auth.Session{
		BearerToken: msg.Result.Token,
		User:        msg.Result.User,
		SavedAt:     time.Now(),
	}
	if err := s.sessions.Save(context.Background(), s.session); err != nil {
		// The session works for this process either way.
		s.logger.Warn("could not persist session", zap.Error(err))
	}

	next := s.next()
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *LoginScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		return s, s.focusField((s.focused + 1) % 3)
	case "shift+tab", "up":
		return s, s.focusField((s.focused + 2) % 3)
	case "enter":
		if s.focused == fieldEmail {
			return s, s.focusField(fieldPassword)
		}
		if s.focused == fieldPassword {
			return s.submit()
		}
	}

	var cmd tea.Cmd
	switch s.focused {
	case fieldEmail:
		s.email, cmd = s.email.Update(msg)
	case fieldPassword:
		s.password, cmd = s.password.Update(msg)
	case fieldSubmit:
		s.button, cmd = s.button.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) focusField(field int) tea.Cmd {
	s.focused = field
	s.email.Blur()
	s.password.Blur()
	s.button.Active = field == fieldSubmit

	switch field {
	case fieldEmail:
		return s.email.Focus()
	case fieldPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()

	if email == "" || !strings.Contains(email, "@") {
		s.errMsg = locale.Pick(s.lang, "أدخل بريدًا إلكترونيًا صالحًا", "Enter a valid email")
		return s, nil
	}
	if password == "" {
		s.errMsg = locale.Pick(s.lang, "أدخل كلمة المرور", "Enter your password")
		return s, nil
	}

	s.busy = true
	s.errMsg = ""
	client := s.client
	return s, func() tea.Msg {
		result, err := client.Login(context.Background(), api.LoginRequest{
			Email:    email,
			Password: password,
		})
		if err != nil {
			return loginMsg{Err: err}
		}
		return loginMsg{Result: result}
	}
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render(
		locale.Pick(s.lang, "مرحبًا بك في درسي", "Welcome to Darsi")))
	b.WriteString("\n\n")

	form := strings.Join([]string{
		locale.Pick(s.lang, "البريد الإلكتروني", "Email"),
		s.email.View(),
		"",
		locale.Pick(s.lang, "كلمة المرور", "Password"),
		s.password.View(),
		"",
		s.button.View(),
	}, "\n")

	card := theme.Card.Width(min(width-8, 56)).Render(form)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))

	if s.busy {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(locale.Pick(s.lang, "جارٍ تسجيل الدخول...", "Signing in..."))))
	}
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
	}

	return b.String()
}

func localizedLoginError(lang locale.Language, err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 401 {
			return locale.Pick(lang, "بيانات الدخول غير صحيحة", "Wrong email or password")
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return locale.Pick(lang, "تعذر الاتصال بالمنصة", "Could not reach the platform")
}
