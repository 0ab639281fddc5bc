package lessons

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	"github.com/darsihq/darsi/internal/screens/lesson"
	quizscreen "github.com/darsihq/darsi/internal/screens/quiz"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/tutor"
	"github.com/darsihq/darsi/internal/ui/components"
	"github.com/darsihq/darsi/internal/ui/layout"
	"github.com/darsihq/darsi/internal/ui/theme"
	"github.com/darsihq/darsi/internal/video"
)

// Client covers the browser's own listing call plus everything the lesson
// viewer underneath it needs.
type Client interface {
	GetSubjectLessons(ctx context.Context, subjectID string, status api.LessonStatus) ([]api.Lesson, error)
	lesson.Client
	quizscreen.Client
}

// lessonsMsg resolves the published-lesson listing.
type lessonsMsg struct {
	Lessons []api.Lesson
	Err     error
}

// BrowserScreen lists the published lessons of the configured subject.
type BrowserScreen struct {
	client   Client
	activity store.ActivityRepo
	tut      *tutor.Service
	logger   *zap.Logger
	lang     locale.Language

	subjectID string
	lessons   []api.Lesson
	menu      components.Menu
	loaded    bool
	loadErr   error
}

var _ screen.Screen = (*BrowserScreen)(nil)
var _ screen.KeyHintProvider = (*BrowserScreen)(nil)

// New creates the lesson browser for one subject.
func New(client Client, activity store.ActivityRepo, tut *tutor.Service, logger *zap.Logger, subjectID string, lang locale.Language) *BrowserScreen {
	return &BrowserScreen{
		client:    client,
		activity:  activity,
		tut:       tut,
		logger:    logger,
		lang:      lang,
		subjectID: subjectID,
	}
}

func (s *BrowserScreen) Init() tea.Cmd {
	return s.fetchLessons()
}

func (s *BrowserScreen) Title() string {
	return locale.Pick(s.lang, "دروسي", "My Lessons")
}

func (s *BrowserScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: locale.Pick(s.lang, "تنقل", "Navigate")},
		{Key: "Enter", Description: locale.Pick(s.lang, "افتح الدرس", "Open lesson")},
		{Key: "R", Description: locale.Pick(s.lang, "تحديث", "Refresh")},
		{Key: "Esc", Description: locale.Pick(s.lang, "رجوع", "Back")},
	}
}

func (s *BrowserScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonsMsg:
		s.loaded = true
		s.loadErr = msg.Err
		if msg.Err == nil {
			s.lessons = msg.Lessons
			s.menu = components.NewMenu(s.menuItems(msg.Lessons))
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			s.loaded = false
			s.loadErr = nil
			return s, s.fetchLessons()
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *BrowserScreen) View(width, height int) string {
	if s.loadErr != nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n" + locale.Pick(s.lang, "تعذر تحميل الدروس", "Could not load the lessons"))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n" + locale.Pick(s.lang, "جارٍ تحميل الدروس...", "Loading lessons..."))
	}
	if len(s.lessons) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n" + locale.Pick(s.lang, "لا توجد دروس منشورة بعد", "No published lessons yet"))
	}

	menu := s.menu.View()
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, menu)
}

func (s *BrowserScreen) menuItems(lessons []api.Lesson) []components.MenuItem {
	items := make([]components.MenuItem, 0, len(lessons))
	for _, l := range lessons {
		l := l
		hint := ""
		if l.VideoDuration > 0 {
			hint = fmt.Sprintf("%d %s", (l.VideoDuration+59)/60, locale.Pick(s.lang, "د", "min"))
		}
		if video.Detect(l.VideoURL) != video.SourceDirect && video.Detect(l.VideoURL) != video.SourceUnknown {
			hint = video.GetInfo(l.VideoURL).Platform
		}
		items = append(items, components.MenuItem{
			Label: l.LocalTitle(s.lang),
			Hint:  hint,
			Action: func() tea.Cmd {
				next := lesson.New(s.client, s.client, s.activity, s.tut, s.logger, l.ID, s.lang)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		})
	}
	return items
}

func (s *BrowserScreen) fetchLessons() tea.Cmd {
	client, subjectID := s.client, s.subjectID
	return func() tea.Msg {
		lessons, err := client.GetSubjectLessons(context.Background(), subjectID, api.StatusPublished)
		if err != nil {
			return lessonsMsg{Err: err}
		}
		return lessonsMsg{Lessons: lessons}
	}
}
