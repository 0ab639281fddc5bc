package lesson

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/router"
	"github.com/darsihq/darsi/internal/screen"
	quizscreen "github.com/darsihq/darsi/internal/screens/quiz"
	"github.com/darsihq/darsi/internal/store"
	"github.com/darsihq/darsi/internal/tutor"
	"github.com/darsihq/darsi/internal/ui/layout"
	"github.com/darsihq/darsi/internal/video"
)

// Client is the slice of the platform API the lesson viewer talks to.
type Client interface {
	GetLesson(ctx context.Context, lessonID string, level api.Level, lang locale.Language) (*api.Lesson, error)
	GetLessonProgress(ctx context.Context, lessonID string) (*api.LessonProgress, error)
	ReportVideoProgress(ctx context.Context, req api.VideoProgressRequest) (*api.StudentProgress, error)
}

// LessonScreen shows one lesson: objectives, the video phase with
// simulated playback for direct media, and the jump into questions.
type LessonScreen struct {
	client   Client
	quizAPI  quizscreen.Client
	activity store.ActivityRepo
	tut      *tutor.Service
	logger   *zap.Logger
	lang     locale.Language

	lessonID string
	runID    string

	lesson  *api.Lesson
	prior   *api.StudentProgress
	source  video.Info
	tracker *video.Tracker
	watched bool
	loadErr error

	// playGen names the current tick loop. Resume and restart bump it,
	// so a tick scheduled by a superseded loop identifies itself as stale.
	playGen uint64
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a lesson viewer. Each viewing session gets a fresh run id
// tying together the journal entries it produces.
func New(client Client, quizAPI quizscreen.Client, activity store.ActivityRepo, tut *tutor.Service, logger *zap.Logger, lessonID string, lang locale.Language) *LessonScreen {
	return &LessonScreen{
		client:   client,
		quizAPI:  quizAPI,
		activity: activity,
		tut:      tut,
		logger:   logger,
		lang:     lang,
		lessonID: lessonID,
		runID:    uuid.NewString(),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return s.fetchLesson()
}

func (s *LessonScreen) Title() string {
	if s.lesson != nil {
		return s.lesson.LocalTitle(s.lang)
	}
	return locale.Pick(s.lang, "الدرس", "Lesson")
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	back := layout.KeyHint{Key: "Esc", Description: locale.Pick(s.lang, "رجوع", "Back")}
	if s.lesson == nil {
		return []layout.KeyHint{back}
	}

	var hints []layout.KeyHint
	if s.questionsReady() {
		hints = append(hints, layout.KeyHint{
			Key: "S", Description: locale.Pick(s.lang, "ابدأ الأسئلة", "Start questions"),
		})
	}
	if s.tracker != nil {
		if s.tracker.Ended() {
			hints = append([]layout.KeyHint{
				{Key: "R", Description: locale.Pick(s.lang, "إعادة التشغيل", "Replay")},
			}, hints...)
		} else {
			hints = append([]layout.KeyHint{
				{Key: "Space", Description: locale.Pick(s.lang, "تشغيل/إيقاف", "Play/Pause")},
				{Key: "←/→", Description: locale.Pick(s.lang, "تقديم", "Seek")},
			}, hints...)
		}
	}
	return append(hints, back)
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonMsg:
		return s.handleLesson(msg)
	case playTickMsg:
		return s.handleTick(msg)
	case reportDoneMsg:
		return s.handleReportDone(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleLesson(msg lessonMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.loadErr = msg.Err
		return s, nil
	}
	s.lesson = msg.Lesson
	s.prior = msg.Prior
	s.source = video.GetInfo(msg.Lesson.VideoURL)

	if s.source.Kind.Trackable() {
		offset := 0
		if msg.Prior != nil {
			offset = msg.Prior.VideoProgress
			s.watched = msg.Prior.VideoWatched
		}
		s.tracker = video.NewTracker(msg.Lesson.VideoDuration, offset)
	}
	return s, nil
}

func (s *LessonScreen) handleTick(msg playTickMsg) (screen.Screen, tea.Cmd) {
	if msg.Gen != s.playGen {
		return s, nil
	}
	if s.tracker == nil || !s.tracker.Playing() {
		return s, nil
	}

	report := s.tracker.Tick()
	var cmds []tea.Cmd
	if s.tracker.Playing() {
		cmds = append(cmds, playTick(s.playGen))
	}
	if report != nil {
		if report.Watched {
			s.watched = true
		}
		cmds = append(cmds, s.sendReport(*report))
	}
	return s, tea.Batch(cmds...)
}

func (s *LessonScreen) handleReportDone(msg reportDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Err == nil {
		return s, nil
	}
	// Silent failure: the learner keeps watching, the log and the local
	// journal carry the miss.
	s.logger.Warn("video progress report failed",
		zap.String("lessonId", s.lessonID),
		zap.Int("elapsed", msg.Elapsed),
		zap.Error(msg.Err))
	_ = s.activity.AppendVideoEvent(context.Background(), store.VideoEventData{
		RunID:    s.runID,
		LessonID: s.lessonID,
		Elapsed:  msg.Elapsed,
		Watched:  msg.Watched,
		Reported: false,
	})
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case "s":
		if !s.questionsReady() {
			return s, nil
		}
		if s.tracker != nil {
			s.tracker.Pause()
		}
		next := quizscreen.New(s.quizAPI, s.activity, s.tut, s.logger,
			s.runID, s.lessonID, s.lesson.LocalTitle(s.lang), s.lang)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }

	case " ", "space":
		if s.tracker == nil {
			return s, nil
		}
		wasPlaying := s.tracker.Playing()
		s.tracker.Toggle()
		if !wasPlaying && s.tracker.Playing() {
			return s, s.startTicking()
		}
		return s, nil

	case "r":
		if s.tracker != nil && s.tracker.Ended() {
			s.tracker.Restart()
			return s, s.startTicking()
		}
		return s, nil

	case "right":
		if s.tracker != nil {
			s.tracker.Seek(s.tracker.Elapsed() + 10)
		}
		return s, nil

	case "left":
		if s.tracker != nil {
			s.tracker.Seek(s.tracker.Elapsed() - 10)
		}
		return s, nil
	}
	return s, nil
}

// questionsReady reports whether the question set is unlocked. Tracked
// media unlocks once watched, this session or a previous one; embedded
// media cannot be tracked and never blocks.
func (s *LessonScreen) questionsReady() bool {
	if s.lesson == nil {
		return false
	}
	if s.tracker == nil {
		return true
	}
	return s.watched || s.tracker.Watched()
}

func (s *LessonScreen) fetchLesson() tea.Cmd {
	lessonID, lang := s.lessonID, s.lang
	client := s.client
	return func() tea.Msg {
		ctx := context.Background()
		lesson, err := client.GetLesson(ctx, lessonID, "", lang)
		if err != nil {
			return lessonMsg{Err: err}
		}

		// Prior progress is a nicety; the lesson still opens without it.
		var prior *api.StudentProgress
		if lp, err := client.GetLessonProgress(ctx, lessonID); err == nil && lp != nil {
			prior = lp.Progress
		}
		return lessonMsg{Lesson: lesson, Prior: prior}
	}
}

func (s *LessonScreen) sendReport(report video.Report) tea.Cmd {
	req := api.VideoProgressRequest{
		LessonID:      s.lessonID,
		VideoProgress: report.Elapsed,
		VideoWatched:  report.Watched,
	}
	client := s.client
	runID, activity := s.runID, s.activity
	completedNow := report.CompletedNow
	return func() tea.Msg {
		_, err := client.ReportVideoProgress(context.Background(), req)
		if err != nil {
			return reportDoneMsg{Elapsed: req.VideoProgress, Watched: req.VideoWatched, Err: err}
		}
		if completedNow {
			_ = activity.AppendVideoEvent(context.Background(), store.VideoEventData{
				RunID:    runID,
				LessonID: req.LessonID,
				Elapsed:  req.VideoProgress,
				Watched:  true,
				Reported: true,
			})
		}
		return reportDoneMsg{Elapsed: req.VideoProgress, Watched: req.VideoWatched}
	}
}

// startTicking supersedes any in-flight tick loop and arms a new one.
func (s *LessonScreen) startTicking() tea.Cmd {
	s.playGen++
	return playTick(s.playGen)
}

func playTick(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return playTickMsg{Gen: gen}
	})
}
