package api

import (
	"time"

	"github.com/darsihq/darsi/internal/locale"
)

// Level is a question difficulty tier. Exactly three exist.
type Level string

const (
	LevelHigh         Level = "high"
	LevelMedium       Level = "medium"
	LevelSpecialNeeds Level = "special_needs"
)

// Levels lists the tiers in presentation order.
func Levels() []Level {
	return []Level{LevelHigh, LevelMedium, LevelSpecialNeeds}
}

// Valid reports whether l is one of the three tiers.
func (l Level) Valid() bool {
	return l == LevelHigh || l == LevelMedium || l == LevelSpecialNeeds
}

// QuestionType discriminates the two question shapes.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

// LessonStatus is the publication state of a lesson.
type LessonStatus string

const (
	StatusDraft     LessonStatus = "draft"
	StatusPublished LessonStatus = "published"
	StatusArchived  LessonStatus = "archived"
)

// Lesson is the backend-owned lesson record. The client holds a transient
// decoded copy; staff authoring is out of scope here.
type Lesson struct {
	ID            string        `json:"id"`
	SubjectID     string        `json:"subjectId,omitempty"`
	Title         string        `json:"title"`
	TitleEn       string        `json:"titleEn,omitempty"`
	Description   string        `json:"description,omitempty"`
	DescriptionEn string        `json:"descriptionEn,omitempty"`
	VideoURL      string        `json:"videoUrl"`
	VideoDuration int           `json:"videoDuration"` // seconds
	Objectives    []locale.Text `json:"objectives,omitempty"`
	Status        LessonStatus  `json:"status"`
	ThumbnailURL  string        `json:"thumbnailUrl,omitempty"`
}

// LocalTitle returns the lesson title in the given language.
func (l Lesson) LocalTitle(lang locale.Language) string {
	return locale.Pick(lang, l.Title, l.TitleEn)
}

// LocalDescription returns the lesson description in the given language.
func (l Lesson) LocalDescription(lang locale.Language) string {
	return locale.Pick(lang, l.Description, l.DescriptionEn)
}

// Option is one multiple-choice option: a submitted value plus its
// localized labels.
type Option struct {
	Value string `json:"value"`
	Ar    string `json:"ar"`
	En    string `json:"en,omitempty"`
}

// Label returns the option label in the given language.
func (o Option) Label(lang locale.Language) string {
	return locale.Pick(lang, o.Ar, o.En)
}

// Question belongs to exactly one lesson and one tier.
type Question struct {
	ID             string        `json:"id"`
	LessonID       string        `json:"lessonId"`
	QuestionType   QuestionType  `json:"questionType"`
	Level          Level         `json:"level"`
	QuestionText   string        `json:"questionText"`
	QuestionTextEn string        `json:"questionTextEn,omitempty"`
	Options        []Option      `json:"options,omitempty"`
	Points         int           `json:"points"`
	Hints          []locale.Text `json:"hints,omitempty"`
}

// LocalText returns the question text in the given language.
func (q Question) LocalText(lang locale.Language) string {
	return locale.Pick(lang, q.QuestionText, q.QuestionTextEn)
}

// HasHints reports whether the question carries at least one hint.
func (q Question) HasHints() bool {
	return len(q.Hints) > 0
}

// ProgressLesson is the slim lesson view nested inside progress rows.
type ProgressLesson struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	TitleEn string `json:"titleEn,omitempty"`
}

// LocalTitle returns the lesson title in the given language.
func (l ProgressLesson) LocalTitle(lang locale.Language) string {
	return locale.Pick(lang, l.Title, l.TitleEn)
}

// StudentProgress is the per-(student, lesson) aggregate owned by the
// backend and mutated only through the endpoints below.
type StudentProgress struct {
	ID                 string          `json:"id"`
	StudentID          string          `json:"studentId"`
	LessonID           string          `json:"lessonId"`
	Lesson             *ProgressLesson `json:"lesson,omitempty"`
	VideoProgress      int             `json:"videoProgress"` // elapsed seconds
	VideoWatched       bool            `json:"videoWatched"`
	QuestionsAttempted int             `json:"questionsAttempted"`
	QuestionsCorrect   int             `json:"questionsCorrect"`
	SelectedLevel      Level           `json:"selectedLevel,omitempty"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	Score              float64         `json:"score"`
	TimeSpent          int             `json:"timeSpent"` // seconds
}

// Completed reports whether the lesson was finalized. Derived purely from
// the presence of the completion timestamp.
func (p StudentProgress) Completed() bool {
	return p.CompletedAt != nil
}

// StudentAnswer is one answer submission record, append-only from the
// client's point of view.
type StudentAnswer struct {
	ID            string `json:"id"`
	QuestionID    string `json:"questionId"`
	StudentAnswer string `json:"studentAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	AttemptNumber int    `json:"attemptNumber"`
	TimeSpent     int    `json:"timeSpent"`
	HintsUsed     int    `json:"hintsUsed"`
}

// StudentStats is the backend-computed read-only aggregate.
type StudentStats struct {
	CompletedLessons int     `json:"completedLessons"`
	TotalLessons     int     `json:"totalLessons"`
	AverageScore     float64 `json:"averageScore"`
	CompletionRate   float64 `json:"completionRate"`
	TotalTimeSpent   int     `json:"totalTimeSpent"` // seconds
}

// LessonProgress bundles the per-lesson progress record with the answers
// already submitted for it.
type LessonProgress struct {
	Progress          *StudentProgress `json:"progress"`
	AnsweredQuestions []StudentAnswer  `json:"answeredQuestions"`
}

// VideoProgressRequest reports playback progress for a lesson.
type VideoProgressRequest struct {
	LessonID      string `json:"lessonId" validate:"required"`
	VideoProgress int    `json:"videoProgress" validate:"gte=0"`
	VideoWatched  bool   `json:"videoWatched"`
}

// SubmitAnswerRequest submits one answer attempt.
type SubmitAnswerRequest struct {
	QuestionID    string `json:"questionId" validate:"required"`
	StudentAnswer string `json:"studentAnswer" validate:"required"`
	TimeSpent     int    `json:"timeSpent" validate:"gte=0"`
	HintsUsed     int    `json:"hintsUsed" validate:"gte=0"`
}

// AnswerResult is the backend's verdict on a submission. Explanation is
// already localized server-side; ExplanationEn is the English variant when
// the backend provides both.
type AnswerResult struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	ExplanationEn string `json:"explanationEn,omitempty"`
	Points        int    `json:"points"`
}

// LocalExplanation returns the explanation in the given language.
func (r AnswerResult) LocalExplanation(lang locale.Language) string {
	return locale.Pick(lang, r.Explanation, r.ExplanationEn)
}

// CompleteLessonRequest finalizes a lesson run.
type CompleteLessonRequest struct {
	LessonID      string `json:"lessonId" validate:"required"`
	SelectedLevel Level  `json:"selectedLevel" validate:"required,oneof=high medium special_needs"`
}

// CompletionResult is the backend-authoritative final tally.
type CompletionResult struct {
	Score              float64 `json:"score"`
	QuestionsCorrect   int     `json:"questionsCorrect"`
	QuestionsAttempted int     `json:"questionsAttempted"`
}

// User is the authenticated platform account.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginRequest authenticates against the platform.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token and the account it belongs to.
type LoginResult struct {
	Token string
	User  User
}

// envelope is the uniform response wrapper every endpoint uses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}
