package progress

import (
	"fmt"
	"math"
	"strconv"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
)

// Dashboard joins the two independent dashboard fetches: per-lesson history
// and aggregate stats. The two calls have no ordering dependency; each
// resolves on its own and stale resolutions are discarded by generation.
type Dashboard struct {
	// Generation tags the current pair of fetches. Refresh bumps it.
	Generation uint64

	// History is the per-lesson progress list (valid once HistoryDone).
	History     []api.StudentProgress
	HistoryErr  error
	HistoryDone bool

	// Stats is the backend aggregate (valid once StatsDone).
	Stats     *api.StudentStats
	StatsErr  error
	StatsDone bool
}

// NewDashboard starts a dashboard with both fetches outstanding.
func NewDashboard() *Dashboard {
	return &Dashboard{Generation: 1}
}

// Refresh discards both panes and re-arms the fetches under a new
// generation.
func (d *Dashboard) Refresh() {
	d.Generation++
	d.History = nil
	d.HistoryErr = nil
	d.HistoryDone = false
	d.Stats = nil
	d.StatsErr = nil
	d.StatsDone = false
}

// ApplyHistory resolves the history fetch. Returns false if the resolution
// belongs to a superseded generation.
func (d *Dashboard) ApplyHistory(gen uint64, rows []api.StudentProgress, err error) bool {
	if gen != d.Generation {
		return false
	}
	d.History = rows
	d.HistoryErr = err
	d.HistoryDone = true
	return true
}

// ApplyStats resolves the stats fetch. Returns false if the resolution
// belongs to a superseded generation.
func (d *Dashboard) ApplyStats(gen uint64, stats *api.StudentStats, err error) bool {
	if gen != d.Generation {
		return false
	}
	d.Stats = stats
	d.StatsErr = err
	d.StatsDone = true
	return true
}

// Loading reports whether either fetch is still outstanding.
func (d *Dashboard) Loading() bool {
	return !d.HistoryDone || !d.StatsDone
}

// LevelLabel maps a difficulty level to its display label.
func LevelLabel(level api.Level, lang locale.Language) string {
	switch level {
	case api.LevelHigh:
		return locale.Pick(lang, "عالي", "High")
	case api.LevelMedium:
		return locale.Pick(lang, "متوسط", "Medium")
	case api.LevelSpecialNeeds:
		return locale.Pick(lang, "ذوي الهمم", "Special Needs")
	}
	return string(level)
}

// FormatDuration renders cumulative seconds as hours and minutes, minutes
// only when under an hour.
func FormatDuration(seconds int, lang locale.Language) string {
	hours := seconds / 3600
	mins := (seconds % 3600) / 60
	h := locale.Pick(lang, "س", "h")
	m := locale.Pick(lang, "د", "m")
	if hours > 0 {
		return fmt.Sprintf("%d%s %d%s", hours, h, mins, m)
	}
	return fmt.Sprintf("%d%s", mins, m)
}

// FormatScore renders a percentage score rounded to a whole number.
func FormatScore(score float64) string {
	return strconv.Itoa(int(math.Round(score))) + "%"
}

// FormatAverage renders the average score with one decimal place.
func FormatAverage(score float64) string {
	return fmt.Sprintf("%.1f%%", score)
}

// FormatRate renders the completion rate as the backend sent it, without
// client-side recomputation.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// CorrectLine renders the "n of m correct" detail for a history row, empty
// when nothing was attempted.
func CorrectLine(p api.StudentProgress, lang locale.Language) string {
	if p.QuestionsAttempted == 0 {
		return ""
	}
	if lang == locale.Arabic {
		return fmt.Sprintf("%d من %d صحيحة", p.QuestionsCorrect, p.QuestionsAttempted)
	}
	return fmt.Sprintf("%d of %d correct", p.QuestionsCorrect, p.QuestionsAttempted)
}
