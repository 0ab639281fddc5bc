package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
)

func TestFetchesResolveIndependently(t *testing.T) {
	d := NewDashboard()
	if !d.Loading() {
		t.Fatal("fresh dashboard not loading")
	}

	if !d.ApplyStats(d.Generation, &api.StudentStats{CompletedLessons: 3}, nil) {
		t.Fatal("stats resolution rejected")
	}
	if !d.Loading() {
		t.Fatal("dashboard done with history still outstanding")
	}

	if !d.ApplyHistory(d.Generation, []api.StudentProgress{{LessonID: "l1"}}, nil) {
		t.Fatal("history resolution rejected")
	}
	if d.Loading() {
		t.Fatal("dashboard still loading with both panes resolved")
	}
}

func TestEmptyHistoryIsNormal(t *testing.T) {
	d := NewDashboard()
	d.ApplyHistory(d.Generation, nil, nil)
	d.ApplyStats(d.Generation, &api.StudentStats{}, nil)

	if d.Loading() || d.HistoryErr != nil {
		t.Fatalf("loading=%v err=%v for empty history", d.Loading(), d.HistoryErr)
	}
	if len(d.History) != 0 {
		t.Fatalf("History = %v, want empty", d.History)
	}
}

func TestRefreshDiscardsStaleResolutions(t *testing.T) {
	d := NewDashboard()
	gen := d.Generation
	d.Refresh()

	if d.ApplyHistory(gen, []api.StudentProgress{{LessonID: "stale"}}, nil) {
		t.Fatal("stale history accepted after refresh")
	}
	if d.ApplyStats(gen, &api.StudentStats{}, errors.New("timeout")) {
		t.Fatal("stale stats accepted after refresh")
	}
	if d.History != nil || d.Stats != nil || !d.Loading() {
		t.Fatal("stale resolutions mutated the refreshed dashboard")
	}
}

func TestCompletedDerivedFromTimestamp(t *testing.T) {
	done := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	row := api.StudentProgress{CompletedAt: &done}
	if !row.Completed() {
		t.Fatal("Completed = false with timestamp present")
	}
	if (api.StudentProgress{}).Completed() {
		t.Fatal("Completed = true without timestamp")
	}
}

func TestLevelLabelMapping(t *testing.T) {
	cases := []struct {
		level  api.Level
		lang   locale.Language
		want   string
	}{
		{api.LevelHigh, locale.Arabic, "عالي"},
		{api.LevelHigh, locale.English, "High"},
		{api.LevelMedium, locale.Arabic, "متوسط"},
		{api.LevelMedium, locale.English, "Medium"},
		{api.LevelSpecialNeeds, locale.Arabic, "ذوي الهمم"},
		{api.LevelSpecialNeeds, locale.English, "Special Needs"},
	}
	for _, c := range cases {
		if got := LevelLabel(c.level, c.lang); got != c.want {
			t.Errorf("LevelLabel(%s, %s) = %q, want %q", c.level, c.lang, got, c.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		lang    locale.Language
		want    string
	}{
		{5400, locale.English, "1h 30m"},
		{5400, locale.Arabic, "1س 30د"},
		{1740, locale.English, "29m"},
		{0, locale.English, "0m"},
		{3600, locale.English, "1h 0m"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds, c.lang); got != c.want {
			t.Errorf("FormatDuration(%d, %s) = %q, want %q", c.seconds, c.lang, got, c.want)
		}
	}
}

func TestDisplayRounding(t *testing.T) {
	if got := FormatScore(86.5); got != "87%" {
		t.Errorf("FormatScore(86.5) = %q, want 87%%", got)
	}
	if got := FormatScore(100); got != "100%" {
		t.Errorf("FormatScore(100) = %q", got)
	}
	if got := FormatAverage(83.333); got != "83.3%" {
		t.Errorf("FormatAverage = %q", got)
	}
	if got := FormatRate(75); got != "75%" {
		t.Errorf("FormatRate = %q", got)
	}
}

func TestCorrectLine(t *testing.T) {
	p := api.StudentProgress{QuestionsAttempted: 5, QuestionsCorrect: 4}
	if got := CorrectLine(p, locale.English); got != "4 of 5 correct" {
		t.Errorf("CorrectLine = %q", got)
	}
	if got := CorrectLine(api.StudentProgress{}, locale.English); got != "" {
		t.Errorf("CorrectLine for no attempts = %q, want empty", got)
	}
}
