package lesson

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/ui/components"
	"github.com/darsihq/darsi/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	if s.loadErr != nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n" + localizedLoadError(s.lang, s.loadErr))
	}
	if s.lesson == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n" + locale.Pick(s.lang, "جارٍ تحميل الدرس...", "Loading lesson..."))
	}

	var b strings.Builder

	if s.prior != nil && s.prior.Completed() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(
			"  🎉 " + locale.Pick(s.lang, "درس مكتمل", "Lesson completed")))
		b.WriteString("\n")
	}

	if desc := s.lesson.LocalDescription(s.lang); desc != "" {
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(width - 4).Render("  " + desc))
		b.WriteString("\n")
	}

	if len(s.lesson.Objectives) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("  " + locale.Pick(s.lang, "أهداف الدرس", "Objectives")))
		b.WriteString("\n")
		for _, obj := range s.lesson.Objectives {
			b.WriteString(theme.Body.Render("   • " + obj.In(s.lang)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.renderVideo(width))
	b.WriteString("\n\n")
	unlock := locale.Pick(s.lang,
		"اضغط S للانتقال إلى الأسئلة",
		"Press S to start the questions")
	if !s.questionsReady() {
		unlock = locale.Pick(s.lang,
			"أكمل مشاهدة الفيديو لفتح الأسئلة",
			"Finish watching the video to unlock the questions")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render(unlock)))

	return b.String()
}

// renderVideo shows the playback panel for direct media, or the
// open-externally card for embedded platforms.
func (s *LessonScreen) renderVideo(width int) string {
	if s.tracker == nil {
		label := s.source.Platform
		if label == "" {
			label = locale.Pick(s.lang, "مصدر خارجي", "External source")
		}
		lines := []string{
			fmt.Sprintf("▶ %s", label),
			theme.Hint.Render(s.source.EmbedURL),
			theme.Hint.Render(locale.Pick(s.lang,
				"شاهد الفيديو في المتصفح، لا يوجد تتبع للمشاهدة",
				"Watch in your browser; playback is not tracked")),
		}
		card := theme.Card.Width(min(width-8, 72)).Render(strings.Join(lines, "\n"))
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
	}

	var b strings.Builder

	status := "⏸"
	if s.tracker.Playing() {
		status = "▶"
	}
	if s.tracker.Ended() {
		status = "⏹"
	}

	frac := 0.0
	if s.tracker.Duration() > 0 {
		frac = float64(s.tracker.Elapsed()) / float64(s.tracker.Duration())
	}
	bar := components.NewProgressBar("", frac, false, min(width-24, 44))

	b.WriteString(fmt.Sprintf("%s  %s  %s / %s",
		status,
		bar.View(),
		clock(s.tracker.Elapsed()),
		clock(s.tracker.Duration())))

	if s.watched {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(
			"✓ " + locale.Pick(s.lang, "تمت مشاهدة الفيديو", "Video watched")))
	}

	card := theme.Card.Width(min(width-8, 72)).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func localizedLoadError(lang locale.Language, err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return locale.Pick(lang, "تعذر تحميل الدرس", "Could not load the lesson")
}
