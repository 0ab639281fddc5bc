package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/progress"
	qz "github.com/darsihq/darsi/internal/quiz"
	"github.com/darsihq/darsi/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.picking {
		return s.renderPicker(width)
	}
	if s.run == nil {
		return renderCentered(width, locale.Pick(s.lang, "جارٍ التحميل...", "Loading..."))
	}

	switch s.run.Phase {
	case qz.PhaseLoading:
		return renderCentered(width, locale.Pick(s.lang, "جارٍ تحميل الأسئلة...", "Loading questions..."))
	case qz.PhaseEmpty:
		return s.renderEmpty(width)
	case qz.PhaseFailed:
		return s.renderFailed(width)
	case qz.PhaseFinished:
		return s.renderFinalizing(width)
	default:
		return s.renderQuestion(width)
	}
}

// renderPicker shows the three difficulty tiers.
func (s *QuizScreen) renderPicker(width int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render(
		locale.Pick(s.lang, "اختر مستوى الأسئلة", "Choose your question level")))
	b.WriteString("\n\n")

	var rows []string
	for i, lvl := range pickerLevels {
		label := progress.LevelLabel(lvl, s.lang)
		if i == s.pickIdx {
			rows = append(rows, theme.Selected.Render("▸ "+label))
			continue
		}
		rows = append(rows, theme.Unselected.Render("  "+label))
	}

	card := theme.Card.Render(strings.Join(rows, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render(locale.Pick(s.lang,
			"يمكنك تغيير المستوى في أي وقت بالضغط على L",
			"You can switch levels any time with L"))))

	return b.String()
}

func (s *QuizScreen) renderEmpty(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Width(width).Align(lipgloss.Center).Render(
		locale.Pick(s.lang, "لا توجد أسئلة لهذا المستوى", "No questions at this level")))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render(locale.Pick(s.lang,
			"جرّب مستوى آخر بالضغط على L",
			"Try another level with L"))))
	return b.String()
}

func (s *QuizScreen) renderFailed(width int) string {
	msg := locale.Pick(s.lang, "تعذر تحميل الأسئلة", "Could not load the questions")
	if s.run.LoadErr != nil {
		msg = localizedRequestError(s.lang, s.run.LoadErr)
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Bold(true).
		Render(msg))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render(locale.Pick(s.lang,
			"اضغط R لإعادة المحاولة",
			"Press R to try again"))))
	return b.String()
}

// renderFinalizing covers the window between the last reveal and the
// confirmed completion, including a failed finalization waiting on R.
func (s *QuizScreen) renderFinalizing(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render(
		locale.Pick(s.lang, "انتهت الأسئلة", "All questions done")))
	b.WriteString("\n\n")

	line := fmt.Sprintf("%s: %d / %d",
		locale.Pick(s.lang, "إجابات صحيحة", "Correct"),
		s.run.Correct, s.run.Attempted)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(line)))
	b.WriteString("\n\n")

	switch {
	case s.finalizeErr != "":
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.finalizeErr))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(locale.Pick(s.lang,
				"اضغط R لإعادة إرسال النتيجة",
				"Press R to resend your result"))))
	default:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(locale.Pick(s.lang, "جارٍ حفظ النتيجة...", "Saving your result..."))))
	}
	return b.String()
}

func (s *QuizScreen) renderQuestion(width int) string {
	q := qz.Current(s.run)
	if q == nil {
		return renderCentered(width, locale.Pick(s.lang, "جارٍ التحميل...", "Loading..."))
	}

	var b strings.Builder

	// Progress line: position, level, running score.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s %d/%d",
			locale.Pick(s.lang, "سؤال", "Question"),
			s.run.Index+1, len(s.run.Questions)))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s  ★ %d",
			progress.LevelLabel(s.run.Level, s.lang), s.run.Score))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(0, width-4))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.LocalText(s.lang)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))

	if hints := qz.RevealedHints(s.run, s.lang); len(hints) > 0 {
		var hb strings.Builder
		for i, h := range hints {
			if i > 0 {
				hb.WriteString("\n")
			}
			hb.WriteString("💡 " + h)
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).Render(hb.String())))
	}

	if s.submitting {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(locale.Pick(s.lang, "جارٍ التحقق...", "Checking..."))))
	}
	if s.submitErr != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.submitErr))
	}

	if s.run.Phase == qz.PhaseRevealed && s.run.Result != nil {
		b.WriteString("\n\n")
		b.WriteString(s.renderVerdict(width))
	}

	return b.String()
}

func (s *QuizScreen) renderVerdict(width int) string {
	res := s.run.Result

	var b strings.Builder
	if res.IsCorrect {
		b.WriteString(theme.Correct.Render(
			locale.Pick(s.lang, fmt.Sprintf("✓ إجابة صحيحة  +%d", res.Points),
				fmt.Sprintf("✓ Correct  +%d", res.Points))))
	} else {
		b.WriteString(theme.Incorrect.Render(
			locale.Pick(s.lang, "✗ إجابة غير صحيحة", "✗ Not quite")))
	}

	if exp := res.LocalExplanation(s.lang); exp != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render(exp))
	}

	if s.elabBusy {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(locale.Pick(s.lang, "المعلم يفكر...", "Tutor is thinking...")))
	}
	if s.elab != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(
			locale.Pick(s.lang, "شرح المعلم", "Tutor's take")))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(s.elab.Explanation))
		for _, step := range s.elab.Steps {
			b.WriteString("\n")
			b.WriteString(theme.Body.Render("  • " + step))
		}
		if s.elab.Encouragement != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render(s.elab.Encouragement))
		}
	}

	card := theme.Card.Width(min(width-8, 72)).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func renderCentered(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n" + text)
}
