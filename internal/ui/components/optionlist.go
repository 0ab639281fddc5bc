package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
	"github.com/darsihq/darsi/internal/ui/theme"
)

// OptionList renders a question's answer options. Selection is local; the
// verdict comes from the backend, so the list is revealed with the correct
// answer value rather than computing correctness itself.
type OptionList struct {
	Options  []api.Option
	Lang     locale.Language
	Selected int

	// Chosen is the index the learner has committed to (-1 until they
	// choose). Moving the highlight does not choose.
	Chosen int

	// Revealed paints the correct and chosen options after check-answer.
	Revealed     bool
	CorrectValue string
}

// NewOptionList creates an option list for a question. True-false questions
// carry their two options from the backend like any other.
func NewOptionList(opts []api.Option, lang locale.Language) OptionList {
	return OptionList{Options: opts, Lang: lang, Chosen: -1}
}

// Init returns nil.
func (o OptionList) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. Choosing and checking are handled by
// the caller through Choose.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Revealed {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	}

	return o, nil
}

// Choose commits the highlighted option and returns its backend value.
func (o *OptionList) Choose() string {
	if o.Revealed || o.Selected < 0 || o.Selected >= len(o.Options) {
		return ""
	}
	o.Chosen = o.Selected
	return o.Options[o.Selected].Value
}

// ChosenValue returns the backend value of the committed option, "" when
// nothing has been chosen yet.
func (o OptionList) ChosenValue() string {
	if o.Chosen < 0 || o.Chosen >= len(o.Options) {
		return ""
	}
	return o.Options[o.Chosen].Value
}

// Reveal paints the list with the backend's verdict.
func (o *OptionList) Reveal(correct string) {
	o.Revealed = true
	o.CorrectValue = correct
}

// View renders the option list.
func (o OptionList) View() string {
	var s string
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Selected && !o.Revealed {
			prefix = "▸ "
		}
		marker := "○"
		if i == o.Chosen {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s", prefix, marker, opt.Label(o.Lang))

		if o.Revealed {
			switch {
			case opt.Value == o.CorrectValue:
				s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line+"  ✓") + "\n"
			case opt.Value == o.ChosenValue():
				s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line+"  ✗") + "\n"
			default:
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
			}
			continue
		}

		if i == o.Selected {
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		} else {
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
