package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
)

// ElaborationSchema defines the JSON schema for answer elaboration.
var ElaborationSchema = &Schema{
	Name:        "answer-elaboration",
	Description: "A friendly expansion of a quiz answer's explanation for a school student",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Age-appropriate explanation of why the correct answer is correct (2-4 sentences)",
			},
			"encouragement": map[string]any{
				"type":        "string",
				"description": "One short encouraging sentence addressed to the student",
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to 3 short steps the student can follow to reason it out",
			},
		},
		"required":             []any{"explanation", "encouragement", "steps"},
		"additionalProperties": false,
	},
}

// Elaboration is the tutor's expansion of a revealed answer.
type Elaboration struct {
	Explanation   string   `json:"explanation"`
	Encouragement string   `json:"encouragement"`
	Steps         []string `json:"steps"`
}

// Service turns revealed quiz answers into friendlier explanations. It is
// optional: a nil *Service disables tutoring and every method degrades to
// "not available".
type Service struct {
	provider Provider
	lang     locale.Language
}

// NewService creates a tutoring service on top of a provider.
func NewService(provider Provider, lang locale.Language) *Service {
	return &Service{provider: provider, lang: lang}
}

// Enabled reports whether tutoring is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Elaborate expands the backend's explanation for a revealed answer. The
// backend explanation stays authoritative; the tutor only rephrases and
// encourages.
func (s *Service) Elaborate(ctx context.Context, q *api.Question, selected string, result *api.AnswerResult) (*Elaboration, error) {
	if !s.Enabled() {
		return nil, &ErrProviderUnavailable{}
	}

	ctx = WithPurpose(ctx, "elaborate")

	resp, err := s.provider.Generate(ctx, Request{
		System:    s.systemPrompt(),
		Messages:  []Message{{Role: RoleUser, Content: s.elaboratePrompt(q, selected, result)}},
		Schema:    ElaborationSchema,
		MaxTokens: 600,
	})
	if err != nil {
		return nil, err
	}

	var out Elaboration
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return &out, nil
}

func (s *Service) systemPrompt() string {
	if s.lang == locale.Arabic {
		return "أنت معلم صبور يشرح إجابات الأسئلة لطلاب المدارس بالعربية الفصحى المبسطة. اشرح بلطف ولا تغير الإجابة الصحيحة."
	}
	return "You are a patient school tutor. Explain quiz answers in simple, friendly language. Never contradict the given correct answer."
}

func (s *Service) elaboratePrompt(q *api.Question, selected string, result *api.AnswerResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", q.LocalText(s.lang))
	for _, opt := range q.Options {
		fmt.Fprintf(&b, "Option %s: %s\n", opt.Value, opt.Label(s.lang))
	}
	fmt.Fprintf(&b, "Student answered: %s\n", selected)
	fmt.Fprintf(&b, "Correct answer: %s\n", result.CorrectAnswer)
	if result.IsCorrect {
		b.WriteString("The student was correct.\n")
	} else {
		b.WriteString("The student was wrong.\n")
	}
	if exp := result.LocalExplanation(s.lang); exp != "" {
		fmt.Fprintf(&b, "Official explanation: %s\n", exp)
	}
	fmt.Fprintf(&b, "Respond in %s.", languageName(s.lang))

	return b.String()
}

func languageName(lang locale.Language) string {
	if lang == locale.Arabic {
		return "Arabic"
	}
	return "English"
}
