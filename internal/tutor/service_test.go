package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/locale"
)

func sampleQuestion() *api.Question {
	return &api.Question{
		ID:             "q1",
		QuestionType:   api.MultipleChoice,
		QuestionText:   "كم يساوي ٢+٢؟",
		QuestionTextEn: "What is 2+2?",
		Options: []api.Option{
			{Value: "3", Ar: "ثلاثة", En: "three"},
			{Value: "4", Ar: "أربعة", En: "four"},
		},
	}
}

func TestElaborateDecodesStructuredOutput(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"explanation":"Two plus two makes four.","encouragement":"Nice try!","steps":["count up from two"]}`),
	})
	svc := NewService(mock, locale.English)

	out, err := svc.Elaborate(context.Background(), sampleQuestion(), "3", &api.AnswerResult{
		IsCorrect:     false,
		CorrectAnswer: "4",
		Explanation:   "الإجابة أربعة",
		ExplanationEn: "The answer is four",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Explanation != "Two plus two makes four." {
		t.Fatalf("Explanation = %q", out.Explanation)
	}
	if len(out.Steps) != 1 {
		t.Fatalf("Steps = %v", out.Steps)
	}
}

func TestElaboratePromptCarriesVerdict(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"explanation":"x","encouragement":"y","steps":[]}`),
	})
	svc := NewService(mock, locale.English)

	_, err := svc.Elaborate(context.Background(), sampleQuestion(), "3", &api.AnswerResult{
		CorrectAnswer: "4",
		ExplanationEn: "The answer is four",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("calls = %d", len(mock.Calls))
	}
	req := mock.Calls[0]
	prompt := req.Messages[0].Content
	for _, want := range []string{"What is 2+2?", "Student answered: 3", "Correct answer: 4", "The student was wrong."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if req.Schema != ElaborationSchema {
		t.Fatal("request did not carry the elaboration schema")
	}
}

func TestDisabledServiceDegrades(t *testing.T) {
	var svc *Service
	if svc.Enabled() {
		t.Fatal("nil service reports enabled")
	}

	_, err := svc.Elaborate(context.Background(), sampleQuestion(), "4", &api.AnswerResult{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestValidateResponseRejectsMissingField(t *testing.T) {
	raw := json.RawMessage(`{"explanation":"x","steps":[]}`)
	err := validateResponse(ElaborationSchema, raw)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}

	ok := json.RawMessage(`{"explanation":"x","encouragement":"y","steps":["a","b"]}`)
	if err := validateResponse(ElaborationSchema, ok); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}
