package quiz

import (
	"github.com/darsihq/darsi/internal/api"
	"github.com/darsihq/darsi/internal/tutor"
)

// questionsMsg resolves the question-pool fetch for one generation.
type questionsMsg struct {
	Gen       uint64
	Questions []api.Question
	Err       error
}

// answerMsg resolves one answer submission. Req echoes the submitted
// payload so the verdict can be journaled with what was actually sent.
type answerMsg struct {
	Gen    uint64
	Req    api.SubmitAnswerRequest
	Result *api.AnswerResult
	Err    error
}

// completeMsg resolves the lesson finalization request.
type completeMsg struct {
	Gen    uint64
	Result *api.CompletionResult
	Err    error
}

// elaborationMsg resolves the optional tutor expansion of a revealed answer.
type elaborationMsg struct {
	Gen   uint64
	Index int
	Out   *tutor.Elaboration
	Err   error
}
