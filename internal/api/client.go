package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/darsihq/darsi/internal/locale"
)

// TokenSource is the single authoritative read path for the bearer token.
// It is injected at construction; nothing else in the client reads stored
// credentials.
type TokenSource interface {
	// Token returns the current bearer token, or ErrNotAuthenticated
	// when no session exists.
	Token() (string, error)
}

// Client talks to the platform REST API. One instance is shared across
// screens; it holds no per-lesson state.
type Client struct {
	http     *resty.Client
	tokens   TokenSource
	validate *validator.Validate
	log      *zap.Logger
}

// New creates a Client rooted at baseURL. The lesson flow never retries,
// so the underlying client is configured without retry policy; timeout
// bounds each attempt.
func New(baseURL string, tokens TokenSource, log *zap.Logger, timeout time.Duration) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     rc,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

// Login authenticates and returns the issued token with its account.
// The only call that goes out without a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	const op = "login"

	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/auth/login")
	if err != nil {
		return nil, &ErrTransport{Op: op, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, c.apiError(resp)
	}

	var body struct {
		Status string `json:"status"`
		Data   struct {
			User User `json:"user"`
		} `json:"data"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &ErrInvalidPayload{Op: op, Err: err}
	}
	if body.Token == "" {
		return nil, &ErrInvalidPayload{Op: op, Err: fmt.Errorf("response carries no token")}
	}

	return &LoginResult{Token: body.Token, User: body.Data.User}, nil
}

// GetLesson fetches one lesson, scoped to a tier and language.
func (c *Client) GetLesson(ctx context.Context, lessonID string, level Level, lang locale.Language) (*Lesson, error) {
	query := map[string]string{"language": string(lang)}
	if level != "" {
		query["level"] = string(level)
	}
	var out envelope[Lesson]
	err := c.do(ctx, "fetch lesson", resty.MethodGet, "/lessons/"+lessonID, query, nil, lessonSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetSubjectLessons lists a subject's lessons, optionally filtered by
// publication status.
func (c *Client) GetSubjectLessons(ctx context.Context, subjectID string, status LessonStatus) ([]Lesson, error) {
	query := map[string]string{}
	if status != "" {
		query["status"] = string(status)
	}
	var out envelope[[]Lesson]
	err := c.do(ctx, "fetch subject lessons", resty.MethodGet, "/subjects/"+subjectID+"/lessons", query, nil, lessonListSchema, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetQuestions fetches the question pool for (lesson, tier). An empty
// slice is a normal result, not an error.
func (c *Client) GetQuestions(ctx context.Context, lessonID string, level Level) ([]Question, error) {
	var out envelope[[]Question]
	err := c.do(ctx, "fetch questions", resty.MethodGet, "/lessons/"+lessonID+"/questions", map[string]string{
		"level": string(level),
	}, nil, questionListSchema, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ReportVideoProgress posts a playback progress tick.
func (c *Client) ReportVideoProgress(ctx context.Context, req VideoProgressRequest) (*StudentProgress, error) {
	var out envelope[StudentProgress]
	err := c.do(ctx, "report video progress", resty.MethodPost, "/progress/video", nil, req, progressSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// SubmitAnswer submits one answer attempt and returns the verdict.
func (c *Client) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*AnswerResult, error) {
	var out envelope[AnswerResult]
	err := c.do(ctx, "submit answer", resty.MethodPost, "/progress/answer", nil, req, answerResultSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CompleteLesson finalizes a lesson run. The backend computes the final
// score; the client never does.
func (c *Client) CompleteLesson(ctx context.Context, req CompleteLessonRequest) (*CompletionResult, error) {
	var out envelope[CompletionResult]
	err := c.do(ctx, "complete lesson", resty.MethodPost, "/progress/complete", nil, req, completionSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetLessonProgress fetches the caller's progress for one lesson.
func (c *Client) GetLessonProgress(ctx context.Context, lessonID string) (*LessonProgress, error) {
	var out envelope[LessonProgress]
	err := c.do(ctx, "fetch lesson progress", resty.MethodGet, "/progress/lesson/"+lessonID, nil, nil, lessonProgressSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetStudentProgress fetches a student's per-lesson progress history.
func (c *Client) GetStudentProgress(ctx context.Context, studentID string) ([]StudentProgress, error) {
	var out envelope[[]StudentProgress]
	err := c.do(ctx, "fetch progress history", resty.MethodGet, "/progress/student/"+studentID, nil, nil, progressListSchema, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetStudentStats fetches the backend-computed aggregate stats.
func (c *Client) GetStudentStats(ctx context.Context, studentID string) (*StudentStats, error) {
	var out envelope[StudentStats]
	err := c.do(ctx, "fetch stats", resty.MethodGet, "/progress/stats/"+studentID, nil, nil, statsSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// do runs one authenticated request: validate the outgoing body, attach
// the bearer token, fire, map failures to the error taxonomy, validate
// the response payload against its schema, then decode.
func (c *Client) do(ctx context.Context, op, method, path string, query map[string]string, body any, sch *schema, out any) error {
	tok, err := c.tokens.Token()
	if err != nil {
		return err
	}

	r := c.http.R().
		SetContext(ctx).
		SetAuthToken(tok)

	if len(query) > 0 {
		r.SetQueryParams(query)
	}
	if body != nil {
		if err := c.validate.Struct(body); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		r.SetBody(body)
	}

	start := time.Now()
	resp, err := r.Execute(method, path)
	if err != nil {
		c.log.Debug("request failed", zap.String("op", op), zap.Error(err))
		return &ErrTransport{Op: op, Err: err}
	}

	c.log.Debug("request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if !resp.IsSuccess() {
		return c.apiError(resp)
	}

	if sch != nil {
		if err := sch.validate(op, resp.Body()); err != nil {
			return err
		}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return &ErrInvalidPayload{Op: op, Err: err}
		}
	}
	return nil
}

// apiError builds an *APIError from a non-2xx response, preferring the
// backend's message field with a generic fallback.
func (c *Client) apiError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: "An error occurred"}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
