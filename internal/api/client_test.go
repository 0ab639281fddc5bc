package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsihq/darsi/internal/locale"
)

type staticTokens string

func (s staticTokens) Token() (string, error) {
	if s == "" {
		return "", ErrNotAuthenticated
	}
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticTokens("tok-123"), nil, 5*time.Second)
}

func TestGetQuestions_BearerAndDecode(t *testing.T) {
	var gotAuth, gotLevel string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLevel = r.URL.Query().Get("level")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[
			{"id":"q1","lessonId":"l1","questionType":"multiple_choice","level":"high",
			 "questionText":"سؤال","points":10,
			 "options":[{"value":"a","ar":"أ"},{"value":"b","ar":"ب","en":"B"}]}
		]}`))
	})

	qs, err := c.GetQuestions(context.Background(), "l1", LevelHigh)
	require.NoError(t, err)
	require.Len(t, qs, 1)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "high", gotLevel)
	assert.Equal(t, MultipleChoice, qs[0].QuestionType)
	assert.Equal(t, 10, qs[0].Points)
	assert.Equal(t, "B", qs[0].Options[1].Label(locale.English))
}

func TestGetQuestions_EmptyListIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[]}`))
	})

	qs, err := c.GetQuestions(context.Background(), "l1", LevelMedium)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestSubmitAnswer_BackendMessageOnFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	})

	_, err := c.SubmitAnswer(context.Background(), SubmitAnswerRequest{
		QuestionID:    "q1",
		StudentAnswer: "a",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token expired", apiErr.Message)
}

func TestSubmitAnswer_GenericFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>nope</html>`))
	})

	_, err := c.SubmitAnswer(context.Background(), SubmitAnswerRequest{
		QuestionID:    "q1",
		StudentAnswer: "true",
	})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "An error occurred", apiErr.Message)
}

func TestSubmitAnswer_RejectsEmptyAnswerBeforeWire(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.SubmitAnswer(context.Background(), SubmitAnswerRequest{QuestionID: "q1"})
	require.Error(t, err)
	assert.False(t, called, "invalid request must not reach the wire")
}

func TestDo_MalformedPayloadRejectedAtBoundary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// questionType outside the enum.
		w.Write([]byte(`{"success":true,"data":[{"id":"q1","questionType":"essay","questionText":"x"}]}`))
	})

	_, err := c.GetQuestions(context.Background(), "l1", LevelHigh)
	require.Error(t, err)

	var invalid *ErrInvalidPayload
	assert.True(t, errors.As(err, &invalid))
}

func TestDo_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent without a session")
	}))
	defer srv.Close()

	c := New(srv.URL, staticTokens(""), nil, time.Second)
	_, err := c.GetStudentStats(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLogin_TokenAndUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":{"user":{"id":7,"name":"Sara","email":"s@x.io","role":"staff"}},"token":"jwt-abc"}`))
	})

	res, err := c.Login(context.Background(), LoginRequest{Email: "s@x.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", res.Token)
	assert.Equal(t, "Sara", res.User.Name)
}

func TestCompleteLesson_LevelDomainChecked(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.CompleteLesson(context.Background(), CompleteLessonRequest{
		LessonID:      "l1",
		SelectedLevel: Level("expert"),
	})
	require.Error(t, err)
	assert.False(t, called)
}
