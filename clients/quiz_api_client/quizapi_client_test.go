package quiz_api_client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuizzes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/quizzes/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"title":"Capitals","question_count":10},{"id":2,"title":"90s Music","question_count":15}]`)
	}))
	defer srv.Close()

	client := NewQuizApiClient(srv.URL)
	quizzes, err := client.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	assert.Equal(t, "Capitals", quizzes[0].Title)
	assert.Equal(t, 15, quizzes[1].QuestionCount)
}

func TestCreateSessionPostsQuizID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 42, req.QuizID)

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":9,"code":"XK4T","state":"waiting","quiz":42,"quiz_title":"Capitals"}`)
	}))
	defer srv.Close()

	client := NewQuizApiClient(srv.URL)
	session, err := client.CreateSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "XK4T", session.Code)
	assert.Equal(t, "waiting", session.State)
}

func TestGetSessionStateDecodesRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/XK4T/state/", r.URL.Path)
		io.WriteString(w, `{"code":"XK4T","state":"running","quiz_title":"Capitals","players":[{"id":7,"name":"ann","score":250,"connected":true}]}`)
	}))
	defer srv.Close()

	client := NewQuizApiClient(srv.URL)
	state, err := client.GetSessionState(context.Background(), "XK4T")
	require.NoError(t, err)
	assert.Equal(t, "running", state.State)
	require.Len(t, state.Players, 1)
	assert.Equal(t, "ann", state.Players[0].Name)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"session not found"}`)
	}))
	defer srv.Close()

	client := NewQuizApiClient(srv.URL)
	_, err := client.GetSession(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "session not found")
}
