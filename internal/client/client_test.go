package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"skillswap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetriedOnceOnServerError(t *testing.T) {
	api := newFakeAPI(t)
	calls := 0
	api.mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fail(w, http.StatusBadGateway, `{"message":"upstream"}`)
			return
		}
		respond(w, http.StatusOK, []model.Category{{ID: 1, Name: "Music"}})
	})

	cats, err := api.client().Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
	assert.Equal(t, 2, api.count("GET /api/categories"))
}

func TestGetGivesUpAfterOneRetry(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusInternalServerError, `{"message":"Internal server error"}`)
	})

	_, err := api.client().Categories(context.Background())
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, 2, api.count("GET /api/categories"))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/skills/9", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, `{"message":"skill not found"}`)
	})

	_, err := api.client().Skill(context.Background(), 9)
	assert.EqualError(t, err, "skill not found")
	assert.Equal(t, 1, api.count("GET /api/skills/9"))
}

func TestMutationsAreNeverRetried(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusServiceUnavailable, `{}`)
	})

	_, err := api.client().CreateCategory(context.Background(), CategoryInput{Name: "Music"})
	require.Error(t, err)
	assert.Equal(t, "Failed to create category", err.Error())
	assert.Equal(t, 1, api.count("POST /api/categories"))
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"nope","detail":"ignored"}`, "nope"},
		{"detail", `{"detail":"Not found."}`, "Not found."},
		{"error", `{"error":"bad"}`, "bad"},
		{"blank message falls through", `{"message":"  ","error":"bad"}`, "bad"},
		{"fallback", `{"code":400}`, "Failed to book session"},
		{"not json", `<html>oops</html>`, "Failed to book session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body), "Failed to book session"))
		})
	}
	assert.Equal(t, "Request failed", errorMessage(nil, ""))
}

func TestAuthorizationHeader(t *testing.T) {
	api := newFakeAPI(t)
	got := make(chan string, 1)
	api.mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		respond(w, http.StatusOK, model.User{Username: "leo"})
	})

	u, err := api.client().Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "leo", u.Username)
	assert.Equal(t, "Bearer access-1", <-got)
}

func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			fail(w, http.StatusUnauthorized, `{"message":"token expired"}`)
			return
		}
		respond(w, http.StatusOK, model.User{Username: "leo"})
	})
	api.mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		respond(w, http.StatusOK, Tokens{Access: "access-2", Refresh: "refresh-2"})
	})

	c := api.client()
	_, err := c.Profile(context.Background())
	require.NoError(t, err)

	tokens, _ := c.Tokens.Load()
	assert.Equal(t, Tokens{Access: "access-2", Refresh: "refresh-2"}, tokens)
	assert.Equal(t, 2, api.count("GET /api/profile"))
}

func TestFailedRefreshSurfacesUnauthorized(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusUnauthorized, `{"message":"token expired"}`)
	})
	api.mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusUnauthorized, `{"message":"token is invalid or expired"}`)
	})

	_, err := api.client().Profile(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token expired", apiErr.Message)
	assert.Equal(t, 1, api.count("POST /api/auth/refresh"))
}

func TestCancelledContextStopsRetry(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusInternalServerError, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.client().Categories(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
