package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"skillswap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingWithoutTimeMakesNoRequest(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client()

	_, err := c.BookSession(context.Background(), BookInput{SkillID: 1})
	assert.EqualError(t, err, "Please select a date and time")
	assert.ErrorIs(t, err, ErrScheduleRequired)

	_, err = c.EditSessionTime(context.Background(), 1, time.Time{})
	assert.ErrorIs(t, err, ErrScheduleRequired)
	assert.Zero(t, api.total())
}

func TestLocalValidationMakesNoRequest(t *testing.T) {
	api := newFakeAPI(t)
	c := api.client()
	ctx := context.Background()

	_, err := c.RejectSession(ctx, 1, " \t")
	assert.EqualError(t, err, "A response is required to reject a session")

	_, err = c.CreateReview(ctx, ReviewInput{SessionID: 1})
	assert.EqualError(t, err, "Please select a rating")
	_, err = c.UpdateReview(ctx, 1, 6, "")
	assert.ErrorIs(t, err, ErrRatingRequired)

	msg, err := c.SendMessage(ctx, 1, "   ")
	assert.NoError(t, err)
	assert.Nil(t, msg)

	assert.Zero(t, api.total())
}

func TestBookSendsRequestAndInvalidatesLists(t *testing.T) {
	api := newFakeAPI(t)
	at := time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC)
	api.mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			respond(w, http.StatusOK, []model.LearningSession{})
			return
		}
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 3, body["skill_id"])
		assert.Equal(t, "2026-11-02T15:00:00Z", body["scheduled_datetime"])
		respond(w, http.StatusCreated, model.LearningSession{BaseModel: model.BaseModel{ID: 10}, Status: model.SessionPending})
	})

	c := api.client()
	ctx := context.Background()
	_, err := c.Sessions(ctx)
	require.NoError(t, err)
	require.True(t, c.Cache.Has(keySessions))

	s, err := c.BookSession(ctx, BookInput{SkillID: 3, ScheduledDatetime: at})
	require.NoError(t, err)
	assert.Equal(t, uint(10), s.ID)
	assert.False(t, c.Cache.Has(keySessions))
}

func TestFailedMutationKeepsCache(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, []model.LearningSession{{BaseModel: model.BaseModel{ID: 4}, Status: model.SessionPending}})
	})
	api.mux.HandleFunc("/api/sessions/4/approve", func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusConflict, `{"message":"action not allowed in the current session status"}`)
	})

	c := api.client()
	ctx := context.Background()
	_, err := c.Sessions(ctx)
	require.NoError(t, err)

	_, err = c.ApproveSession(ctx, 4, "")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.True(t, c.Cache.Has(keySessions), "failed mutation must not invalidate")

	_, err = c.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("GET /api/sessions"))
}

func TestEditTimeReturnsNewStatus(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/sessions/4/edit_time", func(w http.ResponseWriter, r *http.Request) {
		var body actionBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if !assert.NotNil(t, body.ScheduledDatetime) {
			fail(w, http.StatusBadRequest, `{}`)
			return
		}
		respond(w, http.StatusOK, model.LearningSession{BaseModel: model.BaseModel{ID: 4}, Status: model.SessionPending, ScheduledDatetime: *body.ScheduledDatetime})
	})

	s, err := api.client().EditSessionTime(context.Background(), 4, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.SessionPending, s.Status)
}

func TestReviewMutationInvalidatesReviewsAndSessions(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/reviews", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			respond(w, http.StatusCreated, model.Review{ID: 1, Rating: 5})
			return
		}
		respond(w, http.StatusOK, []model.Review{})
	})
	api.mux.HandleFunc("/api/sessions/4", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, model.LearningSession{BaseModel: model.BaseModel{ID: 4}})
	})

	c := api.client()
	ctx := context.Background()
	_, err := c.SessionReviews(ctx, 4)
	require.NoError(t, err)
	_, err = c.Session(ctx, 4)
	require.NoError(t, err)

	_, err = c.CreateReview(ctx, ReviewInput{SessionID: 4, Rating: 5})
	require.NoError(t, err)
	assert.False(t, c.Cache.Has(Key(keyReviews, "session", "4")))
	assert.False(t, c.Cache.Has(sessionKey(4)))
}

func TestSessionCapabilitiesHideReviewedForm(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/reviews", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("session"))
		respond(w, http.StatusOK, []model.Review{{ID: 1, SessionID: 4, ReviewerID: 2, ReviewedID: 1}})
	})

	s := &model.LearningSession{BaseModel: model.BaseModel{ID: 4}, MentorID: 1, LearnerID: 2, Status: model.SessionCompleted}
	c := api.client()

	learner, err := c.SessionCapabilities(context.Background(), s, 2)
	require.NoError(t, err)
	assert.False(t, learner.CanReview)

	mentor, err := c.SessionCapabilities(context.Background(), s, 1)
	require.NoError(t, err)
	assert.True(t, mentor.CanReview)
	assert.False(t, mentor.CanApprove)

	pending := &model.LearningSession{BaseModel: model.BaseModel{ID: 5}, MentorID: 1, LearnerID: 2, Status: model.SessionPending}
	caps, err := c.SessionCapabilities(context.Background(), pending, 1)
	require.NoError(t, err)
	assert.True(t, caps.CanApprove)
	assert.Equal(t, 1, api.count("GET /api/reviews"), "only completed sessions look up reviews")
}
