package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"skillswap/internal/model"
	"skillswap/internal/workflow"
)

const (
	keySessions        = "sessions"
	keySessionsLearner = "sessions-learner"
	keySessionsMentor  = "sessions-mentor"
)

// Validation failures caught before any request is sent.
var (
	ErrScheduleRequired = errors.New("Please select a date and time")
	ErrResponseRequired = errors.New("A response is required to reject a session")
	ErrRatingRequired   = errors.New("Please select a rating")
)

type BookInput struct {
	SkillID           uint      `json:"skill_id"`
	ScheduledDatetime time.Time `json:"scheduled_datetime"`
	LearnerMessage    string    `json:"learner_message,omitempty"`
}

type actionBody struct {
	MentorResponse    string     `json:"mentor_response,omitempty"`
	ScheduledDatetime *time.Time `json:"scheduled_datetime,omitempty"`
}

func sessionKey(id uint) string {
	return Key(keySessions, strconv.FormatUint(uint64(id), 10))
}

func (c *Client) listSessions(ctx context.Context, key, path string) ([]model.LearningSession, error) {
	return Query(ctx, c.Cache, key, func(ctx context.Context) ([]model.LearningSession, error) {
		var out []model.LearningSession
		err := c.do(ctx, request{method: http.MethodGet, path: path, fallback: "Failed to load sessions"}, &out)
		return out, err
	})
}

// Sessions lists every session the caller takes part in, newest first.
func (c *Client) Sessions(ctx context.Context) ([]model.LearningSession, error) {
	return c.listSessions(ctx, keySessions, "/sessions")
}

func (c *Client) SessionsAsLearner(ctx context.Context) ([]model.LearningSession, error) {
	return c.listSessions(ctx, keySessionsLearner, "/sessions/as_learner")
}

func (c *Client) SessionsAsMentor(ctx context.Context) ([]model.LearningSession, error) {
	return c.listSessions(ctx, keySessionsMentor, "/sessions/as_mentor")
}

func (c *Client) Session(ctx context.Context, id uint) (*model.LearningSession, error) {
	return Query(ctx, c.Cache, sessionKey(id), func(ctx context.Context) (*model.LearningSession, error) {
		var out model.LearningSession
		if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/sessions/%d", id), fallback: "Failed to load session"}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// BookSession requests a session for a skill. An unset time is rejected
// locally.
func (c *Client) BookSession(ctx context.Context, in BookInput) (*model.LearningSession, error) {
	if in.ScheduledDatetime.IsZero() {
		return nil, ErrScheduleRequired
	}
	var out model.LearningSession
	if err := c.do(ctx, request{method: http.MethodPost, path: "/sessions", body: in, fallback: "Failed to book session"}, &out); err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keySessions, keySessionsLearner)
	return &out, nil
}

func (c *Client) ApproveSession(ctx context.Context, id uint, response string) (*model.LearningSession, error) {
	return c.act(ctx, id, workflow.Approve, actionBody{MentorResponse: response}, "Failed to approve session",
		keySessions, keySessionsMentor)
}

func (c *Client) RejectSession(ctx context.Context, id uint, response string) (*model.LearningSession, error) {
	if strings.TrimSpace(response) == "" {
		return nil, ErrResponseRequired
	}
	return c.act(ctx, id, workflow.Reject, actionBody{MentorResponse: response}, "Failed to reject session",
		keySessions, keySessionsMentor)
}

// EditSessionTime reschedules a session. The returned session carries the
// new status, which is PENDING again when it had been approved.
func (c *Client) EditSessionTime(ctx context.Context, id uint, at time.Time) (*model.LearningSession, error) {
	if at.IsZero() {
		return nil, ErrScheduleRequired
	}
	return c.act(ctx, id, workflow.EditTime, actionBody{ScheduledDatetime: &at}, "Failed to update session time",
		keySessions, keySessionsLearner, keySessionsMentor)
}

func (c *Client) CompleteSession(ctx context.Context, id uint) (*model.LearningSession, error) {
	return c.act(ctx, id, workflow.Complete, actionBody{}, "Failed to complete session",
		keySessions, keySessionsLearner, keySessionsMentor)
}

func (c *Client) CancelSession(ctx context.Context, id uint) (*model.LearningSession, error) {
	return c.act(ctx, id, workflow.Cancel, actionBody{}, "Failed to cancel session",
		keySessions, keySessionsLearner, keySessionsMentor)
}

func (c *Client) act(ctx context.Context, id uint, action workflow.Action, body actionBody, fallback string, invalidate ...string) (*model.LearningSession, error) {
	var out model.LearningSession
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/sessions/%d/%s", id, action),
		body:     body,
		fallback: fallback,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.Cache.Invalidate(invalidate...)
	return &out, nil
}

// SessionCapabilities tells which controls viewerID gets for s. Completed
// sessions look up the viewer's existing review so the review form is hidden
// once submitted.
func (c *Client) SessionCapabilities(ctx context.Context, s *model.LearningSession, viewerID uint) (workflow.Capabilities, error) {
	reviewed := false
	if workflow.CanReview(s.Status) && s.IsParticipant(viewerID) {
		reviews, err := c.SessionReviews(ctx, s.ID)
		if err != nil {
			return workflow.Capabilities{}, err
		}
		for _, r := range reviews {
			if r.ReviewerID == viewerID {
				reviewed = true
				break
			}
		}
	}
	return workflow.CapabilitiesFor(s, viewerID, reviewed), nil
}
