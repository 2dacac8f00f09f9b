// Package workflow holds the learning-session state machine. The server uses it
// to enforce transitions and the client uses it to decide which controls to offer.
package workflow

import (
	"errors"
	"strings"

	"skillswap/internal/model"
)

type Action string

const (
	Approve  Action = "approve"
	Reject   Action = "reject"
	EditTime Action = "edit_time"
	Complete Action = "complete"
	Cancel   Action = "cancel"
)

var (
	ErrNotParticipant    = errors.New("only session participants can perform this action")
	ErrMentorOnly        = errors.New("only the mentor can approve or reject sessions")
	ErrInvalidTransition = errors.New("action not allowed in the current session status")
	ErrResponseRequired  = errors.New("a response is required to reject a session")
	ErrUnknownAction     = errors.New("unknown session action")
)

// Next returns the status a session moves to when action is applied in status
// current. Editing the time of an approved session sends it back for approval.
func Next(current model.SessionStatus, action Action) (model.SessionStatus, error) {
	switch action {
	case Approve:
		if current == model.SessionPending {
			return model.SessionApproved, nil
		}
	case Reject:
		if current == model.SessionPending {
			return model.SessionRejected, nil
		}
	case Complete:
		if current == model.SessionApproved {
			return model.SessionCompleted, nil
		}
	case Cancel:
		if current == model.SessionPending || current == model.SessionApproved {
			return model.SessionCancelled, nil
		}
	case EditTime:
		if !CanEditTime(current) {
			break
		}
		if current == model.SessionApproved {
			return model.SessionPending, nil
		}
		return current, nil
	default:
		return current, ErrUnknownAction
	}
	return current, ErrInvalidTransition
}

// Authorize checks that actorID may perform action on s. It does not look at
// the status; combine with Next.
func Authorize(s *model.LearningSession, actorID uint, action Action) error {
	switch action {
	case Approve, Reject:
		if s.MentorID != actorID {
			return ErrMentorOnly
		}
		return nil
	case EditTime, Complete, Cancel:
		if !s.IsParticipant(actorID) {
			return ErrNotParticipant
		}
		return nil
	}
	return ErrUnknownAction
}

// ValidateResponse enforces the mentor response rules: optional on approve,
// required and non-blank on reject.
func ValidateResponse(action Action, response string) error {
	if action == Reject && strings.TrimSpace(response) == "" {
		return ErrResponseRequired
	}
	return nil
}

// Apply runs the full check for an actor and returns the resulting status.
func Apply(s *model.LearningSession, actorID uint, action Action, response string) (model.SessionStatus, error) {
	if err := Authorize(s, actorID, action); err != nil {
		return s.Status, err
	}
	next, err := Next(s.Status, action)
	if err != nil {
		return s.Status, err
	}
	if err := ValidateResponse(action, response); err != nil {
		return s.Status, err
	}
	return next, nil
}

func CanEditTime(status model.SessionStatus) bool {
	return status != model.SessionCompleted && status != model.SessionCancelled
}

// CanChat reports whether new messages may be posted.
func CanChat(status model.SessionStatus) bool {
	return status == model.SessionApproved || status == model.SessionCompleted
}

func CanReview(status model.SessionStatus) bool {
	return status == model.SessionCompleted
}

func IsTerminal(status model.SessionStatus) bool {
	switch status {
	case model.SessionRejected, model.SessionCompleted, model.SessionCancelled:
		return true
	}
	return false
}
