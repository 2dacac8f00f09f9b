package workflow

import "skillswap/internal/model"

// Capabilities lists the controls a viewer gets for one session.
type Capabilities struct {
	IsMentor    bool
	IsLearner   bool
	CanApprove  bool
	CanReject   bool
	CanEditTime bool
	CanChat     bool
	CanComplete bool
	CanCancel   bool
	CanReview   bool
}

// CapabilitiesFor derives the viewer's controls. hasReviewed tells whether the
// viewer already left a review on this session; it hides the review form.
func CapabilitiesFor(s *model.LearningSession, viewerID uint, hasReviewed bool) Capabilities {
	c := Capabilities{
		IsMentor:  viewerID != 0 && s.MentorID == viewerID,
		IsLearner: viewerID != 0 && s.LearnerID == viewerID,
	}
	participant := c.IsMentor || c.IsLearner
	if !participant {
		return c
	}

	pending := s.Status == model.SessionPending
	c.CanApprove = c.IsMentor && pending
	c.CanReject = c.IsMentor && pending
	c.CanEditTime = CanEditTime(s.Status)
	c.CanChat = CanChat(s.Status)
	c.CanComplete = s.Status == model.SessionApproved
	c.CanCancel = pending || s.Status == model.SessionApproved
	c.CanReview = CanReview(s.Status) && !hasReviewed
	return c
}

// Actions returns the enabled transition actions in display order.
func (c Capabilities) Actions() []Action {
	var out []Action
	if c.CanApprove {
		out = append(out, Approve)
	}
	if c.CanReject {
		out = append(out, Reject)
	}
	if c.CanEditTime {
		out = append(out, EditTime)
	}
	if c.CanComplete {
		out = append(out, Complete)
	}
	if c.CanCancel {
		out = append(out, Cancel)
	}
	return out
}
