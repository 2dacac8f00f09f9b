package service

import (
	"sync"
	"testing"
	"time"

	"skillswap/internal/model"
	"skillswap/internal/util"
	"skillswap/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookCopiesMentorFromSkill(t *testing.T) {
	f := newFixture(t)
	at := tomorrow()

	s := f.book(t, at)

	assert.Equal(t, model.SessionPending, s.Status)
	assert.Equal(t, f.mentor.ID, s.MentorID)
	assert.Equal(t, f.learner.ID, s.LearnerID)
	assert.Equal(t, "Guitar Basics", s.SkillTitle)
	assert.True(t, at.Equal(s.ScheduledDatetime))
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.sessionSvc.Book(f.learner.ID, BookInput{SkillID: f.skill.ID})
	assert.ErrorIs(t, err, util.ErrScheduleRequired)

	at := tomorrow()
	_, err = f.sessionSvc.Book(f.mentor.ID, BookInput{SkillID: f.skill.ID, ScheduledDatetime: &at})
	assert.ErrorIs(t, err, util.ErrOwnSkillBooking)

	_, err = f.sessionSvc.Book(f.learner.ID, BookInput{SkillID: 999, ScheduledDatetime: &at})
	assert.ErrorIs(t, err, util.ErrSkillNotFound)
}

func TestApproveNotifiesLearner(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	updated, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Approve, ActionInput{MentorResponse: "  See you then  "})
	require.NoError(t, err)
	assert.Equal(t, model.SessionApproved, updated.Status)
	assert.Equal(t, "See you then", updated.MentorResponse)

	select {
	case id := <-f.notifier.events:
		assert.Equal(t, s.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("approval notification not sent")
	}
}

func TestMentorOnlyActions(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	_, err := f.sessionSvc.Act(f.learner.ID, s.ID, workflow.Approve, ActionInput{})
	assert.ErrorIs(t, err, workflow.ErrMentorOnly)

	_, err = f.sessionSvc.Act(f.outsider.ID, s.ID, workflow.Cancel, ActionInput{})
	assert.ErrorIs(t, err, workflow.ErrNotParticipant)
}

func TestRejectRequiresResponse(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	_, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Reject, ActionInput{MentorResponse: "  "})
	assert.ErrorIs(t, err, workflow.ErrResponseRequired)

	updated, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Reject, ActionInput{MentorResponse: "Fully booked"})
	require.NoError(t, err)
	assert.Equal(t, model.SessionRejected, updated.Status)
	assert.Equal(t, "Fully booked", updated.MentorResponse)

	_, err = f.sessionSvc.Act(f.learner.ID, s.ID, workflow.Cancel, ActionInput{})
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestEditTimeRevokesApproval(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	_, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Approve, ActionInput{})
	require.NoError(t, err)
	require.NoError(t, f.sessions.MarkReminded(s.ID, time.Now()))

	_, err = f.sessionSvc.Act(f.learner.ID, s.ID, workflow.EditTime, ActionInput{})
	assert.ErrorIs(t, err, util.ErrScheduleRequired)

	later := tomorrow().Add(48 * time.Hour)
	updated, err := f.sessionSvc.Act(f.learner.ID, s.ID, workflow.EditTime, ActionInput{ScheduledDatetime: &later})
	require.NoError(t, err)
	assert.Equal(t, model.SessionPending, updated.Status)
	assert.True(t, later.Equal(updated.ScheduledDatetime))
	assert.Nil(t, updated.ReminderSentAt)
}

func TestCompleteOnlyWhenApproved(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	_, err := f.sessionSvc.Act(f.learner.ID, s.ID, workflow.Complete, ActionInput{})
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)

	_, err = f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Approve, ActionInput{})
	require.NoError(t, err)
	updated, err := f.sessionSvc.Act(f.learner.ID, s.ID, workflow.Complete, ActionInput{})
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, updated.Status)

	_, err = f.sessionSvc.Act(f.learner.ID, s.ID, workflow.EditTime, ActionInput{})
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestConcurrentApprovalsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	const n = 5
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Approve, ActionInput{})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestSessionVisibility(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	_, err := f.sessionSvc.Get(f.outsider.ID, s.ID)
	assert.ErrorIs(t, err, workflow.ErrNotParticipant)

	_, err = f.sessionSvc.Get(f.learner.ID, 12345)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	got, err := f.sessionSvc.Get(f.mentor.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestListScopes(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, tomorrow())
	second := f.book(t, tomorrow().Add(time.Hour))

	all, err := f.sessionSvc.List(f.learner.ID, ScopeAll)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	asMentor, err := f.sessionSvc.List(f.learner.ID, ScopeMentor)
	require.NoError(t, err)
	assert.Empty(t, asMentor)

	asMentor, err = f.sessionSvc.List(f.mentor.ID, ScopeMentor)
	require.NoError(t, err)
	assert.Len(t, asMentor, 2)

	none, err := f.sessionSvc.List(f.outsider.ID, ScopeAll)
	require.NoError(t, err)
	assert.Empty(t, none)
}
