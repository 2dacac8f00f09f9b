package service

import (
	"encoding/json"
	"testing"
	"time"

	"skillswap/internal/model"
	"skillswap/internal/util"
	"skillswap/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscribe(hub *ChatHub, sessionID, userID uint) *Client {
	c := &Client{Hub: hub, Send: make(chan []byte, 8), SessionID: sessionID, UserID: userID}
	hub.register(c)
	return c
}

func TestChatClosedUntilApproved(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())

	_, err := f.chatSvc.Send(f.learner.ID, s.ID, "hello?")
	assert.ErrorIs(t, err, util.ErrChatClosed)

	_, err = f.chatSvc.Send(f.learner.ID, s.ID, "   ")
	assert.ErrorIs(t, err, util.ErrMessageRequired)

	history, err := f.chatSvc.History(f.learner.ID, s.ID)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestChatDeliversToSubscribers(t *testing.T) {
	f := newFixture(t)
	s := f.book(t, tomorrow())
	_, err := f.sessionSvc.Act(f.mentor.ID, s.ID, workflow.Approve, ActionInput{})
	require.NoError(t, err)

	sub := subscribe(f.chatSvc.Hub, s.ID, f.mentor.ID)
	other := subscribe(f.chatSvc.Hub, s.ID+1, f.mentor.ID)

	msg, err := f.chatSvc.Send(f.learner.ID, s.ID, " See you at 5! ")
	require.NoError(t, err)
	assert.Equal(t, "See you at 5!", msg.Message)
	assert.Equal(t, "leo", msg.SenderName)

	select {
	case raw := <-sub.Send:
		var frame struct {
			Type string               `json:"type"`
			Data model.SessionMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, EventMessage, frame.Type)
		assert.Equal(t, msg.ID, frame.Data.ID)
	case <-time.After(time.Second):
		t.Fatal("message not pushed")
	}
	assert.Empty(t, other.Send, "other sessions are not notified")

	_, err = f.chatSvc.Send(f.outsider.ID, s.ID, "hi")
	assert.ErrorIs(t, err, workflow.ErrNotParticipant)

	history, err := f.chatSvc.History(f.mentor.ID, s.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, f.learner.ID, history[0].SenderID)
}

func TestHubUnregister(t *testing.T) {
	hub := NewChatHub(nil)
	a := subscribe(hub, 3, 1)
	subscribe(hub, 3, 2)
	assert.Equal(t, 2, hub.Subscribers(3))

	hub.unregister(a)
	hub.unregister(a)
	assert.Equal(t, 1, hub.Subscribers(3))
	_, open := <-a.Send
	assert.False(t, open)

	hub.Stop()
	assert.Zero(t, hub.Subscribers(3))
}
