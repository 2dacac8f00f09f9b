package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"skillswap/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatAPI serves one session's thread from memory.
type chatAPI struct {
	*fakeAPI
	mu   sync.Mutex
	msgs []model.SessionMessage
}

func newChatAPI(t *testing.T) *chatAPI {
	a := &chatAPI{fakeAPI: newFakeAPI(t)}
	a.mux.HandleFunc("/api/sessions/1/messages", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if r.Method == http.MethodGet {
			respond(w, http.StatusOK, append([]model.SessionMessage{}, a.msgs...))
			return
		}
		var body struct {
			Message string `json:"message"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		m := model.SessionMessage{ID: uint(len(a.msgs) + 1), SessionID: 1, Message: body.Message}
		a.msgs = append(a.msgs, m)
		respond(w, http.StatusCreated, m)
	})
	return a
}

func (a *chatAPI) add(text string) {
	a.mu.Lock()
	a.msgs = append(a.msgs, model.SessionMessage{ID: uint(len(a.msgs) + 1), SessionID: 1, Message: text})
	a.mu.Unlock()
}

func next(t *testing.T, ch <-chan ChatSnapshot) ChatSnapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "updates closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
	}
	return ChatSnapshot{}
}

func texts(msgs []model.SessionMessage) []string {
	out := []string{}
	for _, m := range msgs {
		out = append(out, m.Message)
	}
	return out
}

func TestLiveChatPollsAndAppendsOptimistically(t *testing.T) {
	api := newChatAPI(t)
	api.add("hello")
	live := api.client().LiveChat(1)
	live.interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go live.Run(ctx)

	assert.Equal(t, []string{"hello"}, texts(next(t, live.Updates()).Messages))

	msg, err := live.Send(ctx, "hi there")
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Message)
	assert.Contains(t, texts(live.Messages()), "hi there")

	skipped, err := live.Send(ctx, "  ")
	assert.NoError(t, err)
	assert.Nil(t, skipped)

	api.add("from mentor")
	require.Eventually(t, func() bool {
		return len(live.Messages()) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"hello", "hi there", "from mentor"}, texts(live.Messages()))

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-live.Updates():
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionChatReadsThroughCache(t *testing.T) {
	api := newChatAPI(t)
	c := api.client()
	chat := c.SessionChat(1)
	chat.interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go chat.Run(ctx)

	assert.Empty(t, next(t, chat.Updates()).Messages)

	require.NoError(t, chat.Send(ctx, "ping"))
	require.Eventually(t, func() bool {
		return len(next(t, chat.Updates()).Messages) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cached, err := c.Messages(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, texts(cached))
}

func TestSendInvalidatesMessageCache(t *testing.T) {
	api := newChatAPI(t)
	c := api.client()
	ctx := context.Background()

	_, err := c.Messages(ctx, 1)
	require.NoError(t, err)
	require.True(t, c.Cache.Has(messagesKey(1)))

	_, err = c.SendMessage(ctx, 1, "ping")
	require.NoError(t, err)
	assert.False(t, c.Cache.Has(messagesKey(1)))
}
