package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"skillswap/internal/model"
)

const keySessionMessages = "session-messages"

func messagesKey(sessionID uint) string {
	return Key(keySessionMessages, strconv.FormatUint(uint64(sessionID), 10))
}

func (c *Client) fetchMessages(ctx context.Context, sessionID uint) ([]model.SessionMessage, error) {
	var out []model.SessionMessage
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/sessions/%d/messages", sessionID), fallback: "Failed to load messages"}, &out)
	return out, err
}

// Messages returns a session's chat history, oldest first.
func (c *Client) Messages(ctx context.Context, sessionID uint) ([]model.SessionMessage, error) {
	return Query(ctx, c.Cache, messagesKey(sessionID), func(ctx context.Context) ([]model.SessionMessage, error) {
		return c.fetchMessages(ctx, sessionID)
	})
}

// SendMessage posts text to a session. Blank text is a no-op and returns
// nil, nil.
func (c *Client) SendMessage(ctx context.Context, sessionID uint, text string) (*model.SessionMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	var out model.SessionMessage
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     fmt.Sprintf("/sessions/%d/messages", sessionID),
		body:     map[string]string{"message": text},
		fallback: "Failed to send message",
	}, &out)
	if err != nil {
		return nil, err
	}
	c.Cache.Invalidate(messagesKey(sessionID))
	return &out, nil
}
