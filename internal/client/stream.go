package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"skillswap/internal/model"
	"skillswap/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamEvent is one frame of a session stream. Message is set for MESSAGE
// events; Typing holds the user ID for TYPING events.
type StreamEvent struct {
	Type    string
	Message *model.SessionMessage
	Typing  uint
}

type streamFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// wsURL turns the API base into the session's websocket URL.
func (c *Client) wsURL(sessionID uint, token string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + fmt.Sprintf("/sessions/%d/ws", sessionID)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// StreamMessages subscribes to a session's push stream. The returned channel
// is closed when ctx is cancelled or the connection drops.
func (c *Client) StreamMessages(ctx context.Context, sessionID uint) (<-chan StreamEvent, error) {
	tokens, err := c.Tokens.Load()
	if err != nil {
		return nil, err
	}
	target, err := c.wsURL(sessionID, tokens.Access)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, &APIError{Status: resp.StatusCode, Message: "Failed to open chat stream"}
		}
		return nil, err
	}

	events := make(chan StreamEvent, 16)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(events)
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					logger.Log.Debug("chat stream closed", zap.Uint("session", sessionID), zap.Error(err))
				}
				return
			}
			ev, ok := decodeFrame(data)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func decodeFrame(data []byte) (StreamEvent, bool) {
	var f streamFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return StreamEvent{}, false
	}
	ev := StreamEvent{Type: f.Type}
	switch f.Type {
	case "MESSAGE":
		var m model.SessionMessage
		if err := json.Unmarshal(f.Data, &m); err != nil {
			return StreamEvent{}, false
		}
		ev.Message = &m
	case "TYPING":
		var t struct {
			UserID uint `json:"user_id"`
		}
		if err := json.Unmarshal(f.Data, &t); err != nil {
			return StreamEvent{}, false
		}
		ev.Typing = t.UserID
	default:
		return StreamEvent{}, false
	}
	return ev, true
}
