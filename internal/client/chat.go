package client

import (
	"context"
	"sync"
	"time"

	"skillswap/internal/model"
	"skillswap/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	LivePollInterval    = 3 * time.Second
	SessionPollInterval = 5 * time.Second
)

// ChatSnapshot is the full message list as of one poll. Err is set when the
// poll failed; Messages then holds the last known list.
type ChatSnapshot struct {
	Messages []model.SessionMessage
	Err      error
}

// LiveChat polls the message list directly and appends sent messages
// optimistically until the next poll replaces the list.
type LiveChat struct {
	client    *Client
	sessionID uint
	interval  time.Duration
	limiter   *rate.Limiter

	mu       sync.Mutex
	messages []model.SessionMessage
	updates  chan ChatSnapshot
	closed   bool
}

func (c *Client) LiveChat(sessionID uint) *LiveChat {
	return &LiveChat{
		client:    c,
		sessionID: sessionID,
		interval:  LivePollInterval,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 5),
		updates:   make(chan ChatSnapshot, 1),
	}
}

// Updates delivers a snapshot after every poll and send. It is closed when
// Run returns.
func (l *LiveChat) Updates() <-chan ChatSnapshot {
	return l.updates
}

func (l *LiveChat) Messages() []model.SessionMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.SessionMessage(nil), l.messages...)
}

// Run polls until ctx is cancelled.
func (l *LiveChat) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.closed = true
		close(l.updates)
		l.mu.Unlock()
	}()
	poll(ctx, l.interval, func() {
		msgs, err := l.client.fetchMessages(ctx, l.sessionID)
		if ctx.Err() != nil {
			return
		}
		l.mu.Lock()
		if err == nil {
			l.messages = msgs
		}
		l.mu.Unlock()
		l.emit(err)
	})
}

// Send posts text and appends the stored message to the local list. Blank
// text is ignored.
func (l *LiveChat) Send(ctx context.Context, text string) (*model.SessionMessage, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	msg, err := l.client.SendMessage(ctx, l.sessionID, text)
	if err != nil || msg == nil {
		return msg, err
	}
	l.mu.Lock()
	l.messages = append(l.messages, *msg)
	l.mu.Unlock()
	l.emit(nil)
	return msg, nil
}

func (l *LiveChat) emit(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	publishLatest(l.updates, ChatSnapshot{
		Messages: append([]model.SessionMessage(nil), l.messages...),
		Err:      err,
	})
}

// SessionChat polls through the query cache; sending only invalidates the
// cached list and the next poll picks the message up.
type SessionChat struct {
	client    *Client
	sessionID uint
	interval  time.Duration
	updates   chan ChatSnapshot
}

func (c *Client) SessionChat(sessionID uint) *SessionChat {
	return &SessionChat{
		client:    c,
		sessionID: sessionID,
		interval:  SessionPollInterval,
		updates:   make(chan ChatSnapshot, 1),
	}
}

func (s *SessionChat) Updates() <-chan ChatSnapshot {
	return s.updates
}

func (s *SessionChat) Run(ctx context.Context) {
	defer close(s.updates)
	poll(ctx, s.interval, func() {
		msgs, err := Refetch(ctx, s.client.Cache, messagesKey(s.sessionID), func(ctx context.Context) ([]model.SessionMessage, error) {
			return s.client.fetchMessages(ctx, s.sessionID)
		})
		if ctx.Err() != nil {
			return
		}
		publishLatest(s.updates, ChatSnapshot{Messages: msgs, Err: err})
	})
}

func (s *SessionChat) Send(ctx context.Context, text string) error {
	_, err := s.client.SendMessage(ctx, s.sessionID, text)
	return err
}

func poll(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// publishLatest replaces an unread snapshot so slow readers always see the
// newest list.
func publishLatest(ch chan ChatSnapshot, snap ChatSnapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case old := <-ch:
			if old.Err != nil {
				logger.Log.Debug("dropping stale chat snapshot", zap.Error(old.Err))
			}
		default:
		}
	}
}
