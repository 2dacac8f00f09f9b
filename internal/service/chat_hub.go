package service

import (
	"context"
	"encoding/json"
	"net/http"
	"skillswap/internal/model"
	"skillswap/internal/util"
	"skillswap/pkg/logger"
	"skillswap/pkg/monitoring"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32
)

// Event types pushed over the session stream.
const (
	EventMessage = "MESSAGE"
	EventTyping  = "TYPING"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one websocket subscription to a session's chat.
type Client struct {
	Hub       *ChatHub
	Conn      *websocket.Conn
	Send      chan []byte
	UserID    uint
	SessionID uint
	Limiter   *rate.Limiter // 限流器
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		// 消息通过 REST 接口发送，这里只转发输入状态
		var wsMsg WSMessage
		if err := json.Unmarshal(message, &wsMsg); err != nil || wsMsg.Type != EventTyping {
			continue
		}
		c.Hub.publish(c.SessionID, WSMessage{
			Type: EventTyping,
			Data: map[string]interface{}{"user_id": c.UserID, "session": c.SessionID},
		})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 每条事件单独成帧，客户端按帧解析 JSON
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	sessions map[uint]map[*Client]struct{}
	mu       sync.RWMutex
}

// ChatHub fans session chat events out to websocket subscribers. With Redis
// configured every instance receives every event through pub/sub; without it
// delivery stays in-process.
type ChatHub struct {
	shards [shardCount]*shard
	Redis  *redis.Client
	ctx    context.Context
}

func NewChatHub(rdb *redis.Client) *ChatHub {
	h := &ChatHub{
		Redis: rdb,
		ctx:   context.Background(),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			sessions: make(map[uint]map[*Client]struct{}),
		}
	}
	return h
}

func (h *ChatHub) getShard(sessionID uint) *shard {
	return h.shards[sessionID%shardCount]
}

type PubSubMessage struct {
	SessionID uint            `json:"session_id"`
	Payload   json.RawMessage `json:"payload"`
}

// Run relays Redis pub/sub events to local subscribers until ctx is done.
func (h *ChatHub) Run(ctx context.Context) {
	if h.Redis == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.Redis.Subscribe(ctx, util.ChatChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var psMsg PubSubMessage
			if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.deliverLocal(psMsg.SessionID, psMsg.Payload)
		}
	}
}

func (h *ChatHub) register(c *Client) {
	s := h.getShard(c.SessionID)
	s.mu.Lock()
	subs, ok := s.sessions[c.SessionID]
	if !ok {
		subs = make(map[*Client]struct{})
		s.sessions[c.SessionID] = subs
	}
	subs[c] = struct{}{}
	s.mu.Unlock()
	monitoring.ChatSubscribers.Inc()
}

func (h *ChatHub) unregister(c *Client) {
	s := h.getShard(c.SessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.sessions[c.SessionID]
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(s.sessions, c.SessionID)
	}
	close(c.Send)
	monitoring.ChatSubscribers.Dec()
}

// Subscribers counts local subscriptions for a session.
func (h *ChatHub) Subscribers(sessionID uint) int {
	s := h.getShard(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sessionID])
}

// PublishMessage pushes a newly stored chat message to the session's subscribers.
func (h *ChatHub) PublishMessage(msg *model.SessionMessage) {
	h.publish(msg.SessionID, WSMessage{Type: EventMessage, Data: msg})
	monitoring.ChatMessageCounter.WithLabelValues("out").Inc()
}

func (h *ChatHub) publish(sessionID uint, msg WSMessage) {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("Marshal chat event failed", zap.Error(err))
		return
	}

	if h.Redis == nil {
		h.deliverLocal(sessionID, msgBytes)
		return
	}

	payload, _ := json.Marshal(PubSubMessage{SessionID: sessionID, Payload: msgBytes})
	if err := h.Redis.Publish(h.ctx, util.ChatChannel, payload).Err(); err != nil {
		logger.Log.Warn("Redis publish failed, delivering locally", zap.Error(err))
		h.deliverLocal(sessionID, msgBytes)
	}
}

func (h *ChatHub) deliverLocal(sessionID uint, payload []byte) {
	s := h.getShard(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.sessions[sessionID] {
		select {
		case client.Send <- payload:
		default:
			// 慢消费者直接丢弃，客户端可通过轮询补齐
		}
	}
}

// Stop closes every local subscription.
func (h *ChatHub) Stop() {
	logger.Log.Info("ChatHub stopping: closing connections...")

	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for sessionID, subs := range s.sessions {
			for client := range subs {
				close(client.Send)
				closed++
			}
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
	}

	monitoring.ChatSubscribers.Set(0)
	logger.Log.Info("ChatHub stopped", zap.Int("closedConnections", closed))
}

// ServeWs upgrades the request and subscribes the caller to a session stream.
// The caller must already be verified as a participant.
func ServeWs(hub *ChatHub, w http.ResponseWriter, r *http.Request, sessionID, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		UserID:    userID,
		SessionID: sessionID,
		Limiter:   rate.NewLimiter(rate.Limit(5), 10),
	}
	hub.register(client)

	go client.writePump()
	go client.readPump()
}
