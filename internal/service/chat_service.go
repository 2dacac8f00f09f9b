package service

import (
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"
	"skillswap/internal/workflow"
	"skillswap/pkg/monitoring"
	"strings"
)

// ChatService handles the per-session message thread.
type ChatService struct {
	ChatRepo *repository.ChatRepository
	Sessions *SessionService
	Hub      *ChatHub
}

func NewChatService(chatRepo *repository.ChatRepository, sessions *SessionService, hub *ChatHub) *ChatService {
	return &ChatService{
		ChatRepo: chatRepo,
		Sessions: sessions,
		Hub:      hub,
	}
}

// History returns the thread oldest first. Participants may read it in any status.
func (s *ChatService) History(userID, sessionID uint) ([]model.SessionMessage, error) {
	if _, err := s.Sessions.Get(userID, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.ChatRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.SessionMessage{}
	}
	return messages, nil
}

func (s *ChatService) Send(userID, sessionID uint, text string) (*model.SessionMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.ErrMessageRequired
	}
	session, err := s.Sessions.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !workflow.CanChat(session.Status) {
		return nil, util.ErrChatClosed
	}

	msg := &model.SessionMessage{
		SessionID: sessionID,
		SenderID:  userID,
		Message:   text,
	}
	if err := s.ChatRepo.Create(msg); err != nil {
		return nil, err
	}
	monitoring.ChatMessageCounter.WithLabelValues("in").Inc()
	if s.Hub != nil {
		s.Hub.PublishMessage(msg)
	}
	return msg, nil
}
