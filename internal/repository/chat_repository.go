package repository

import (
	"skillswap/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository stores session chat messages.
type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// ListBySession returns the session's messages oldest first.
func (r *ChatRepository) ListBySession(sessionID uint) ([]model.SessionMessage, error) {
	var messages []model.SessionMessage
	err := r.DB.Preload("Sender").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	for i := range messages {
		messages[i].FillDerived()
	}
	return messages, err
}

func (r *ChatRepository) Create(msg *model.SessionMessage) error {
	if err := r.DB.Omit(clause.Associations).Create(msg).Error; err != nil {
		return err
	}
	if err := r.DB.First(&msg.Sender, msg.SenderID).Error; err != nil {
		return err
	}
	msg.FillDerived()
	return nil
}
