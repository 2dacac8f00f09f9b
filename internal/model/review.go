package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// swagger:model Review
type Review struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID    uint      `gorm:"uniqueIndex:idx_review_session_pair;not null" json:"session"`
	ReviewerID   uint      `gorm:"uniqueIndex:idx_review_session_pair;index;not null" json:"reviewer_id"`
	Reviewer     User      `gorm:"foreignKey:ReviewerID" json:"reviewer"`
	ReviewedID   uint      `gorm:"uniqueIndex:idx_review_session_pair;index;not null" json:"reviewed_id"`
	Reviewed     User      `gorm:"foreignKey:ReviewedID" json:"reviewed"`
	ReviewerName string    `gorm:"-" json:"reviewer_name"`
	Rating       int       `gorm:"not null" json:"rating"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) FillDerived() {
	r.ReviewerName = r.Reviewer.DisplayName()
}
