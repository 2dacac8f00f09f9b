package model

import (
	"strings"
	"time"
)

type UserType string

const (
	Mentor  UserType = "MENTOR"
	Learner UserType = "LEARNER"
)

func (t UserType) Valid() bool {
	return t == Mentor || t == Learner
}

// swagger:model User
type User struct {
	BaseModel
	Username      string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email         string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName     string     `gorm:"size:150" json:"first_name"`
	LastName      string     `gorm:"size:150" json:"last_name"`
	Password      string     `gorm:"size:100;not null" json:"-"`
	UserType      UserType   `gorm:"type:varchar(10);default:'LEARNER'" json:"user_type"`
	Bio           string     `gorm:"type:text" json:"bio"`
	ProfileImage  string     `gorm:"size:255" json:"profile_image"`
	Timezone      string     `gorm:"size:50;default:'UTC'" json:"timezone"`
	AverageRating float64    `gorm:"default:0" json:"average_rating"`
	ReviewCount   int        `gorm:"default:0" json:"review_count"`
	LastSeen      *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Username
}
