package model

import "strings"

type SkillLevel string

const (
	Beginner     SkillLevel = "BEGINNER"
	Intermediate SkillLevel = "INTERMEDIATE"
	Advanced     SkillLevel = "ADVANCED"
)

func (l SkillLevel) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// swagger:model Skill
type Skill struct {
	BaseModel
	MentorID        uint       `gorm:"index;not null" json:"mentor_id"`
	Mentor          User       `gorm:"foreignKey:MentorID" json:"mentor"`
	CategoryID      *uint      `gorm:"index" json:"category"`
	Category        *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	CategoryName    string     `gorm:"-" json:"category_name"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	Level           SkillLevel `gorm:"type:varchar(15);default:'BEGINNER'" json:"level"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	Tags            string     `gorm:"size:500" json:"tags"`
}

func (Skill) TableName() string {
	return "skills"
}

// TagList splits the comma-separated tags, dropping blanks.
func (s *Skill) TagList() []string {
	var tags []string
	for _, t := range strings.Split(s.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// FillDerived copies joined fields into their serialized counterparts.
func (s *Skill) FillDerived() {
	if s.Category != nil {
		s.CategoryName = s.Category.Name
	}
}
