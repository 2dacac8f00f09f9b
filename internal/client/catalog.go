package client

import (
	"strings"

	"skillswap/internal/model"
)

// CatalogFilter narrows a fetched skill list. Zero values match everything.
type CatalogFilter struct {
	CategoryID uint
	Level      model.SkillLevel
	Search     string
}

func (f CatalogFilter) match(s *model.Skill) bool {
	if f.CategoryID != 0 && (s.CategoryID == nil || *s.CategoryID != f.CategoryID) {
		return false
	}
	if f.Level != "" && s.Level != f.Level {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Title), term) ||
		strings.Contains(strings.ToLower(s.Description), term)
}

// FilterSkills keeps the skills matching every set criterion, in input order.
// The search term is matched case-insensitively against title and description.
func FilterSkills(skills []model.Skill, f CatalogFilter) []model.Skill {
	out := make([]model.Skill, 0, len(skills))
	for i := range skills {
		if f.match(&skills[i]) {
			out = append(out, skills[i])
		}
	}
	return out
}
