package client

import (
	"testing"

	"skillswap/internal/model"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func catalog() []model.Skill {
	return []model.Skill{
		{BaseModel: model.BaseModel{ID: 1}, Title: "Guitar Basics", Description: "Open chords", Level: model.Beginner, CategoryID: uintPtr(2)},
		{BaseModel: model.BaseModel{ID: 2}, Title: "Piano", Description: "Scales and arpeggios", Level: model.Intermediate, CategoryID: uintPtr(2)},
		{BaseModel: model.BaseModel{ID: 3}, Title: "Go Concurrency", Description: "Channels, not GUITAR", Level: model.Advanced, CategoryID: uintPtr(1)},
		{BaseModel: model.BaseModel{ID: 4}, Title: "Sketching", Description: "Pencil work", Level: model.Beginner},
	}
}

func ids(skills []model.Skill) []uint {
	out := []uint{}
	for _, s := range skills {
		out = append(out, s.ID)
	}
	return out
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	skills := []model.Skill{{Title: "Guitar Basics"}, {Title: "Piano"}}

	got := FilterSkills(skills, CatalogFilter{Search: "guitar"})
	assert.Equal(t, []model.Skill{{Title: "Guitar Basics"}}, got)
}

func TestFilterSkills(t *testing.T) {
	tests := []struct {
		name   string
		filter CatalogFilter
		want   []uint
	}{
		{"no filter", CatalogFilter{}, []uint{1, 2, 3, 4}},
		{"search matches description", CatalogFilter{Search: "guitar"}, []uint{1, 3}},
		{"search trims", CatalogFilter{Search: "  piano "}, []uint{2}},
		{"category", CatalogFilter{CategoryID: 2}, []uint{1, 2}},
		{"level", CatalogFilter{Level: model.Beginner}, []uint{1, 4}},
		{"all three", CatalogFilter{CategoryID: 2, Level: model.Beginner, Search: "chords"}, []uint{1}},
		{"no match", CatalogFilter{Search: "violin"}, []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterSkills(catalog(), tt.filter)))
		})
	}
}

func TestFilterIsSubsetAndEmptySafe(t *testing.T) {
	all := catalog()
	for _, f := range []CatalogFilter{{}, {Search: "a"}, {CategoryID: 1}, {Level: model.Advanced}} {
		got := FilterSkills(all, f)
		assert.LessOrEqual(t, len(got), len(all))
		for _, s := range got {
			assert.Contains(t, ids(all), s.ID)
		}
	}

	assert.Empty(t, FilterSkills(nil, CatalogFilter{Search: "x"}))
	assert.NotNil(t, FilterSkills(nil, CatalogFilter{}))
}
