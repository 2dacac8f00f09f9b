package service

import (
	"testing"

	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryDeleteUncategorisesSkills(t *testing.T) {
	f := newFixture(t)
	categories := NewCategoryService(repository.NewCategoryRepository(f.db, nil))
	skills := NewSkillService(f.skills, categories.CategoryRepo)

	cat, err := categories.Create(CategoryInput{Name: " Woodwork ", Icon: "hammer"})
	require.NoError(t, err)
	assert.Equal(t, "Woodwork", cat.Name)

	skill, err := skills.Create(f.mentor.ID, SkillInput{
		CategoryID:      &cat.ID,
		Title:           "Dovetail joints",
		Description:     "Hand cut",
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Beginner, skill.Level)

	require.NoError(t, categories.Delete(cat.ID))

	got, err := f.skills.FindByID(skill.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	assert.ErrorIs(t, categories.Delete(cat.ID), util.ErrCategoryNotFound)
	_, err = categories.Update(cat.ID, CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, util.ErrCategoryNotFound)
}

func TestCategoryListIncludesSeeds(t *testing.T) {
	f := newFixture(t)
	categories := NewCategoryService(repository.NewCategoryRepository(f.db, nil))

	before, err := categories.List()
	require.NoError(t, err)
	assert.NotEmpty(t, before)

	_, err = categories.Create(CategoryInput{Name: "Cooking"})
	require.NoError(t, err)

	after, err := categories.List()
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
}

func TestSkillOwnership(t *testing.T) {
	f := newFixture(t)
	skills := NewSkillService(f.skills, repository.NewCategoryRepository(f.db, nil))

	_, err := skills.Update(f.learner.ID, f.skill.ID, SkillInput{Title: "Mine now", Description: "x", DurationMinutes: 30})
	assert.ErrorIs(t, err, util.ErrNotSkillOwner)
	assert.ErrorIs(t, skills.Delete(f.learner.ID, f.skill.ID), util.ErrNotSkillOwner)

	_, err = skills.Create(f.mentor.ID, SkillInput{Title: "t", Description: "d", DurationMinutes: 0})
	assert.ErrorIs(t, err, util.ErrInvalidDuration)

	_, err = skills.Create(f.mentor.ID, SkillInput{Title: "t", Description: "d", DurationMinutes: 30, Level: "EXPERT"})
	assert.ErrorIs(t, err, util.ErrInvalidSkillLevel)

	updated, err := skills.Update(f.mentor.ID, f.skill.ID, SkillInput{Title: "Guitar 101", Description: "x", Level: model.Advanced, DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, "Guitar 101", updated.Title)
	assert.Equal(t, model.Advanced, updated.Level)

	require.NoError(t, skills.Delete(f.mentor.ID, f.skill.ID))
	_, err = skills.Get(f.skill.ID)
	assert.ErrorIs(t, err, util.ErrSkillNotFound)
}
