package repository

import (
	"skillswap/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

// SkillFilter narrows a listing; zero values match everything.
type SkillFilter struct {
	CategoryID *uint
	Level      model.SkillLevel
	MentorID   uint
}

func (r *SkillRepository) preloaded() *gorm.DB {
	return r.DB.Preload("Mentor").Preload("Category")
}

func (r *SkillRepository) List(f SkillFilter) ([]model.Skill, error) {
	q := r.preloaded().Model(&model.Skill{})
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.MentorID != 0 {
		q = q.Where("mentor_id = ?", f.MentorID)
	}

	var skills []model.Skill
	if err := q.Order("created_at DESC").Order("id DESC").Find(&skills).Error; err != nil {
		return nil, err
	}
	for i := range skills {
		skills[i].FillDerived()
	}
	return skills, nil
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var skill model.Skill
	if err := r.preloaded().First(&skill, id).Error; err != nil {
		return nil, err
	}
	skill.FillDerived()
	return &skill, nil
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Omit(clause.Associations).Create(skill).Error
}

func (r *SkillRepository) Update(skill *model.Skill) error {
	return r.DB.Omit(clause.Associations).Save(skill).Error
}

func (r *SkillRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Skill{}, id).Error
}
