package service

import (
	"errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"
	"strings"

	"gorm.io/gorm"
)

type SkillInput struct {
	CategoryID      *uint            `json:"category"`
	Title           string           `json:"title" binding:"required"`
	Description     string           `json:"description" binding:"required"`
	Level           model.SkillLevel `json:"level"`
	DurationMinutes int              `json:"duration_minutes"`
	Tags            string           `json:"tags"`
}

type SkillService struct {
	SkillRepo    *repository.SkillRepository
	CategoryRepo *repository.CategoryRepository
}

func NewSkillService(skillRepo *repository.SkillRepository, categoryRepo *repository.CategoryRepository) *SkillService {
	return &SkillService{
		SkillRepo:    skillRepo,
		CategoryRepo: categoryRepo,
	}
}

func (s *SkillService) List(filter repository.SkillFilter) ([]model.Skill, error) {
	if filter.Level != "" && !filter.Level.Valid() {
		return nil, util.ErrInvalidSkillLevel
	}
	return s.SkillRepo.List(filter)
}

func (s *SkillService) ListByMentor(mentorID uint) ([]model.Skill, error) {
	return s.SkillRepo.List(repository.SkillFilter{MentorID: mentorID})
}

func (s *SkillService) Get(id uint) (*model.Skill, error) {
	skill, err := s.SkillRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	}
	return skill, err
}

func (s *SkillService) Create(mentorID uint, in SkillInput) (*model.Skill, error) {
	skill := &model.Skill{MentorID: mentorID}
	if err := s.apply(skill, in); err != nil {
		return nil, err
	}
	if err := s.SkillRepo.Create(skill); err != nil {
		return nil, err
	}
	return s.Get(skill.ID)
}

func (s *SkillService) Update(callerID, id uint, in SkillInput) (*model.Skill, error) {
	skill, err := s.owned(callerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(skill, in); err != nil {
		return nil, err
	}
	if err := s.SkillRepo.Update(skill); err != nil {
		return nil, err
	}
	return s.Get(skill.ID)
}

func (s *SkillService) Delete(callerID, id uint) error {
	if _, err := s.owned(callerID, id); err != nil {
		return err
	}
	return s.SkillRepo.Delete(id)
}

func (s *SkillService) owned(callerID, id uint) (*model.Skill, error) {
	skill, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if skill.MentorID != callerID {
		return nil, util.ErrNotSkillOwner
	}
	return skill, nil
}

func (s *SkillService) apply(skill *model.Skill, in SkillInput) error {
	level := in.Level
	if level == "" {
		level = model.Beginner
	}
	if !level.Valid() {
		return util.ErrInvalidSkillLevel
	}
	if in.DurationMinutes <= 0 {
		return util.ErrInvalidDuration
	}
	if in.CategoryID != nil {
		if _, err := s.CategoryRepo.FindByID(*in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrCategoryNotFound
			}
			return err
		}
	}

	skill.CategoryID = in.CategoryID
	skill.Category = nil
	skill.Title = strings.TrimSpace(in.Title)
	skill.Description = in.Description
	skill.Level = level
	skill.DurationMinutes = in.DurationMinutes
	skill.Tags = in.Tags
	return nil
}
