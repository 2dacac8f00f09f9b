package service

import (
	"errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"
	"strings"

	"gorm.io/gorm"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type CategoryService struct {
	CategoryRepo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{CategoryRepo: repo}
}

func (s *CategoryService) List() ([]model.Category, error) {
	return s.CategoryRepo.List()
}

func (s *CategoryService) Create(in CategoryInput) (*model.Category, error) {
	category := &model.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Icon:        in.Icon,
	}
	if err := s.CategoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(id uint, in CategoryInput) (*model.Category, error) {
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	category.Name = strings.TrimSpace(in.Name)
	category.Description = in.Description
	category.Icon = in.Icon
	if err := s.CategoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category; its skills become uncategorized.
func (s *CategoryService) Delete(id uint) error {
	err := s.CategoryRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCategoryNotFound
	}
	return err
}
