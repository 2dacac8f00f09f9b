package repository

import (
	"context"
	"encoding/json"
	"skillswap/internal/model"
	"skillswap/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const categoryCacheTTL = time.Hour

type CategoryRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewCategoryRepository(db *gorm.DB, rdb *redis.Client) *CategoryRepository {
	return &CategoryRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// List returns all categories ordered by name, served from Redis when cached.
func (r *CategoryRepository) List() ([]model.Category, error) {
	if r.Redis != nil {
		if cached, err := r.Redis.Get(r.ctx, util.CacheKeyCategories).Bytes(); err == nil {
			var categories []model.Category
			if json.Unmarshal(cached, &categories) == nil {
				return categories, nil
			}
		}
	}

	var categories []model.Category
	if err := r.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			r.Redis.Set(r.ctx, util.CacheKeyCategories, data, categoryCacheTTL)
		}
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	err := r.DB.First(&category, id).Error
	return &category, err
}

func (r *CategoryRepository) Create(category *model.Category) error {
	err := r.DB.Create(category).Error
	r.invalidate(err)
	return err
}

func (r *CategoryRepository) Update(category *model.Category) error {
	err := r.DB.Save(category).Error
	r.invalidate(err)
	return err
}

// Delete detaches the category's skills before removing it.
func (r *CategoryRepository) Delete(id uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Skill{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	r.invalidate(err)
	return err
}

func (r *CategoryRepository) invalidate(err error) {
	if err == nil && r.Redis != nil {
		// 清除分类缓存
		r.Redis.Del(r.ctx, util.CacheKeyCategories)
	}
}
