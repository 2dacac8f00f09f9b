package repository

import (
	"skillswap/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// ReviewFilter selects reviews; zero fields are ignored. Involving matches
// reviews given or received by that user.
type ReviewFilter struct {
	ReviewedID uint
	SessionID  uint
	Involving  uint
}

func (r *ReviewRepository) preloaded() *gorm.DB {
	return r.DB.Preload("Reviewer").Preload("Reviewed")
}

func (r *ReviewRepository) List(f ReviewFilter) ([]model.Review, error) {
	q := r.preloaded().Model(&model.Review{})
	if f.ReviewedID != 0 {
		q = q.Where("reviewed_id = ?", f.ReviewedID)
	}
	if f.SessionID != 0 {
		q = q.Where("session_id = ?", f.SessionID)
	}
	if f.Involving != 0 {
		q = q.Where("reviewer_id = ? OR reviewed_id = ?", f.Involving, f.Involving)
	}

	var reviews []model.Review
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].FillDerived()
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.preloaded().First(&review, id).Error; err != nil {
		return nil, err
	}
	review.FillDerived()
	return &review, nil
}

func (r *ReviewRepository) Exists(sessionID, reviewerID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Review{}).
		Where("session_id = ? AND reviewer_id = ?", sessionID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) Create(tx *gorm.DB, review *model.Review) error {
	return tx.Omit(clause.Associations).Create(review).Error
}

func (r *ReviewRepository) UpdateContent(tx *gorm.DB, id uint, rating int, comment string) error {
	return tx.Model(&model.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "comment": comment}).Error
}

func (r *ReviewRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Review{}, id).Error
}
