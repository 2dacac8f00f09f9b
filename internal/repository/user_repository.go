package repository

import (
	"skillswap/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) TouchLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_seen", time.Now()).
		Error
}

// RefreshRating recomputes average_rating and review_count from the reviews
// the user has received.
func (r *UserRepository) RefreshRating(tx *gorm.DB, userID uint) error {
	if tx == nil {
		tx = r.DB
	}
	var stats struct {
		Avg   float64
		Count int
	}
	err := tx.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("reviewed_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return err
	}
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"average_rating": stats.Avg,
			"review_count":   stats.Count,
		}).Error
}
