package service

import (
	"errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"
	"strings"

	"gorm.io/gorm"
)

type CreateReviewInput struct {
	SessionID  uint   `json:"session_id" binding:"required"`
	ReviewedID *uint  `json:"reviewed_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewService struct {
	ReviewRepo  *repository.ReviewRepository
	SessionRepo *repository.SessionRepository
	UserRepo    *repository.UserRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, sessionRepo *repository.SessionRepository, userRepo *repository.UserRepository) *ReviewService {
	return &ReviewService{
		ReviewRepo:  reviewRepo,
		SessionRepo: sessionRepo,
		UserRepo:    userRepo,
	}
}

func validRating(r int) bool {
	return r >= model.MinRating && r <= model.MaxRating
}

func (s *ReviewService) List(filter repository.ReviewFilter) ([]model.Review, error) {
	reviews, err := s.ReviewRepo.List(filter)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// ForUser lists the reviews a user has received.
func (s *ReviewService) ForUser(userID uint) ([]model.Review, error) {
	if userID == 0 {
		return nil, util.ErrUserIDRequired
	}
	return s.List(repository.ReviewFilter{ReviewedID: userID})
}

// HasReviewed reports whether reviewerID already reviewed the session.
func (s *ReviewService) HasReviewed(sessionID, reviewerID uint) (bool, error) {
	return s.ReviewRepo.Exists(sessionID, reviewerID)
}

// Create posts a review on a completed session. When no reviewed user is
// given the other participant is reviewed.
func (s *ReviewService) Create(reviewerID uint, in CreateReviewInput) (*model.Review, error) {
	if !validRating(in.Rating) {
		return nil, util.ErrInvalidRating
	}

	session, err := s.SessionRepo.FindByID(in.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsParticipant(reviewerID) {
		return nil, util.ErrReviewNonMember
	}
	if session.Status != model.SessionCompleted {
		return nil, util.ErrReviewNotAllowed
	}

	reviewedID := session.Counterpart(reviewerID)
	if in.ReviewedID != nil {
		if *in.ReviewedID == reviewerID {
			return nil, util.ErrReviewSelf
		}
		if !session.IsParticipant(*in.ReviewedID) {
			return nil, util.ErrReviewedNotMember
		}
		reviewedID = *in.ReviewedID
	}

	exists, err := s.ReviewRepo.Exists(session.ID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyReviewed
	}

	review := &model.Review{
		SessionID:  session.ID,
		ReviewerID: reviewerID,
		ReviewedID: reviewedID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	err = s.ReviewRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ReviewRepo.Create(tx, review); err != nil {
			return err
		}
		return s.UserRepo.RefreshRating(tx, reviewedID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyReviewed
		}
		return nil, err
	}
	return s.ReviewRepo.FindByID(review.ID)
}

func (s *ReviewService) Update(callerID, id uint, in UpdateReviewInput) (*model.Review, error) {
	if !validRating(in.Rating) {
		return nil, util.ErrInvalidRating
	}
	review, err := s.owned(callerID, id)
	if err != nil {
		return nil, err
	}

	err = s.ReviewRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ReviewRepo.UpdateContent(tx, id, in.Rating, strings.TrimSpace(in.Comment)); err != nil {
			return err
		}
		return s.UserRepo.RefreshRating(tx, review.ReviewedID)
	})
	if err != nil {
		return nil, err
	}
	return s.ReviewRepo.FindByID(id)
}

func (s *ReviewService) Delete(callerID, id uint) error {
	review, err := s.owned(callerID, id)
	if err != nil {
		return err
	}
	return s.ReviewRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ReviewRepo.Delete(tx, id); err != nil {
			return err
		}
		return s.UserRepo.RefreshRating(tx, review.ReviewedID)
	})
}

func (s *ReviewService) owned(callerID, id uint) (*model.Review, error) {
	review, err := s.ReviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrReviewNotFound
		}
		return nil, err
	}
	if review.ReviewerID != callerID {
		return nil, util.ErrNotReviewOwner
	}
	return review, nil
}
