package service

import (
	"errors"
	"skillswap/internal/config"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username        string         `json:"username" binding:"required"`
	Email           string         `json:"email" binding:"required,email"`
	Password        string         `json:"password" binding:"required,min=8"`
	PasswordConfirm string         `json:"password_confirm" binding:"required"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	UserType        model.UserType `json:"user_type" binding:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    *model.User `json:"user"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(in RegisterInput) (*AuthResult, error) {
	if in.Password != in.PasswordConfirm {
		return nil, util.ErrPasswordMismatch
	}
	if !in.UserType.Valid() {
		return nil, util.ErrInvalidUserType
	}

	username := strings.TrimSpace(in.Username)
	if _, err := s.UserRepo.FindByUsername(username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  username,
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  string(hashedPassword),
		UserType:  in.UserType,
		Timezone:  "UTC",
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(username, password string) (*AuthResult, error) {
	user, err := s.UserRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return s.issue(user)
}

// Refresh exchanges a refresh token for a new access token. With rotation
// enabled a new refresh token is issued too; otherwise the old one is echoed.
func (s *AuthService) Refresh(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ParseJWT(refreshToken, util.RefreshToken, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, util.ErrInvalidToken
	}
	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, util.ErrInvalidToken
	}

	if !s.Cfg.JWT.RotateRefreshToken {
		access, err := util.GenerateJWT(user, util.AccessToken, s.Cfg.JWT.Secret, s.Cfg.JWT.AccessTTL)
		if err != nil {
			return nil, err
		}
		return &util.TokenPair{Access: access, Refresh: refreshToken}, nil
	}
	return util.GenerateTokenPair(user, s.Cfg.JWT.Secret, s.Cfg.JWT.AccessTTL, s.Cfg.JWT.RefreshTTL)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	pair, err := util.GenerateTokenPair(user, s.Cfg.JWT.Secret, s.Cfg.JWT.AccessTTL, s.Cfg.JWT.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Access: pair.Access, Refresh: pair.Refresh, User: user}, nil
}
