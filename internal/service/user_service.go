package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/util"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxAvatarSize caps profile image uploads.
const MaxAvatarSize = 5 << 20

// ProfileUpdate is a partial profile update; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Email     *string         `json:"email"`
	Bio       *string         `json:"bio"`
	Timezone  *string         `json:"timezone"`
	UserType  *model.UserType `json:"user_type"`
}

// UserService 处理用户相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateProfile(id uint, in ProfileUpdate) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if in.UserType != nil && !in.UserType.Valid() {
		return nil, util.ErrInvalidUserType
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if _, err := s.UserRepo.FindByEmail(email); err == nil {
				return nil, util.ErrEmailRegistered
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Timezone != nil && *in.Timezone != "" {
		user.Timezone = *in.Timezone
	}
	if in.UserType != nil {
		user.UserType = *in.UserType
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores an image and points the user's profile_image at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64) (*model.User, error) {
	if size > MaxAvatarSize {
		return nil, util.ErrFileTooLarge
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	// 读取头部做 MIME 校验，再拼回完整数据流
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	mimeType, err := util.ValidateMimeType(bytes.NewReader(head), []string{util.MimeImage})
	if err != nil {
		return nil, util.ErrUnsupportedFileType
	}

	objectName := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.Storage.Upload(ctx, objectName, io.MultiReader(bytes.NewReader(head), reader), size, mimeType)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateFields(userID, map[string]interface{}{"profile_image": url}); err != nil {
		return nil, err
	}
	user.ProfileImage = url
	return user, nil
}
