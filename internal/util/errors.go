package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("a user with that username already exists")
	ErrEmailRegistered     = errors.New("a user with that email already exists")
	ErrPasswordMismatch    = errors.New("passwords don't match")
	ErrInvalidCredentials  = errors.New("no active account found with the given credentials")
	ErrInvalidToken        = errors.New("token is invalid or expired")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrNotSkillOwner       = errors.New("you can only modify your own skills")
	ErrSessionNotFound     = errors.New("session not found")
	ErrOwnSkillBooking     = errors.New("you cannot book a session for your own skill")
	ErrScheduleRequired    = errors.New("scheduled_datetime is required")
	ErrMessageRequired     = errors.New("message is required")
	ErrChatClosed          = errors.New("messages can only be sent in approved or completed sessions")
	ErrReviewNotFound      = errors.New("review not found")
	ErrNotReviewOwner      = errors.New("you can only modify your own reviews")
	ErrReviewNotAllowed    = errors.New("can only review completed sessions")
	ErrReviewNonMember     = errors.New("you can only review sessions you participated in")
	ErrReviewedNotMember   = errors.New("can only review participants of this session")
	ErrReviewSelf          = errors.New("you cannot review yourself")
	ErrAlreadyReviewed     = errors.New("you have already reviewed this session")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrUserIDRequired      = errors.New("user_id parameter is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidUserType     = errors.New("user_type must be MENTOR or LEARNER")
	ErrInvalidSkillLevel   = errors.New("level must be BEGINNER, INTERMEDIATE or ADVANCED")
	ErrInvalidDuration     = errors.New("duration_minutes must be greater than zero")
	ErrFileTooLarge        = errors.New("file is too large")
)
