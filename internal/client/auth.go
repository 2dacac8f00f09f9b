package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sync"

	"skillswap/internal/model"
	"skillswap/pkg/logger"

	"go.uber.org/zap"
)

type RegisterInput struct {
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"password_confirm"`
	FirstName       string         `json:"first_name,omitempty"`
	LastName        string         `json:"last_name,omitempty"`
	UserType        model.UserType `json:"user_type"`
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName *string         `json:"first_name,omitempty"`
	LastName  *string         `json:"last_name,omitempty"`
	Email     *string         `json:"email,omitempty"`
	Bio       *string         `json:"bio,omitempty"`
	Timezone  *string         `json:"timezone,omitempty"`
	UserType  *model.UserType `json:"user_type,omitempty"`
}

type authResult struct {
	Tokens
	User *model.User `json:"user"`
}

// AuthContext holds the signed-in user for the lifetime of the process.
type AuthContext struct {
	Client *Client

	mu   sync.RWMutex
	user *model.User
}

func NewAuthContext(c *Client) *AuthContext {
	return &AuthContext{Client: c}
}

// User returns the current profile, or nil when signed out.
func (a *AuthContext) User() *model.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

func (a *AuthContext) Authenticated() bool {
	return a.User() != nil
}

func (a *AuthContext) setUser(u *model.User) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}

// Restore loads the profile for a stored token. Without a token it returns
// nil, nil. If the profile cannot be fetched the stored tokens are cleared.
func (a *AuthContext) Restore(ctx context.Context) (*model.User, error) {
	tokens, err := a.Client.Tokens.Load()
	if err != nil {
		return nil, err
	}
	if tokens.Access == "" {
		return nil, nil
	}
	user, err := a.Client.Profile(ctx)
	if err != nil {
		logger.Log.Debug("stored credentials rejected", zap.Error(err))
		_ = a.Logout()
		return nil, err
	}
	a.setUser(user)
	return user, nil
}

func (a *AuthContext) Login(ctx context.Context, username, password string) (*model.User, error) {
	var res authResult
	err := a.Client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     map[string]string{"username": username, "password": password},
		fallback: "Login failed",
		noAuth:   true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return a.signIn(res)
}

// Register creates the account and signs in with the tokens it returns. A
// reply without tokens falls back to a regular login.
func (a *AuthContext) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	var res authResult
	err := a.Client.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     in,
		fallback: "Registration failed",
		noAuth:   true,
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Access == "" || res.User == nil {
		return a.Login(ctx, in.Username, in.Password)
	}
	return a.signIn(res)
}

func (a *AuthContext) signIn(res authResult) (*model.User, error) {
	if err := a.Client.Tokens.Save(res.Tokens); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	a.Client.Cache.Invalidate(allKeys()...)
	a.setUser(res.User)
	return res.User, nil
}

// Logout forgets the tokens, the profile and every cached query.
func (a *AuthContext) Logout() error {
	a.setUser(nil)
	a.Client.Cache.Invalidate(allKeys()...)
	return a.Client.Tokens.Clear()
}

// UpdateProfile saves changes and refreshes the held profile.
func (a *AuthContext) UpdateProfile(ctx context.Context, in ProfileUpdate) (*model.User, error) {
	var out model.User
	if err := a.Client.do(ctx, request{method: http.MethodPut, path: "/profile", body: in, fallback: "Failed to update profile"}, &out); err != nil {
		return nil, err
	}
	a.setUser(&out)
	return &out, nil
}

// UploadAvatar sends an image as the profile picture.
func (a *AuthContext) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*model.User, error) {
	user, err := a.Client.UploadAvatar(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	a.setUser(user)
	return user, nil
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/profile", fallback: "Failed to load profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) User(ctx context.Context, id uint) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/users/%d", id), fallback: "Failed to load user"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*model.User, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out model.User
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/profile/avatar",
		raw:         buf.Bytes(),
		contentType: w.FormDataContentType(),
		fallback:    "Failed to upload avatar",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func allKeys() []string {
	return []string{keyCategories, keySkills, keyMySkills, keySessions, keySessionsLearner,
		keySessionsMentor, keyReviews, keySessionMessages}
}
