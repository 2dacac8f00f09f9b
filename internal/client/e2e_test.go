package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillswap/internal/app"
	"skillswap/internal/client"
	"skillswap/internal/config"
	"skillswap/internal/model"
	"skillswap/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"},
		JWT: config.JWTConfig{
			Secret:             "e2e-secret-that-is-long-enough-for-hs256",
			AccessTTL:          time.Hour,
			RefreshTTL:         24 * time.Hour,
			RotateRefreshToken: true,
		},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}
	db, err := database.InitDB(&cfg.Database, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	a := app.NewServer(cfg, db, nil)
	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return srv.URL + "/api"
}

func signUp(t *testing.T, base, username string, role model.UserType) *client.AuthContext {
	t.Helper()
	auth := client.NewAuthContext(client.New(base, nil))
	_, err := auth.Register(context.Background(), client.RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
		UserType:        role,
	})
	require.NoError(t, err)
	return auth
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	base := startServer(t)
	ctx := context.Background()

	mentor := signUp(t, base, "maria", model.Mentor)
	learner := signUp(t, base, "leo", model.Learner)
	mentorID, learnerID := mentor.User().ID, learner.User().ID

	skill, err := mentor.Client.CreateSkill(ctx, client.SkillInput{
		Title:           "Guitar Basics",
		Description:     "Chords and strumming",
		Level:           model.Beginner,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	skills, err := learner.Client.Skills(ctx, client.SkillQuery{})
	require.NoError(t, err)
	found := client.FilterSkills(skills, client.CatalogFilter{Search: "guitar"})
	require.Len(t, found, 1)
	assert.Equal(t, skill.ID, found[0].ID)

	_, err = learner.Client.BookSession(ctx, client.BookInput{SkillID: skill.ID})
	assert.ErrorIs(t, err, client.ErrScheduleRequired)

	session, err := learner.Client.BookSession(ctx, client.BookInput{
		SkillID:           skill.ID,
		ScheduledDatetime: time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second),
		LearnerMessage:    "I know three chords",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionPending, session.Status)
	assert.Equal(t, mentorID, session.MentorID)

	caps, err := learner.Client.SessionCapabilities(ctx, session, learnerID)
	require.NoError(t, err)
	assert.False(t, caps.CanApprove)

	_, err = learner.Client.ApproveSession(ctx, session.ID, "")
	assert.True(t, client.IsStatus(err, http.StatusForbidden))

	session, err = mentor.Client.ApproveSession(ctx, session.ID, "See you then")
	require.NoError(t, err)
	assert.Equal(t, model.SessionApproved, session.Status)

	_, err = mentor.Client.RejectSession(ctx, session.ID, "too late")
	assert.True(t, client.IsStatus(err, http.StatusConflict))

	streamCtx, stop := context.WithCancel(ctx)
	defer stop()
	events, err := mentor.Client.StreamMessages(streamCtx, session.ID)
	require.NoError(t, err)

	// the subscription is registered just after the handshake completes
	var pushed *model.SessionMessage
	for i := 0; i < 20 && pushed == nil; i++ {
		_, err := learner.Client.SendMessage(ctx, session.ID, "hello from leo")
		require.NoError(t, err)
		select {
		case ev := <-events:
			require.Equal(t, "MESSAGE", ev.Type)
			pushed = ev.Message
		case <-time.After(100 * time.Millisecond):
		}
	}
	require.NotNil(t, pushed, "no message pushed over the stream")
	assert.Equal(t, "hello from leo", pushed.Message)
	assert.Equal(t, learnerID, pushed.SenderID)

	history, err := mentor.Client.Messages(ctx, session.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, history)

	session, err = learner.Client.CompleteSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, session.Status)

	caps, err = learner.Client.SessionCapabilities(ctx, session, learnerID)
	require.NoError(t, err)
	assert.True(t, caps.CanReview)

	_, err = learner.Client.CreateReview(ctx, client.ReviewInput{SessionID: session.ID, Rating: 5, Comment: "Great teacher"})
	require.NoError(t, err)

	caps, err = learner.Client.SessionCapabilities(ctx, session, learnerID)
	require.NoError(t, err)
	assert.False(t, caps.CanReview)

	_, err = learner.Client.CreateReview(ctx, client.ReviewInput{SessionID: session.ID, Rating: 4})
	assert.True(t, client.IsStatus(err, http.StatusConflict))

	profile, err := learner.Client.User(ctx, mentorID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, profile.AverageRating)
	assert.Equal(t, 1, profile.ReviewCount)
}

func TestRestoreFromSavedCredentials(t *testing.T) {
	base := startServer(t)
	first := signUp(t, base, "otto", model.Learner)

	tokens, err := first.Client.Tokens.Load()
	require.NoError(t, err)

	store := client.NewMemoryTokenStore()
	require.NoError(t, store.Save(tokens))
	auth := client.NewAuthContext(client.New(base, store))

	user, err := auth.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "otto", user.Username)

	require.NoError(t, store.Save(client.Tokens{Access: "garbage", Refresh: "garbage"}))
	_, err = auth.Restore(context.Background())
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	cleared, _ := store.Load()
	assert.Empty(t, cleared.Access)
}
