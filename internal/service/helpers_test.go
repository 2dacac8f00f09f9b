package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"}, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type recordingNotifier struct {
	mu       sync.Mutex
	approved []uint
	reminded []uint
	events   chan uint
	fail     error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan uint, 16)}
}

func (n *recordingNotifier) SessionApproved(ctx context.Context, s *model.LearningSession) error {
	n.mu.Lock()
	n.approved = append(n.approved, s.ID)
	n.mu.Unlock()
	n.events <- s.ID
	return n.fail
}

func (n *recordingNotifier) SessionReminder(ctx context.Context, s *model.LearningSession) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.reminded = append(n.reminded, s.ID)
	return nil
}

func (n *recordingNotifier) remindedIDs() []uint {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]uint(nil), n.reminded...)
}

type fixture struct {
	db       *gorm.DB
	users    *repository.UserRepository
	skills   *repository.SkillRepository
	sessions *repository.SessionRepository
	notifier *recordingNotifier

	sessionSvc *SessionService
	reviewSvc  *ReviewService
	chatSvc    *ChatService

	mentor, learner, outsider *model.User
	skill                     *model.Skill
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		skills:   repository.NewSkillRepository(db),
		sessions: repository.NewSessionRepository(db),
		notifier: newRecordingNotifier(),
	}
	f.sessionSvc = NewSessionService(f.sessions, f.skills, f.notifier)
	f.reviewSvc = NewReviewService(repository.NewReviewRepository(db), f.sessions, f.users)
	f.chatSvc = NewChatService(repository.NewChatRepository(db), f.sessionSvc, NewChatHub(nil))

	f.mentor = f.user(t, "maria", model.Mentor)
	f.learner = f.user(t, "leo", model.Learner)
	f.outsider = f.user(t, "otto", model.Learner)

	f.skill = &model.Skill{
		MentorID:        f.mentor.ID,
		Title:           "Guitar Basics",
		Description:     "Chords and strumming",
		Level:           model.Beginner,
		DurationMinutes: 60,
	}
	require.NoError(t, f.skills.Create(f.skill))
	return f
}

func (f *fixture) user(t *testing.T, name string, kind model.UserType) *model.User {
	t.Helper()
	u := &model.User{
		Username:  name,
		Email:     name + "@example.com",
		FirstName: name,
		Password:  "x",
		UserType:  kind,
		Timezone:  "UTC",
	}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) book(t *testing.T, at time.Time) *model.LearningSession {
	t.Helper()
	s, err := f.sessionSvc.Book(f.learner.ID, BookInput{SkillID: f.skill.ID, ScheduledDatetime: &at, LearnerMessage: "hi"})
	require.NoError(t, err)
	return s
}

func tomorrow() time.Time {
	return time.Now().Add(24 * time.Hour).Truncate(time.Second)
}
