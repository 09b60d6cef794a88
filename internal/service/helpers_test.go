package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/repository/memory"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingDeliverer struct {
	mu    sync.Mutex
	items []*model.Notification
}

func (d *recordingDeliverer) Enqueue(n *model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, n)
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

type testEnv struct {
	store     *memory.Store
	clock     *fakeClock
	deliverer *recordingDeliverer

	users         *service.UserService
	notifications *service.NotificationService
	requests      *service.RequestService
	sessions      *service.SessionService
	skills        *service.SkillService

	learner  *model.User // U1
	teacher  *model.User // U2
	outsider *model.User
	goSkill  *model.Skill
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	clock := newFakeClock()
	deliverer := &recordingDeliverer{}
	logger := zap.NewNop()

	env := &testEnv{store: store, clock: clock, deliverer: deliverer}

	env.notifications = service.NewNotificationService(
		store.Notifications(), store.Requests(), store.Sessions(), store.Skills(), deliverer, clock, logger,
	)
	env.users = service.NewUserService(store.Users(), logger)
	env.requests = service.NewRequestService(store.Requests(), store.Users(), store.Skills(), env.notifications, clock, logger)
	env.sessions = service.NewSessionService(store.Sessions(), store.Requests(), store.Users(), env.notifications, clock, logger)
	env.skills = service.NewSkillService(store.Skills(), store.Users(), env.notifications, clock, logger)

	env.learner = store.AddUser(&model.User{Username: "u1", FirstName: "Una", LastName: "Learner"})
	env.teacher = store.AddUser(&model.User{Username: "u2", FirstName: "Tom", LastName: "Teacher"})
	env.outsider = store.AddUser(&model.User{Username: "u3", FirstName: "Olga", LastName: "Outsider"})

	category := store.AddCategory(&model.SkillCategory{Name: "Programming"})
	env.goSkill = store.AddSkill(&model.Skill{CategoryID: category.ID, Name: "Go", Level: model.SkillLevelBeginner})

	return env
}

// pendingRequest creates a learner -> teacher request for goSkill
func (e *testEnv) pendingRequest(t *testing.T) *model.Request {
	t.Helper()
	req, err := e.requests.Create(context.Background(), e.learner.ID, e.teacher.ID, e.goSkill.ID, "Teach me goroutines")
	require.NoError(t, err)
	return req
}

func (e *testEnv) acceptedRequest(t *testing.T) *model.Request {
	t.Helper()
	req := e.pendingRequest(t)
	req, err := e.requests.Accept(context.Background(), req.ID, e.teacher.ID)
	require.NoError(t, err)
	return req
}

func (e *testEnv) scheduledSession(t *testing.T) *model.Session {
	t.Helper()
	req := e.acceptedRequest(t)
	session, err := e.sessions.Create(context.Background(), e.teacher.ID, service.CreateSessionInput{
		RequestID:     req.ID,
		Title:         "T",
		ScheduledDate: e.clock.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return session
}

// inbox returns every notification of user, newest first
func (e *testEnv) inbox(t *testing.T, userID int64) []model.NotificationItem {
	t.Helper()
	page, err := e.notifications.ListRecent(context.Background(), userID, 1000)
	require.NoError(t, err)
	return page.Items
}

func typesOf(items []model.NotificationItem) []model.NotificationType {
	out := make([]model.NotificationType, 0, len(items))
	for _, it := range items {
		out = append(out, it.Type)
	}
	return out
}

func requireKind(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	if message != "" {
		require.Equal(t, message, service.Message(err))
	}
}
