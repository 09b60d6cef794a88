package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/repository/memory"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func emitN(env *testEnv, recipientID int64, n int) {
	for i := 0; i < n; i++ {
		env.notifications.Emit(context.Background(), recipientID, model.NotificationSkillAdded,
			fmt.Sprintf("N%d", i), "body", model.Related{}, nil)
		env.clock.Advance(time.Second)
	}
}

func TestNotificationEmit_PersistsAndEnqueues(t *testing.T) {
	env := newTestEnv(t)

	n := env.notifications.Emit(context.Background(), env.learner.ID, model.NotificationSessionStarted,
		"Session Started", "now", model.SessionRef(42), map[string]string{"k": "v"})
	require.NotNil(t, n)
	assert.NotZero(t, n.ID)
	assert.False(t, n.IsRead)
	assert.Equal(t, env.clock.Now(), n.CreatedAt)
	assert.Equal(t, 1, env.deliverer.count())

	inbox := env.inbox(t, env.learner.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, "v", inbox[0].Data["k"])
	assert.False(t, inbox[0].RelatedAvailable, "session 42 does not exist")
}

type failingNotificationStore struct {
	service.NotificationStore
}

func (failingNotificationStore) Create(context.Context, *model.Notification) error {
	return errors.New("connection refused")
}

func TestNotificationEmit_StorageFailureIsSwallowed(t *testing.T) {
	store := memory.NewStore()
	deliverer := &recordingDeliverer{}
	notifications := service.NewNotificationService(
		failingNotificationStore{store.Notifications()}, store.Requests(), store.Sessions(), store.Skills(),
		deliverer, newFakeClock(), zap.NewNop(),
	)

	n := notifications.Emit(context.Background(), 1, model.NotificationRequestSent, "t", "m", model.Related{}, nil)
	assert.Nil(t, n)
	assert.Zero(t, deliverer.count())

	// Переход заявки проходит, даже если уведомление не сохранилось
	requests := service.NewRequestService(store.Requests(), store.Users(), store.Skills(), notifications, newFakeClock(), zap.NewNop())
	u1 := store.AddUser(&model.User{Username: "a"})
	u2 := store.AddUser(&model.User{Username: "b"})
	skill := store.AddSkill(&model.Skill{Name: "Go"})

	req, err := requests.Create(context.Background(), u1.ID, u2.ID, skill.ID, "hello")
	require.NoError(t, err)
	_, err = requests.Accept(context.Background(), req.ID, u2.ID)
	require.NoError(t, err)
}

func TestNotificationListRecent_LimitAndUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	emitN(env, env.learner.ID, 25)

	page, err := env.notifications.ListRecent(context.Background(), env.learner.ID, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, model.DefaultNotificationLimit)
	assert.Equal(t, 25, page.UnreadCount)
	assert.Equal(t, "N24", page.Items[0].Title)

	page, err = env.notifications.ListRecent(context.Background(), env.learner.ID, 3)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 25, page.UnreadCount)
}

func TestNotificationListRecent_RecentFlag(t *testing.T) {
	env := newTestEnv(t)
	emitN(env, env.learner.ID, 1)

	env.clock.Advance(23 * time.Hour)
	emitN(env, env.learner.ID, 1)

	env.clock.Advance(2 * time.Hour)
	page, err := env.notifications.ListRecent(context.Background(), env.learner.ID, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].Recent)
	assert.False(t, page.Items[1].Recent)
}

func TestNotificationMarkRead_OwnOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n := env.notifications.Emit(ctx, env.learner.ID, model.NotificationRequestAccepted, "t", "m", model.Related{}, nil)
	require.NotNil(t, n)

	err := env.notifications.MarkRead(ctx, n.ID, env.outsider.ID)
	requireKind(t, err, service.ErrNotFound, "Notification not found")

	page, err := env.notifications.ListRecent(ctx, env.learner.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.UnreadCount)
	assert.False(t, page.Items[0].IsRead)

	require.NoError(t, env.notifications.MarkRead(ctx, n.ID, env.learner.ID))
	// Повторная отметка не ошибка
	require.NoError(t, env.notifications.MarkRead(ctx, n.ID, env.learner.ID))

	page, err = env.notifications.ListRecent(ctx, env.learner.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, page.UnreadCount)
	assert.True(t, page.Items[0].IsRead)

	err = env.notifications.MarkRead(ctx, 9999, env.learner.ID)
	requireKind(t, err, service.ErrNotFound, "")
}

func TestNotificationMarkAllRead_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	emitN(env, env.learner.ID, 3)
	emitN(env, env.teacher.ID, 2)

	affected, err := env.notifications.MarkAllRead(ctx, env.learner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	affected, err = env.notifications.MarkAllRead(ctx, env.learner.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	page, err := env.notifications.ListRecent(ctx, env.teacher.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.UnreadCount)
}
