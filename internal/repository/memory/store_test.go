package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedRequest(t *testing.T, s *Store) *model.Request {
	t.Helper()
	req := &model.Request{RequesterID: 1, ReceiverID: 2, SkillID: 3, Status: model.RequestStatusPending, Description: "d", CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Requests().Create(context.Background(), req))
	return req
}

func TestRequestRepository_ActiveTripleUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	req := seedRequest(t, s)

	dup := &model.Request{RequesterID: 1, ReceiverID: 2, SkillID: 3, Status: model.RequestStatusPending}
	assert.ErrorIs(t, s.Requests().Create(ctx, dup), service.ErrActiveRequestExists)

	ok, err := s.Requests().TransitionStatus(ctx, req.ID, model.RequestStatusPending, model.RequestStatusRejected, &t0, t0)
	require.NoError(t, err)
	require.True(t, ok)

	assert.NoError(t, s.Requests().Create(ctx, dup))
}

func TestRequestRepository_CompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	req := seedRequest(t, s)
	later := t0.Add(time.Minute)

	ok, err := s.Requests().TransitionStatus(ctx, req.ID, model.RequestStatusPending, model.RequestStatusAccepted, &later, later)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Requests().TransitionStatus(ctx, req.ID, model.RequestStatusPending, model.RequestStatusRejected, &later, later)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, got.Status)
	assert.Equal(t, later, got.UpdatedAt)
	require.NotNil(t, got.RespondedAt)

	ok, err = s.Requests().TransitionStatus(ctx, 999, model.RequestStatusPending, model.RequestStatusRejected, nil, later)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequestRepository_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	req := seedRequest(t, s)

	got, err := s.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	got.Status = model.RequestStatusCancelled

	again, err := s.Requests().GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, again.Status)

	missing, err := s.Requests().GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRequestRepository_DeleteCascadesSessions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	req := seedRequest(t, s)
	other := &model.Request{RequesterID: 1, ReceiverID: 2, SkillID: 4, Status: model.RequestStatusAccepted}
	require.NoError(t, s.Requests().Create(ctx, other))

	mine := &model.Session{RequestID: req.ID, TeacherID: 2, LearnerID: 1, Status: model.SessionStatusScheduled}
	kept := &model.Session{RequestID: other.ID, TeacherID: 2, LearnerID: 1, Status: model.SessionStatusScheduled}
	require.NoError(t, s.Sessions().Create(ctx, mine))
	require.NoError(t, s.Sessions().Create(ctx, kept))

	require.NoError(t, s.Requests().Delete(ctx, req.ID))

	exists, err := s.Sessions().Exists(ctx, mine.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = s.Sessions().Exists(ctx, kept.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, s.Requests().Delete(ctx, req.ID))
}

func TestSessionRepository_CreateRequiresRequest(t *testing.T) {
	s := NewStore()
	err := s.Sessions().Create(context.Background(), &model.Session{RequestID: 42})
	assert.Error(t, err)
}

func TestSessionRepository_TransitionAndFeedback(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	req := seedRequest(t, s)
	sess := &model.Session{RequestID: req.ID, TeacherID: 2, LearnerID: 1, Status: model.SessionStatusScheduled}
	require.NoError(t, s.Sessions().Create(ctx, sess))

	from := []model.SessionStatus{model.SessionStatusScheduled, model.SessionStatusActive}
	ok, err := s.Sessions().TransitionStatus(ctx, sess.ID, from, model.SessionStatusCompleted, &t0, t0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Sessions().TransitionStatus(ctx, sess.ID, from, model.SessionStatusCancelled, nil, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Sessions().SaveFeedback(ctx, sess.ID, model.RoleLearner, 5, "thanks", t0))
	assert.Error(t, s.Sessions().SaveFeedback(ctx, sess.ID, model.Role("admin"), 5, "", t0))

	got, err := s.Sessions().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LearnerRating)
	assert.Equal(t, 5, *got.LearnerRating)
	assert.Nil(t, got.TeacherRating)

	*got.LearnerRating = 1
	again, err := s.Sessions().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, *again.LearnerRating)
}

func TestNotificationRepository(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Notifications()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Notification{RecipientID: 1, Title: "t", CreatedAt: t0, Data: map[string]string{}}))
	}
	foreign := &model.Notification{RecipientID: 2, CreatedAt: t0}
	require.NoError(t, repo.Create(ctx, foreign))

	list, err := repo.ListRecent(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID)

	found, err := repo.MarkRead(ctx, foreign.ID, 1)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.MarkRead(ctx, list[0].ID, 1)
	require.NoError(t, err)
	assert.True(t, found)

	unread, err := repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	affected, err := repo.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	unread, err = repo.CountUnread(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestSkillRepository_UserSkills(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Skills()

	us := &model.UserSkill{UserID: 1, SkillID: 2, AddedAt: t0}
	require.NoError(t, repo.AddUserSkill(ctx, us))
	assert.ErrorIs(t, repo.AddUserSkill(ctx, &model.UserSkill{UserID: 1, SkillID: 2}), service.ErrUserSkillExists)

	got, err := repo.GetUserSkill(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, us.ID, got.ID)

	require.NoError(t, repo.DeleteUserSkill(ctx, us.ID))
	exists, err := repo.UserSkillExists(ctx, us.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
