package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLifecycle_ConflictWhileActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := env.pendingRequest(t)
	assert.Equal(t, model.RequestStatusPending, req.Status)
	assert.Nil(t, req.RespondedAt)

	inbox := env.inbox(t, env.teacher.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, model.NotificationRequestSent, inbox[0].Type)
	assert.Equal(t, "New Learning Request", inbox[0].Title)
	assert.Equal(t, model.RequestRef(req.ID), inbox[0].Related)
	assert.True(t, inbox[0].RelatedAvailable)

	_, err := env.requests.Create(ctx, env.learner.ID, env.teacher.ID, env.goSkill.ID, "again")
	requireKind(t, err, service.ErrConflict, "A request for this skill is pending.")

	accepted, err := env.requests.Accept(ctx, req.ID, env.teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)
	assert.Equal(t, env.clock.Now(), *accepted.RespondedAt)

	assert.Equal(t, []model.NotificationType{model.NotificationRequestAccepted}, typesOf(env.inbox(t, env.learner.ID)))

	_, err = env.requests.Create(ctx, env.learner.ID, env.teacher.ID, env.goSkill.ID, "once more")
	requireKind(t, err, service.ErrConflict, "A request for this skill is already accepted.")
}

func TestRequestCreate_AllowedAfterTerminalStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := env.pendingRequest(t)
	_, err := env.requests.Reject(ctx, req.ID, env.teacher.ID, "busy this month")
	require.NoError(t, err)

	again, err := env.requests.Create(ctx, env.learner.ID, env.teacher.ID, env.goSkill.ID, "maybe now?")
	require.NoError(t, err)
	assert.NotEqual(t, req.ID, again.ID)

	// Обратное направление - другая тройка
	_, err = env.requests.Create(ctx, env.teacher.ID, env.learner.ID, env.goSkill.ID, "swap roles")
	require.NoError(t, err)
}

func TestRequestCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name        string
		requesterID int64
		receiverID  int64
		skillID     int64
		description string
		kind        error
		message     string
	}{
		{"blank description", env.learner.ID, env.teacher.ID, env.goSkill.ID, "   ", service.ErrValidation, "All fields are required."},
		{"missing skill", env.learner.ID, env.teacher.ID, 0, "hi", service.ErrValidation, "All fields are required."},
		{"too long", env.learner.ID, env.teacher.ID, env.goSkill.ID, strings.Repeat("a", model.MaxRequestDescription+1), service.ErrValidation, ""},
		{"self request", env.learner.ID, env.learner.ID, env.goSkill.ID, "hi", service.ErrValidation, "You cannot send a request to yourself."},
		{"unknown receiver", env.learner.ID, 999, env.goSkill.ID, "hi", service.ErrValidation, ""},
		{"unknown skill", env.learner.ID, env.teacher.ID, 999, "hi", service.ErrValidation, ""},
		{"unknown requester", 999, env.teacher.ID, env.goSkill.ID, "hi", service.ErrNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.requests.Create(context.Background(), tt.requesterID, tt.receiverID, tt.skillID, tt.description)
			requireKind(t, err, tt.kind, tt.message)
		})
	}

	assert.Empty(t, env.inbox(t, env.teacher.ID))
}

func TestRequestCreate_MaxLengthDescription(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.requests.Create(context.Background(), env.learner.ID, env.teacher.ID, env.goSkill.ID,
		strings.Repeat("я", model.MaxRequestDescription))
	require.NoError(t, err)
}

func TestRequestAccept_Authorization(t *testing.T) {
	env := newTestEnv(t)
	req := env.pendingRequest(t)

	for _, actor := range []*model.User{env.learner, env.outsider} {
		_, err := env.requests.Accept(context.Background(), req.ID, actor.ID)
		requireKind(t, err, service.ErrForbidden, "")
	}

	_, err := env.requests.Accept(context.Background(), 12345, env.teacher.ID)
	requireKind(t, err, service.ErrNotFound, "")
}

func TestRequestAccept_AlreadyProcessed(t *testing.T) {
	env := newTestEnv(t)
	req := env.acceptedRequest(t)

	_, err := env.requests.Accept(context.Background(), req.ID, env.teacher.ID)
	requireKind(t, err, service.ErrInvalidState, "This request has already been processed.")

	_, err = env.requests.Reject(context.Background(), req.ID, env.teacher.ID, "changed my mind")
	requireKind(t, err, service.ErrInvalidState, "This request has already been processed.")
}

func TestRequestAccept_ConcurrentOnlyOneWins(t *testing.T) {
	env := newTestEnv(t)
	req := env.pendingRequest(t)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = env.requests.Accept(context.Background(), req.ID, env.teacher.ID)
			} else {
				_, err = env.requests.Reject(context.Background(), req.ID, env.teacher.ID, "no")
			}
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, service.ErrInvalidState) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, env.inbox(t, env.learner.ID), 1)
}

func TestRequestReject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.pendingRequest(t)

	_, err := env.requests.Reject(ctx, req.ID, env.teacher.ID, "  ")
	requireKind(t, err, service.ErrValidation, "Please provide a reason for rejection.")

	rejected, err := env.requests.Reject(ctx, req.ID, env.teacher.ID, "Fully booked")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, rejected.Status)
	assert.NotNil(t, rejected.RespondedAt)

	inbox := env.inbox(t, env.learner.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, model.NotificationRequestRejected, inbox[0].Type)
	assert.Equal(t, "Fully booked", inbox[0].Data["reason"])
	assert.Contains(t, inbox[0].Message, "Reason: Fully booked")
}

func TestRequestCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := env.pendingRequest(t)

	_, err := env.requests.Cancel(ctx, req.ID, env.teacher.ID, "not the requester")
	requireKind(t, err, service.ErrForbidden, "")

	_, err = env.requests.Cancel(ctx, req.ID, env.learner.ID, "")
	requireKind(t, err, service.ErrValidation, "Please provide a reason for cancellation.")

	cancelled, err := env.requests.Cancel(ctx, req.ID, env.learner.ID, "found another teacher")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.RespondedAt)

	stored, err := env.requests.Get(ctx, req.ID, env.learner.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RespondedAt)

	types := typesOf(env.inbox(t, env.teacher.ID))
	assert.Equal(t, []model.NotificationType{model.NotificationRequestCancelled, model.NotificationRequestSent}, types)

	_, err = env.requests.Cancel(ctx, req.ID, env.learner.ID, "again")
	requireKind(t, err, service.ErrInvalidState, "Only pending requests can be cancelled.")
}

func TestRequestDelete_CascadesAndLeavesDanglingNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	session := env.scheduledSession(t)

	err := env.requests.Delete(ctx, session.RequestID, env.outsider.ID)
	requireKind(t, err, service.ErrForbidden, "")

	require.NoError(t, env.requests.Delete(ctx, session.RequestID, env.learner.ID))

	_, err = env.requests.Get(ctx, session.RequestID, env.learner.ID)
	requireKind(t, err, service.ErrNotFound, "")
	_, err = env.sessions.Get(ctx, session.ID, env.learner.ID)
	requireKind(t, err, service.ErrNotFound, "")

	// Уведомления остаются, ссылки становятся недоступными
	inbox := env.inbox(t, env.teacher.ID)
	require.NotEmpty(t, inbox)
	for _, item := range inbox {
		assert.False(t, item.RelatedAvailable, "notification %s", item.Type)
	}
}

func TestRequestLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.pendingRequest(t)
	_, err := env.requests.Accept(ctx, first.ID, env.teacher.ID)
	require.NoError(t, err)

	env.clock.Advance(1)
	other := env.store.AddSkill(&model.Skill{Name: "SQL"})
	second, err := env.requests.Create(ctx, env.learner.ID, env.teacher.ID, other.ID, "joins please")
	require.NoError(t, err)

	sent, err := env.requests.ListSent(ctx, env.learner.ID, "")
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, second.ID, sent[0].ID)

	pending, err := env.requests.ListReceived(ctx, env.teacher.ID, model.RequestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	_, err = env.requests.ListReceived(ctx, env.teacher.ID, "X")
	requireKind(t, err, service.ErrValidation, "")

	summary, err := env.requests.Summary(ctx, env.teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestSummary{PendingReceived: 1, AcceptedReceived: 1}, *summary)

	summary, err = env.requests.Summary(ctx, env.learner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestSummary{PendingSent: 1, AcceptedSent: 1}, *summary)
}
