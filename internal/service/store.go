package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
)

// ErrActiveRequestExists is returned by RequestStore.Create when the
// (requester, receiver, skill) triple already has a pending or accepted request.
var ErrActiveRequestExists = errors.New("active request already exists")

// ErrUserSkillExists is returned by SkillStore.AddUserSkill for a duplicate link
var ErrUserSkillExists = errors.New("user skill already exists")

// Lookups return (nil, nil) when the row does not exist.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type SkillStore interface {
	GetByID(ctx context.Context, id int64) (*model.Skill, error)
	GetUserSkill(ctx context.Context, userID, skillID int64) (*model.UserSkill, error)
	AddUserSkill(ctx context.Context, us *model.UserSkill) error
	DeleteUserSkill(ctx context.Context, id int64) error
	UserSkillExists(ctx context.Context, id int64) (bool, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *model.Request) error
	GetByID(ctx context.Context, id int64) (*model.Request, error)
	FindActive(ctx context.Context, requesterID, receiverID, skillID int64) (*model.Request, error)
	List(ctx context.Context, filter model.RequestFilter) ([]*model.Request, error)
	Count(ctx context.Context, filter model.RequestFilter) (int, error)
	// TransitionStatus moves the request from `from` to `to` only if its status
	// still equals `from`. It reports whether the row was updated.
	TransitionStatus(ctx context.Context, id int64, from, to model.RequestStatus, respondedAt *time.Time, now time.Time) (bool, error)
	// Delete removes the request together with its sessions
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	List(ctx context.Context, filter model.SessionFilter) ([]*model.Session, error)
	Count(ctx context.Context, filter model.SessionFilter) (int, error)
	// TransitionStatus moves the session to `to` only if its status is one of `from`
	TransitionStatus(ctx context.Context, id int64, from []model.SessionStatus, to model.SessionStatus, completedAt *time.Time, now time.Time) (bool, error)
	SaveFeedback(ctx context.Context, id int64, role model.Role, rating int, feedback string, now time.Time) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListRecent(ctx context.Context, recipientID int64, limit int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)
	// MarkRead reports false when no notification with id belongs to recipientID
	MarkRead(ctx context.Context, id, recipientID int64) (bool, error)
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

// Clock is injected into services so tests control "now"
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
