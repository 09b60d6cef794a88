package service

import (
	"context"

	"github.com/Freeeeeet/skillswap/internal/model"
	"go.uber.org/zap"
)

// Deliverer pushes persisted notifications to external channels.
// Enqueue must not block.
type Deliverer interface {
	Enqueue(n *model.Notification)
}

type NotificationService struct {
	notifRepo   NotificationStore
	requestRepo RequestStore
	sessionRepo SessionStore
	skillRepo   SkillStore
	deliverer   Deliverer
	clock       Clock
	logger      *zap.Logger
}

func NewNotificationService(
	notifRepo NotificationStore,
	requestRepo RequestStore,
	sessionRepo SessionStore,
	skillRepo SkillStore,
	deliverer Deliverer,
	clock Clock,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifRepo:   notifRepo,
		requestRepo: requestRepo,
		sessionRepo: sessionRepo,
		skillRepo:   skillRepo,
		deliverer:   deliverer,
		clock:       clock,
		logger:      logger,
	}
}

// Emit records a notification for recipient. It never fails for the caller:
// storage errors are logged and nil is returned.
func (s *NotificationService) Emit(
	ctx context.Context,
	recipientID int64,
	typ model.NotificationType,
	title, message string,
	related model.Related,
	data map[string]string,
) *model.Notification {
	if data == nil {
		data = map[string]string{}
	}

	n := &model.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		CreatedAt:   s.clock.Now(),
		Related:     related,
		Data:        data,
	}

	if err := s.notifRepo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Int64("recipient_id", recipientID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
		return nil
	}

	s.logger.Debug("Notification created",
		zap.Int64("notification_id", n.ID),
		zap.Int64("recipient_id", recipientID),
		zap.String("type", string(typ)),
	)

	if s.deliverer != nil {
		s.deliverer.Enqueue(n)
	}

	return n
}

// ListRecent returns up to limit newest notifications and the total unread count
func (s *NotificationService) ListRecent(ctx context.Context, recipientID int64, limit int) (*model.NotificationPage, error) {
	const op = "notification.ListRecent"

	if limit <= 0 {
		limit = model.DefaultNotificationLimit
	}

	notifications, err := s.notifRepo.ListRecent(ctx, recipientID, limit)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Int64("recipient_id", recipientID), zap.Error(err))
		return nil, storageError(op, err)
	}

	unread, err := s.notifRepo.CountUnread(ctx, recipientID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", zap.Int64("recipient_id", recipientID), zap.Error(err))
		return nil, storageError(op, err)
	}

	now := s.clock.Now()
	items := make([]model.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, model.NotificationItem{
			Notification:     n,
			Recent:           n.IsRecent(now),
			RelatedAvailable: s.relatedAvailable(ctx, n.Related),
		})
	}

	return &model.NotificationPage{Items: items, UnreadCount: unread}, nil
}

// relatedAvailable resolves the weak reference; lookup failures count as unavailable
func (s *NotificationService) relatedAvailable(ctx context.Context, ref model.Related) bool {
	if ref.IsZero() {
		return false
	}

	var (
		exists bool
		err    error
	)
	switch ref.Kind {
	case model.RelatedRequest:
		exists, err = s.requestRepo.Exists(ctx, ref.ID)
	case model.RelatedSession:
		exists, err = s.sessionRepo.Exists(ctx, ref.ID)
	case model.RelatedUserSkill:
		exists, err = s.skillRepo.UserSkillExists(ctx, ref.ID)
	default:
		return false
	}
	if err != nil {
		s.logger.Warn("Failed to resolve related entity",
			zap.String("kind", string(ref.Kind)),
			zap.Int64("id", ref.ID),
			zap.Error(err),
		)
		return false
	}
	return exists
}

// MarkRead marks one notification of recipient as read.
// Someone else's notification is reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, recipientID int64) error {
	const op = "notification.MarkRead"

	found, err := s.notifRepo.MarkRead(ctx, notificationID, recipientID)
	if err != nil {
		s.logger.Error("Failed to mark notification as read",
			zap.Int64("notification_id", notificationID),
			zap.Error(err),
		)
		return storageError(op, err)
	}
	if !found {
		return notFoundError(op, "Notification not found")
	}
	return nil
}

// MarkAllRead marks every unread notification of recipient and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	const op = "notification.MarkAllRead"

	affected, err := s.notifRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications as read",
			zap.Int64("recipient_id", recipientID),
			zap.Error(err),
		)
		return 0, storageError(op, err)
	}

	s.logger.Info("Notifications marked as read",
		zap.Int64("recipient_id", recipientID),
		zap.Int64("count", affected),
	)
	return affected, nil
}
