package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет уведомление
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, notification_type, title, message, is_read, created_at,
			related_kind, related_id, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8::BIGINT, 0), $9)
		RETURNING id
	`

	data := n.Data
	if data == nil {
		data = map[string]string{}
	}

	err := r.QueryRow(
		ctx, query,
		n.RecipientID,
		string(n.Type),
		n.Title,
		n.Message,
		n.IsRead,
		n.CreatedAt,
		string(n.Related.Kind),
		n.Related.ID,
		data,
	).Scan(&n.ID)

	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListRecent получает последние уведомления получателя
func (r *NotificationRepository) ListRecent(ctx context.Context, recipientID int64, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, recipient_id, notification_type, title, message, is_read, created_at,
			related_kind, COALESCE(related_id, 0), data
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var (
			n    model.Notification
			typ  string
			kind string
		)
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&typ,
			&n.Title,
			&n.Message,
			&n.IsRead,
			&n.CreatedAt,
			&kind,
			&n.Related.ID,
			&n.Data,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = model.NotificationType(typ)
		n.Related.Kind = model.RelatedKind(kind)
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// CountUnread подсчитывает все непрочитанные уведомления
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var count int
	err := r.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead отмечает уведомление прочитанным; false если оно не принадлежит получателю
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64) (bool, error) {
	affected, err := r.ExecAffected(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}

	return affected > 0, nil
}

// MarkAllRead отмечает все непрочитанные уведомления получателя
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	affected, err := r.ExecAffected(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return affected, nil
}
