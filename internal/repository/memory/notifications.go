package memory

import (
	"context"

	"github.com/Freeeeeet/skillswap/internal/model"
)

type NotificationRepository struct{ s *Store }

func (r *NotificationRepository) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n.ID = r.s.nextID()
	r.s.notifications[n.ID] = copyNotification(n)
	return nil
}

func (r *NotificationRepository) ListRecent(_ context.Context, recipientID int64, limit int) ([]*model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Notification
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, copyNotification(n))
		}
	}
	newestFirst(out,
		func(x *model.Notification) int64 { return x.CreatedAt.UnixNano() },
		func(x *model.Notification) int64 { return x.ID },
	)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, recipientID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, notif := range r.s.notifications {
		if notif.RecipientID == recipientID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, recipientID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, recipientID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var affected int64
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			affected++
		}
	}
	return affected, nil
}

func copyNotification(n *model.Notification) *model.Notification {
	cp := *n
	cp.Data = make(map[string]string, len(n.Data))
	for k, v := range n.Data {
		cp.Data[k] = v
	}
	return &cp
}
