package model

import "time"

type NotificationType string

const (
	NotificationRequestSent      NotificationType = "request_sent"
	NotificationRequestAccepted  NotificationType = "request_accepted"
	NotificationRequestRejected  NotificationType = "request_rejected"
	NotificationRequestCancelled NotificationType = "request_cancelled"
	NotificationSessionCreated   NotificationType = "session_created"
	NotificationSessionStarted   NotificationType = "session_started"
	NotificationSessionCompleted NotificationType = "session_completed"
	NotificationSessionCancelled NotificationType = "session_cancelled"
	NotificationSkillAdded       NotificationType = "skill_added"
	NotificationSkillRemoved     NotificationType = "skill_removed"
)

// DefaultNotificationLimit is the page size of the notification list
const DefaultNotificationLimit = 20

// RecentWindow defines what counts as a recent notification
const RecentWindow = 24 * time.Hour

// RelatedKind tags the entity a notification points to
type RelatedKind string

const (
	RelatedNone      RelatedKind = ""
	RelatedRequest   RelatedKind = "request"
	RelatedSession   RelatedKind = "session"
	RelatedUserSkill RelatedKind = "user_skill"
)

// Related is a weak reference to the entity that caused a notification.
// The entity may be deleted later; the notification keeps the dangling id.
type Related struct {
	Kind RelatedKind `json:"kind,omitempty"`
	ID   int64       `json:"id,omitempty"`
}

// IsZero reports whether the reference is empty
func (r Related) IsZero() bool {
	return r.Kind == RelatedNone || r.ID == 0
}

func RequestRef(id int64) Related   { return Related{Kind: RelatedRequest, ID: id} }
func SessionRef(id int64) Related   { return Related{Kind: RelatedSession, ID: id} }
func UserSkillRef(id int64) Related { return Related{Kind: RelatedUserSkill, ID: id} }

type Notification struct {
	ID          int64             `json:"id"`
	RecipientID int64             `json:"recipient_id"`
	Type        NotificationType  `json:"notification_type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	IsRead      bool              `json:"is_read"`
	CreatedAt   time.Time         `json:"created_at"`
	Related     Related           `json:"related"`
	Data        map[string]string `json:"data"`
}

// IsRecent checks if notification was created within RecentWindow of now
func (n *Notification) IsRecent(now time.Time) bool {
	return !n.CreatedAt.Before(now.Add(-RecentWindow))
}

// NotificationItem is a notification prepared for display
type NotificationItem struct {
	*Notification
	Recent           bool `json:"is_recent"`
	RelatedAvailable bool `json:"related_available"`
}

// NotificationPage is the result of a recent-notifications query
type NotificationPage struct {
	Items       []NotificationItem `json:"notifications"`
	UnreadCount int                `json:"unread_count"`
}
