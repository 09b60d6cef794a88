package model

import "time"

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "P"
	SessionStatusScheduled SessionStatus = "S"
	SessionStatusActive    SessionStatus = "A"
	SessionStatusCompleted SessionStatus = "C"
	SessionStatusCancelled SessionStatus = "CA"
)

// Display returns the human-readable status name
func (s SessionStatus) Display() string {
	switch s {
	case SessionStatusPending:
		return "Pending"
	case SessionStatusScheduled:
		return "Scheduled"
	case SessionStatusActive:
		return "Active"
	case SessionStatusCompleted:
		return "Completed"
	case SessionStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// IsValid checks the value is one of the known statuses
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusPending, SessionStatusScheduled, SessionStatusActive,
		SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

type SessionType string

const (
	SessionTypeOnline   SessionType = "O"
	SessionTypeInPerson SessionType = "I"
	SessionTypeHybrid   SessionType = "H"
)

// Display returns the human-readable type name
func (t SessionType) Display() string {
	switch t {
	case SessionTypeOnline:
		return "Online"
	case SessionTypeInPerson:
		return "In-Person"
	case SessionTypeHybrid:
		return "Hybrid"
	default:
		return string(t)
	}
}

// IsValid checks the value is one of the known session types
func (t SessionType) IsValid() bool {
	return t == SessionTypeOnline || t == SessionTypeInPerson || t == SessionTypeHybrid
}

const (
	DefaultSessionDuration = 60 // минут
	MaxSessionTitle        = 200
	MaxSessionDescription  = 1000
	MaxSessionLocation     = 300
	MaxFeedback            = 500
	MinRating              = 1
	MaxRating              = 5
)

// Role identifies which side of a session a participant is on
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleLearner Role = "learner"
)

// Session is one teaching engagement derived from an accepted request
type Session struct {
	ID              int64         `json:"id"`
	RequestID       int64         `json:"request_id"`
	TeacherID       int64         `json:"teacher_id"`
	LearnerID       int64         `json:"learner_id"`
	SkillID         int64         `json:"skill_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	SessionType     SessionType   `json:"session_type"`
	Location        string        `json:"location"`
	ScheduledDate   time.Time     `json:"scheduled_date"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	CompletedAt     *time.Time    `json:"completed_at"`

	TeacherRating   *int   `json:"teacher_rating"`
	TeacherFeedback string `json:"teacher_feedback"`
	LearnerRating   *int   `json:"learner_rating"`
	LearnerFeedback string `json:"learner_feedback"`
}

// RoleOf returns the role of the user in the session, ok is false for outsiders
func (s *Session) RoleOf(userID int64) (Role, bool) {
	switch userID {
	case s.TeacherID:
		return RoleTeacher, true
	case s.LearnerID:
		return RoleLearner, true
	default:
		return "", false
	}
}

// Counterpart returns the id of the other participant
func (s *Session) Counterpart(userID int64) int64 {
	if userID == s.TeacherID {
		return s.LearnerID
	}
	return s.TeacherID
}

// SessionFilter selects sessions for listing. Zero fields are ignored.
type SessionFilter struct {
	TeacherID int64
	LearnerID int64
	RequestID int64
	Statuses  []SessionStatus
}

// SessionSummary holds the counters for the session dashboard
type SessionSummary struct {
	ScheduledTeaching int `json:"scheduled_teaching"`
	ScheduledLearning int `json:"scheduled_learning"`
	CompletedTeaching int `json:"completed_teaching"`
	CompletedLearning int `json:"completed_learning"`
}
