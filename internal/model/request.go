package model

import "time"

// RequestStatus is the lifecycle state of a learning request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "P"
	RequestStatusAccepted  RequestStatus = "A"
	RequestStatusRejected  RequestStatus = "R"
	RequestStatusCancelled RequestStatus = "C"
)

// MaxRequestDescription is the description length limit in characters
const MaxRequestDescription = 500

// Display returns the human-readable status name
func (s RequestStatus) Display() string {
	switch s {
	case RequestStatusPending:
		return "Pending"
	case RequestStatusAccepted:
		return "Accepted"
	case RequestStatusRejected:
		return "Rejected"
	case RequestStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// IsValid checks the value is one of the known statuses
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status blocks a duplicate request
func (s RequestStatus) IsActive() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted
}

// Request is one user's ask to learn a skill from another user
type Request struct {
	ID          int64         `json:"id"`
	RequesterID int64         `json:"requester_id"`
	ReceiverID  int64         `json:"receiver_id"`
	SkillID     int64         `json:"skill_id"`
	Status      RequestStatus `json:"status"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	RespondedAt *time.Time    `json:"responded_at"`
}

// IsPending checks if request is pending
func (r *Request) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsAccepted checks if request is accepted
func (r *Request) IsAccepted() bool {
	return r.Status == RequestStatusAccepted
}

// IsParticipant checks that the user is the requester or the receiver
func (r *Request) IsParticipant(userID int64) bool {
	return r.RequesterID == userID || r.ReceiverID == userID
}

// RequestFilter selects requests for listing. Zero fields are ignored.
type RequestFilter struct {
	RequesterID int64
	ReceiverID  int64
	SkillID     int64
	Statuses    []RequestStatus
}

// RequestSummary holds the counters for the request dashboard
type RequestSummary struct {
	PendingSent      int `json:"pending_sent"`
	PendingReceived  int `json:"pending_received"`
	AcceptedSent     int `json:"accepted_sent"`
	AcceptedReceived int `json:"accepted_received"`
}
