package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/service"
)

type createSessionBody struct {
	RequestID       int64  `json:"request_id"`
	Title           string `json:"title"`
	SessionType     string `json:"session_type"`
	Location        string `json:"location"`
	ScheduledDate   string `json:"scheduled_date"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
}

type feedbackBody struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// scheduledLayouts are accepted formats of scheduled_date, RFC 3339 first
var scheduledLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

func parseScheduled(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, true
	}
	for _, layout := range scheduledLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionBody
	if err := decode(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	scheduled, valid := parseScheduled(body.ScheduledDate)
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid scheduled date.")
		return
	}

	session, err := h.sessions.Create(r.Context(), userID(r), service.CreateSessionInput{
		RequestID:       body.RequestID,
		Title:           body.Title,
		SessionType:     model.SessionType(body.SessionType),
		Location:        body.Location,
		ScheduledDate:   scheduled,
		DurationMinutes: body.DurationMinutes,
		Description:     body.Description,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created(w, "Session created successfully!", session)
}

func (h *Handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	status := model.SessionStatus(r.URL.Query().Get("status"))

	var (
		list []*model.Session
		err  error
	)
	switch r.URL.Query().Get("role") {
	case "", "teaching":
		list, err = h.sessions.ListTeaching(r.Context(), userID(r), status)
	case "learning":
		list, err = h.sessions.ListLearning(r.Context(), userID(r), status)
	default:
		fail(w, http.StatusBadRequest, "role must be teaching or learning.")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if list == nil {
		list = []*model.Session{}
	}
	ok(w, "", list)
}

func (h *Handlers) sessionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sessions.Summary(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "", summary)
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Session not found.")
		return
	}

	session, err := h.sessions.Get(r.Context(), id, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "", session)
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Session not found.")
		return
	}

	session, err := h.sessions.Start(r.Context(), id, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Session started successfully!", session)
}

func (h *Handlers) completeSession(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Session not found.")
		return
	}

	session, err := h.sessions.Complete(r.Context(), id, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Session marked as completed!", session)
}

func (h *Handlers) cancelSession(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Session not found.")
		return
	}

	var body reasonBody
	if err := decode(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := h.sessions.Cancel(r.Context(), id, userID(r), body.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Session cancelled successfully!", session)
}

func (h *Handlers) sessionFeedback(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Session not found.")
		return
	}

	var body feedbackBody
	if err := decode(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := h.sessions.SubmitFeedback(r.Context(), id, userID(r), body.Rating, body.Feedback)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Feedback submitted successfully!", session)
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Session not found.")
		return
	}

	if err := h.sessions.Delete(r.Context(), id, userID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Session deleted successfully!", nil)
}
