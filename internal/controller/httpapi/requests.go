package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Freeeeeet/skillswap/internal/model"
)

type createRequestBody struct {
	ReceiverID  int64  `json:"receiver_id"`
	SkillID     int64  `json:"skill_id"`
	Description string `json:"description"`
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func (h *Handlers) createRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := decode(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req, err := h.requests.Create(r.Context(), userID(r), body.ReceiverID, body.SkillID, body.Description)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created(w, fmt.Sprintf("Request sent successfully to %s!", h.userName(r, req.ReceiverID)), req)
}

func (h *Handlers) listRequests(w http.ResponseWriter, r *http.Request) {
	status := model.RequestStatus(r.URL.Query().Get("status"))

	var (
		list []*model.Request
		err  error
	)
	switch r.URL.Query().Get("box") {
	case "", "received":
		list, err = h.requests.ListReceived(r.Context(), userID(r), status)
	case "sent":
		list, err = h.requests.ListSent(r.Context(), userID(r), status)
	default:
		fail(w, http.StatusBadRequest, "box must be sent or received.")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if list == nil {
		list = []*model.Request{}
	}
	ok(w, "", list)
}

func (h *Handlers) requestSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.requests.Summary(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "", summary)
}

func (h *Handlers) getRequest(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Request not found.")
		return
	}

	req, err := h.requests.Get(r.Context(), id, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "", req)
}

func (h *Handlers) acceptRequest(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Request not found.")
		return
	}

	req, err := h.requests.Accept(r.Context(), id, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, fmt.Sprintf("Request from %s accepted successfully!", h.userName(r, req.RequesterID)), req)
}

func (h *Handlers) rejectRequest(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Request not found.")
		return
	}

	var body reasonBody
	if err := decode(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req, err := h.requests.Reject(r.Context(), id, userID(r), body.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, fmt.Sprintf("Request from %s rejected.", h.userName(r, req.RequesterID)), req)
}

func (h *Handlers) cancelRequest(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Request not found.")
		return
	}

	var body reasonBody
	if err := decode(r, &body); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req, err := h.requests.Cancel(r.Context(), id, userID(r), body.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Request cancelled successfully!", req)
}

func (h *Handlers) deleteRequest(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Request not found.")
		return
	}

	if err := h.requests.Delete(r.Context(), id, userID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Request deleted successfully!", nil)
}

// userName is used only for success messages, a lookup failure is not an error
func (h *Handlers) userName(r *http.Request, id int64) string {
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		return "user"
	}
	return u.FullName()
}

