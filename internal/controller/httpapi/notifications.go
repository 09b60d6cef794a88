package httpapi

import (
	"net/http"
	"strconv"
)

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail(w, http.StatusBadRequest, "limit must be a non-negative integer.")
			return
		}
		limit = n
	}

	page, err := h.notifications.ListRecent(r.Context(), userID(r), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "", page)
}

func (h *Handlers) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Notification not found")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), id, userID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Notification marked as read", nil)
}

func (h *Handlers) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	affected, err := h.notifications.MarkAllRead(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "All notifications marked as read", map[string]int64{"marked": affected})
}
