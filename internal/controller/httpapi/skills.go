package httpapi

import "net/http"

func (h *Handlers) addSkill(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Skill not found.")
		return
	}

	us, err := h.skills.AddToProfile(r.Context(), userID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created(w, "Skill added to your profile!", us)
}

func (h *Handlers) removeSkill(w http.ResponseWriter, r *http.Request) {
	id, valid := pathID(r)
	if !valid {
		fail(w, http.StatusNotFound, "Skill not found.")
		return
	}

	if err := h.skills.RemoveFromProfile(r.Context(), userID(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	ok(w, "Skill removed from your profile!", nil)
}
