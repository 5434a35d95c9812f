package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"outreach/internal/auth"
	"outreach/internal/profile"
)

type ProfileHandler struct {
	Svc *profile.Service
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	p, err := h.Svc.Get(r.Context(), uid)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": nil})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": p})
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var p profile.CompanyProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if p.Name == "" || p.Description == "" || p.UserName == "" || p.UserPosition == "" {
		writeError(w, http.StatusBadRequest,
			"company name, description, your name, and your position are required")
		return
	}

	saved, err := h.Svc.Save(r.Context(), uid, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": saved})
}
