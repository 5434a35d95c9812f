package handler

import (
	"encoding/json"
	"net/http"

	"outreach/internal/auth"
	"outreach/internal/history"
)

type HistoryHandler struct {
	Svc *history.Service
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"emails":  rows,
	})
}

func (h *HistoryHandler) Append(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var e history.Entry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if e.To == "" || e.Subject == "" {
		writeError(w, http.StatusBadRequest, "to and subject are required")
		return
	}
	if e.Status == "" {
		e.Status = "sent"
	}
	e.UserID = uid

	if err := h.Svc.Append(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "record": e})
}
