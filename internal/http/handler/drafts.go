package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"outreach/internal/auth"
	"outreach/internal/draft"
)

type DraftHandler struct {
	Svc *draft.Service
}

func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": rows})
}

type saveDraftReq struct {
	ContactID uuid.UUID `json:"contact_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req saveDraftReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.ContactID == uuid.Nil || req.Subject == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	d, err := h.Svc.Save(r.Context(), uid, req.ContactID, req.Subject, req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": d})
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	contactID, err := uuid.Parse(r.URL.Query().Get("contact_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "contact ID is required")
		return
	}

	if err := h.Svc.Delete(r.Context(), uid, contactID); err != nil {
		if errors.Is(err, draft.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
