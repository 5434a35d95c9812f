package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"outreach/internal/auth"
	"outreach/internal/contact"
)

type ContactHandler struct {
	Svc *contact.Service
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.List(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Create accepts a single contact object or an array of them. Contacts whose
// email already exists for the user are skipped, not duplicated.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}

	var in []contact.NewContact
	if err := json.Unmarshal(body, &in); err != nil {
		var one contact.NewContact
		if err := json.Unmarshal(body, &one); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		in = []contact.NewContact{one}
	}

	for _, nc := range in {
		if nc.Name == "" || nc.Email == "" {
			writeError(w, http.StatusBadRequest, "name and email are required")
			return
		}
	}

	rows, skipped, err := h.Svc.Create(r.Context(), uid, in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"contacts": rows,
		"skipped":  skipped,
	})
}

// Import ingests a CSV upload (multipart field "file", or the raw body).
func (h *ContactHandler) Import(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var src io.Reader = r.Body
	if f, _, err := r.FormFile("file"); err == nil {
		defer f.Close()
		src = f
	}

	parsed, invalid, err := contact.ParseCSV(src)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid csv: "+err.Error())
		return
	}

	rows, dupes, err := h.Svc.Create(r.Context(), uid, parsed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": len(rows),
		"skipped":  invalid + dupes,
		"contacts": rows,
	})
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var up contact.Update
	if err := json.NewDecoder(r.Body).Decode(&up); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	c, err := h.Svc.Apply(r.Context(), uid, id, up)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Svc.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
