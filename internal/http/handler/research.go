package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"outreach/internal/content"
)

type Researcher interface {
	Research(ctx context.Context, in content.ResearchInput) (string, error)
}

// ResearchHandler runs investor research. It never mutates the contact row;
// the caller persists research status and data through the contacts API.
type ResearchHandler struct {
	Researcher Researcher
}

func (h *ResearchHandler) Research(w http.ResponseWriter, r *http.Request) {
	if h.Researcher == nil {
		writeError(w, http.StatusServiceUnavailable, "research is not configured")
		return
	}

	var in content.ResearchInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.Researcher.Research(r.Context(), in)
	if err != nil {
		if errors.Is(err, content.ErrNoResearchURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"research": map[string]any{
			"name":         in.Name,
			"company":      in.Company,
			"summary":      summary,
			"generated_at": time.Now().Format(time.RFC3339),
		},
	})
}
