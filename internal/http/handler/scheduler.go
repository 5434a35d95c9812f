package handler

import (
	"net/http"
	"strings"

	"outreach/internal/scheduler"
)

// SchedulerHandler exposes the run-now entrypoint for external cron. When a
// token is configured the caller must present it as a bearer token.
type SchedulerHandler struct {
	Runner *scheduler.Runner
	Token  string
}

func (h *SchedulerHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.Token != "" {
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if got != h.Token {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	res, err := h.Runner.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
