package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"outreach/internal/auth"
	"outreach/internal/campaign"
)

// ScheduleService is the slice of the campaign service the schedule routes use.
type ScheduleService interface {
	ListSchedules(ctx context.Context, userID uuid.UUID, f campaign.ScheduleFilter) ([]campaign.ScheduleWithContact, error)
	CreateSchedule(ctx context.Context, userID uuid.UUID, in campaign.NewSchedule) (*campaign.Schedule, error)
	UpdateSchedule(ctx context.Context, userID, id uuid.UUID, up campaign.ScheduleUpdate) (*campaign.Schedule, error)
	DeleteSchedule(ctx context.Context, userID, id uuid.UUID) error
}

type ScheduleHandler struct {
	Svc ScheduleService
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var f campaign.ScheduleFilter
	if v := strings.TrimSpace(r.URL.Query().Get("campaign_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid campaign_id")
			return
		}
		f.CampaignID = &id
	}
	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		st := campaign.ScheduleStatus(v)
		f.Status = &st
	}
	if strings.EqualFold(r.URL.Query().Get("due"), "true") {
		f.DueOnly = true
	}

	rows, err := h.Svc.ListSchedules(r.Context(), uid, f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var in campaign.NewSchedule
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if in.CampaignID == uuid.Nil || in.ContactID == uuid.Nil || in.EmailType == "" || in.ScheduledFor.IsZero() {
		writeError(w, http.StatusBadRequest, "campaign ID, contact ID, email type, and scheduled time are required")
		return
	}

	row, err := h.Svc.CreateSchedule(r.Context(), uid, in)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			writeError(w, http.StatusNotFound, "campaign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var up campaign.ScheduleUpdate
	if err := json.NewDecoder(r.Body).Decode(&up); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	row, err := h.Svc.UpdateSchedule(r.Context(), uid, id, up)
	if err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Svc.DeleteSchedule(r.Context(), uid, id); err != nil {
		if errors.Is(err, campaign.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
