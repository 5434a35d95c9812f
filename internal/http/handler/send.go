package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"outreach/internal/auth"
	"outreach/internal/history"
	"outreach/internal/mailer"
)

type SendHandler struct {
	Sender  mailer.Sender
	History *history.Service
}

type sendEmailReq struct {
	To          string     `json:"to"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	ContactID   *uuid.UUID `json:"contact_id"`
	ContactName string     `json:"contact_name"`
	CompanyName string     `json:"company_name"`
}

func (h *SendHandler) Send(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req sendEmailReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.To == "" || req.Subject == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	// validated before the provider is ever called
	if !mailer.ValidAddress(req.To) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	footer := "Sent via Investor Outreach"
	if req.CompanyName != "" {
		footer = "Sent from " + req.CompanyName + " via Investor Outreach"
	}

	msgID, sendErr := h.Sender.Send(r.Context(), mailer.Message{
		To:      req.To,
		Subject: req.Subject,
		HTML:    mailer.BuildHTML(req.Body, footer),
	})

	entry := history.Entry{
		UserID:      uid,
		ContactID:   req.ContactID,
		To:          req.To,
		ContactName: req.ContactName,
		Subject:     req.Subject,
		Body:        req.Body,
		Status:      "sent",
		MessageID:   msgID,
		SentAt:      time.Now(),
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.MessageID = ""
	}
	if err := h.History.Append(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if sendErr != nil {
		writeError(w, http.StatusInternalServerError, sendErr.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message_id": msgID,
		"sent_at":    entry.SentAt.Format(time.RFC3339),
	})
}
