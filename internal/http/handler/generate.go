package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"outreach/internal/content"
)

// EmailGenerator is satisfied by both the Gemini and template generators.
type EmailGenerator interface {
	Email(ctx context.Context, in content.EmailInput) (content.Email, error)
	Subject(ctx context.Context, in content.EmailInput) (string, error)
}

type GenerateHandler struct {
	Gen EmailGenerator
}

type generateEmailReq struct {
	ContactName        string       `json:"contact_name"`
	ContactCompany     string       `json:"contact_company"`
	ContactPosition    string       `json:"contact_position"`
	InvestorFocus      string       `json:"investor_focus"`
	CompanyName        string       `json:"company_name"`
	CompanyDescription string       `json:"company_description"`
	FundingStage       string       `json:"funding_stage"`
	UserName           string       `json:"user_name"`
	UserPosition       string       `json:"user_position"`
	ResearchSummary    string       `json:"research_summary"`
	Tone               content.Tone `json:"tone"`
}

func (r generateEmailReq) input() content.EmailInput {
	tone := r.Tone
	if tone == "" {
		tone = content.ToneProfessional
	}
	return content.EmailInput{
		Tone:               tone,
		ContactName:        r.ContactName,
		ContactCompany:     r.ContactCompany,
		ContactTitle:       r.ContactPosition,
		InvestorFocus:      r.InvestorFocus,
		CompanyName:        r.CompanyName,
		CompanyDescription: r.CompanyDescription,
		FundingStage:       r.FundingStage,
		SenderName:         r.UserName,
		SenderPosition:     r.UserPosition,
		ResearchSummary:    r.ResearchSummary,
	}
}

func (h *GenerateHandler) Email(w http.ResponseWriter, r *http.Request) {
	var req generateEmailReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.ContactName == "" || req.CompanyName == "" || req.CompanyDescription == "" ||
		req.UserName == "" || req.UserPosition == "" {
		writeError(w, http.StatusBadRequest,
			"contact name, company name, description, user name, and user position are required")
		return
	}

	email, err := h.Gen.Email(r.Context(), req.input())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"email": map[string]any{
			"subject":      email.Subject,
			"body":         email.Body,
			"generated_at": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *GenerateHandler) Subject(w http.ResponseWriter, r *http.Request) {
	var req generateEmailReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.ContactName == "" || req.CompanyName == "" {
		writeError(w, http.StatusBadRequest, "contact name and company name are required")
		return
	}

	subject, err := h.Gen.Subject(r.Context(), req.input())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"subject": subject,
	})
}
