package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// Resend sends through the Resend transactional email API.
type Resend struct {
	APIKey  string
	From    string
	ReplyTo string

	BaseURL    string
	HTTPClient *http.Client
}

func NewResend(apiKey, from, replyTo string) *Resend {
	return &Resend{
		APIKey:  apiKey,
		From:    from,
		ReplyTo: replyTo,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (r *Resend) Send(ctx context.Context, m Message) (string, error) {
	if !ValidAddress(m.To) {
		return "", ErrInvalidAddress
	}

	payload := resendRequest{
		From:    r.From,
		To:      []string{m.To},
		Subject: m.Subject,
		HTML:    m.HTML,
		ReplyTo: r.ReplyTo,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	base := r.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	var out resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode < 300 {
		return "", fmt.Errorf("resend response decode failed: %w", err)
	}

	if resp.StatusCode >= 300 {
		msg := out.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("resend: %s", msg)
	}
	return out.ID, nil
}
