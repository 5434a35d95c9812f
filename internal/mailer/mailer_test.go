package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAddress(t *testing.T) {
	cases := []struct {
		addr string
		ok   bool
	}{
		{"jane@example.com", true},
		{"jane.doe+tag@sub.example.co", true},
		{"", false},
		{"jane", false},
		{"jane@example", false},
		{"jane @example.com", false},
		{"jane@exa mple.com", false},
		{"@example.com", false},
		{"jane@", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, ValidAddress(tc.addr), tc.addr)
	}
}

func TestBuildHTML(t *testing.T) {
	out := BuildHTML("Hello <Jane>,\nSecond line", "Sent via Investor Outreach Campaign")

	assert.Contains(t, out, "Hello &lt;Jane&gt;,")
	assert.Contains(t, out, "<p style=\"margin-bottom: 16px;\">Second line</p>")
	assert.Contains(t, out, "Sent via Investor Outreach Campaign")
	// footer renders under the divider block
	assert.Contains(t, out, "border-top: 1px solid #eee")
}

func TestBuildHTMLNoFooter(t *testing.T) {
	out := BuildHTML("Hi")
	assert.NotContains(t, out, "border-top")
}

func TestResendSend(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "/emails", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(resendResponse{ID: "msg_123"})
	}))
	defer srv.Close()

	s := NewResend("key", "Acme <noreply@acme.dev>", "founder@acme.dev")
	s.BaseURL = srv.URL

	id, err := s.Send(context.Background(), Message{To: "jane@x.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	assert.Equal(t, "Bearer key", auth)
	assert.Equal(t, []string{"jane@x.com"}, got.To)
	assert.Equal(t, "Acme <noreply@acme.dev>", got.From)
	assert.Equal(t, "founder@acme.dev", got.ReplyTo)
}

func TestResendSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(resendResponse{Message: "invalid from address"})
	}))
	defer srv.Close()

	s := NewResend("key", "bad", "")
	s.BaseURL = srv.URL

	_, err := s.Send(context.Background(), Message{To: "jane@x.com", Subject: "Hi", HTML: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")
}

func TestResendSendRejectsBadAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called for an invalid address")
	}))
	defer srv.Close()

	s := NewResend("key", "Acme <noreply@acme.dev>", "")
	s.BaseURL = srv.URL

	_, err := s.Send(context.Background(), Message{To: "not-an-email", Subject: "Hi", HTML: "x"})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
