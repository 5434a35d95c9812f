package content

import (
	"context"
	"errors"
)

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
)

var toneInstructions = map[Tone]string{
	ToneProfessional: "Use a formal, professional tone appropriate for investor outreach.",
	ToneCasual:       "Use a friendly but professional tone that feels approachable.",
	ToneFriendly:     "Use a warm, personable tone while maintaining professionalism.",
	ToneFormal:       "Use a very formal, business-appropriate tone for serious investor outreach.",
}

// ToneInstruction returns the prompt fragment for a tone, defaulting to
// professional for unknown values.
func ToneInstruction(t Tone) string {
	if s, ok := toneInstructions[t]; ok {
		return s
	}
	return toneInstructions[ToneProfessional]
}

// EmailInput carries everything a generator needs to produce one email.
type EmailInput struct {
	EmailType string
	Tone      Tone

	ContactName    string
	ContactCompany string
	ContactTitle   string
	InvestorFocus  string

	CompanyName        string
	CompanyDescription string
	FundingStage       string
	SenderName         string
	SenderPosition     string

	ResearchSummary string
}

type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Generator produces a subject and body for one outreach email. The scheduler
// uses the template-backed implementation; the compose endpoints use Gemini.
type Generator interface {
	Email(ctx context.Context, in EmailInput) (Email, error)
}

// ResearchInput describes a contact to research. At least one URL is required.
type ResearchInput struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	LinkedInURL string `json:"linkedin_url"`
	TwitterURL  string `json:"twitter_url"`
	WebsiteURL  string `json:"website_url"`
}

var ErrNoResearchURL = errors.New("at least one URL (LinkedIn, Twitter, or Website) is required for research")

func (in ResearchInput) Validate() error {
	if in.LinkedInURL == "" && in.TwitterURL == "" && in.WebsiteURL == "" {
		return ErrNoResearchURL
	}
	return nil
}
