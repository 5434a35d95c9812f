package content

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini generates email content and research summaries via the Gemini API.
// Subject and body come from two independent completions, matching the shape
// of the compose flow.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Email(ctx context.Context, in EmailInput) (Email, error) {
	subject, err := g.Subject(ctx, in)
	if err != nil {
		return Email{}, err
	}

	body, err := g.generate(ctx, bodyPrompt(in), nil)
	if err != nil {
		return Email{}, err
	}

	return Email{Subject: subject, Body: strings.TrimSpace(body)}, nil
}

// Subject generates only the subject line.
func (g *Gemini) Subject(ctx context.Context, in EmailInput) (string, error) {
	out, err := g.generate(ctx, subjectPrompt(in), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Research synthesizes an investor summary from the given profile links,
// grounding the model with Google Search when available. It does not touch the
// contact row; callers persist the result.
func (g *Gemini) Research(ctx context.Context, in ResearchInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	var lines []string
	if in.Name != "" {
		lines = append(lines, "Name: "+in.Name)
	}
	if in.Company != "" {
		lines = append(lines, "Company: "+in.Company)
	}
	if in.LinkedInURL != "" {
		lines = append(lines, "LinkedIn: "+in.LinkedInURL)
	}
	if in.TwitterURL != "" {
		lines = append(lines, "Twitter: "+in.TwitterURL)
	}
	if in.WebsiteURL != "" {
		lines = append(lines, "Website: "+in.WebsiteURL)
	}

	prompt := fmt.Sprintf(`Research and provide a comprehensive professional summary about this investor based on the following information:

%s

Provide detailed insights about:
1. Their investment focus areas and sectors of interest
2. Recent investments or portfolio companies
3. Key interests, specialties, and expertise
4. Notable achievements and background
5. Investment philosophy and approach

Structure your response with clear sections and be specific about recent activity when possible.`,
		strings.Join(lines, "\n"))

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	out, err := g.generate(ctx, prompt, cfg)
	if err != nil {
		// search grounding is best-effort; retry plain
		out, err = g.generate(ctx, prompt, nil)
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(out), nil
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *Gemini) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

func subjectPrompt(in EmailInput) string {
	return fmt.Sprintf(`Generate a compelling subject line for an email to %s at %s.

Context:
- Our company: %s (%s)
- From: %s, %s at %s
- Funding stage: %s
- Investor focus: %s

Requirements:
- Keep it under 50 characters
- Make it compelling and personalized
- Avoid spammy words
- Be direct and clear

Generate only the subject line, no additional text.`,
		in.ContactName, orUnspecified(in.ContactCompany),
		in.CompanyName, in.CompanyDescription,
		in.SenderName, in.SenderPosition, in.CompanyName,
		in.FundingStage,
		orUnspecified(in.InvestorFocus))
}

func bodyPrompt(in EmailInput) string {
	return fmt.Sprintf(`Generate a personalized cold email to %s at %s (%s).

Context about the investor:
- Focus areas: %s
- Research: %s

Context about our company:
- Name: %s
- Description: %s
- Funding stage: %s
- From: %s, %s at %s

Requirements:
1. %s
2. Keep it concise (3-4 short paragraphs)
3. Personalize it based on the investor's focus areas
4. Include a clear call to action
5. Make it feel genuine, not templated
6. Start with a compelling hook
7. Sign the email as %s, %s
8. Do NOT include subject line, just the email body

Generate only the email body, no additional text.`,
		in.ContactName, orUnspecified(in.ContactCompany), orUnspecified(in.ContactTitle),
		orUnspecified(in.InvestorFocus),
		orDefault(in.ResearchSummary, "No additional research available"),
		in.CompanyName, in.CompanyDescription, in.FundingStage,
		in.SenderName, in.SenderPosition, in.CompanyName,
		ToneInstruction(in.Tone),
		in.SenderName, in.SenderPosition)
}

func orUnspecified(s string) string {
	return orDefault(s, "Not specified")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
