package content

import (
	"context"
	"fmt"
	"strings"

	"outreach/internal/campaign"
)

// Templates is the static fallback generator. No external calls: the initial
// email is one parameterized template, follow-ups come from a fixed list keyed
// by the numeric suffix of the email type, clamped to the last entry.
type Templates struct{}

func (Templates) Email(_ context.Context, in EmailInput) (Email, error) {
	in = withDefaults(in)

	if n, ok := campaign.FollowUpIndex(in.EmailType); ok {
		return Email{
			Subject: fmt.Sprintf("Following up - %s Investment Opportunity", in.CompanyName),
			Body:    FollowUpBody(n, in),
		}, nil
	}

	return Email{
		Subject: fmt.Sprintf("Investment Opportunity - %s", in.CompanyName),
		Body:    initialBody(in),
	}, nil
}

// Subject returns just the subject line for the input's email type.
func (t Templates) Subject(ctx context.Context, in EmailInput) (string, error) {
	e, err := t.Email(ctx, in)
	if err != nil {
		return "", err
	}
	return e.Subject, nil
}

// FollowUpBody returns the (n-1)-th follow-up template, clamped to the last
// one when n exceeds the list.
func FollowUpBody(n int, in EmailInput) string {
	in = withDefaults(in)
	msgs := followUpBodies(in)
	i := n - 1
	if i < 0 {
		i = 0
	}
	if i >= len(msgs) {
		i = len(msgs) - 1
	}
	return msgs[i]
}

// FollowUpTemplateCount is the number of canned follow-up bodies.
func FollowUpTemplateCount() int {
	return len(followUpBodies(withDefaults(EmailInput{})))
}

func withDefaults(in EmailInput) EmailInput {
	if in.CompanyName == "" {
		in.CompanyName = "Our Company"
	}
	if in.CompanyDescription == "" {
		in.CompanyDescription = "We are an innovative company"
	}
	if in.FundingStage == "" {
		in.FundingStage = "Series A"
	}
	if in.SenderName == "" {
		in.SenderName = "Our Team"
	}
	if in.SenderPosition == "" {
		in.SenderPosition = "Team Member"
	}
	if in.InvestorFocus == "" {
		in.InvestorFocus = "innovative investments"
	}
	return in
}

func initialBody(in EmailInput) string {
	return strings.TrimSpace(fmt.Sprintf(`Hi %s,

I hope this email finds you well. I'm %s, %s at %s.

%s and we're currently raising our %s round. Given your focus on %s, I thought you might be interested in learning more about our opportunity.

We've built something truly unique in the market, and I'd love to share more details with you. Would you be available for a brief call this week to discuss?

Best regards,
%s
%s
%s`,
		in.ContactName,
		in.SenderName, in.SenderPosition, in.CompanyName,
		in.CompanyDescription, in.FundingStage, in.InvestorFocus,
		in.SenderName, in.SenderPosition, in.CompanyName))
}

func followUpBodies(in EmailInput) []string {
	return []string{
		strings.TrimSpace(fmt.Sprintf(`Hi %s,

I wanted to follow up on my previous email about %s's investment opportunity. I know you're busy, but I believe this could be a great fit for your portfolio.

Would you have 15 minutes for a quick call this week to discuss?

Best regards,
%s`, in.ContactName, in.CompanyName, in.SenderName)),

		strings.TrimSpace(fmt.Sprintf(`Hi %s,

I hope you're doing well. I wanted to reach out one more time about our investment opportunity at %s.

I understand if the timing isn't right, but I'd hate for you to miss out on what we're building. Would you be open to a brief conversation?

Best regards,
%s`, in.ContactName, in.CompanyName, in.SenderName)),

		strings.TrimSpace(fmt.Sprintf(`Hi %s,

I know you're incredibly busy, but I wanted to make one final attempt to connect about %s.

If you're not interested, I completely understand. If you are, I'd love to share more details.

Best regards,
%s`, in.ContactName, in.CompanyName, in.SenderName)),
	}
}
