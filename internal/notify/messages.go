package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// VerificationEmail asks the user to confirm ownership of their address.
func VerificationEmail(to, firstName, frontendURL, token string) Message {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(frontendURL, "/"), url.QueryEscape(token))
	return Message{
		To:      []string{to},
		Subject: "Verify your LiftLink email",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWelcome to LiftLink! Confirm your campus email by opening the link below:\n\n%s\n\nIf you did not sign up, ignore this email.\n",
			firstName, link,
		),
	}
}

// MatchParty is one side of an accepted request.
type MatchParty struct {
	Name  string
	Email string
}

// MatchEmail tells recipient that their request with partner was accepted.
// postTitle is empty for profile interests.
func MatchEmail(recipient, partner MatchParty, postTitle string) Message {
	subject := "You have a new LiftLink match!"
	about := "You and " + partner.Name + " are now connected."
	if postTitle != "" {
		subject = "Your LiftLink session request was accepted"
		about = fmt.Sprintf("You and %s are set for %q.", partner.Name, postTitle)
	}
	return Message{
		To:      []string{recipient.Email},
		Subject: subject,
		Body: fmt.Sprintf(
			"Hi %s,\n\n%s Reach out at %s to plan your workout.\n\nSee you at the gym!\n",
			recipient.Name, about, partner.Email,
		),
	}
}
