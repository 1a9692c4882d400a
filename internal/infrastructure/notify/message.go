package notify

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// VerificationMessage renders the email carrying a signup verification code.
// An empty name is greeted as "User".
func VerificationMessage(name, code string) (Message, error) {
	if !codePattern.MatchString(code) {
		return Message{}, fmt.Errorf("verification code must be 6 digits")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "User"
	}
	return Message{
		Subject: "Verify your email",
		Text: fmt.Sprintf("Hi %s,\r\n\r\nYour verification code is %s.\r\nIt is valid for 10 minutes.\r\n\r\n"+
			"If you did not sign up, you can ignore this email.\r\n", name, code),
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>.</p>"+
			"<p>It is valid for 10 minutes.</p><p>If you did not sign up, you can ignore this email.</p>",
			html.EscapeString(name), code),
	}, nil
}
