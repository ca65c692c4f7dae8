package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"hostelbook-client/internal/logger"
)

// Email sends success and error notifications to the operator's inbox. Info
// events are logged only; they are too chatty for email. Used by the sync
// daemon, where nobody is watching a terminal.
type Email struct {
	apiKey   string
	from     *mail.Email
	to       *mail.Email
	fallback *Log
}

// NewEmail returns a SendGrid-backed notifier.
func NewEmail(apiKey, fromEmail, fromName, toEmail, toName string) *Email {
	return &Email{
		apiKey:   apiKey,
		from:     mail.NewEmail(fromName, fromEmail),
		to:       mail.NewEmail(toName, toEmail),
		fallback: NewLog(),
	}
}

func (n *Email) Successf(format string, args ...any) {
	n.send("hostelbook: success", fmt.Sprintf(format, args...))
}

func (n *Email) Errorf(format string, args ...any) {
	n.send("hostelbook: error", fmt.Sprintf(format, args...))
}

func (n *Email) Infof(format string, args ...any) {
	n.fallback.Infof(format, args...)
}

func (n *Email) send(subject, body string) {
	message := mail.NewSingleEmail(n.from, subject, n.to, body, "")

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.Error("failed to send notification email", "error", err)
		return
	}
	if response.StatusCode >= 400 {
		logger.Error("sendgrid rejected notification email",
			"status", response.StatusCode, "body", response.Body)
	}
}
