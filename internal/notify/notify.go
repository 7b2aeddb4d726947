package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/fmuoria/HR-automation-system/internal/models"
	"gopkg.in/gomail.v2"
)

// ErrNoRecipient is returned when the candidate has no e-mail address
var ErrNoRecipient = errors.New("candidate has no e-mail address")

// Notifier tells candidates about their interviews
type Notifier interface {
	InterviewScheduled(ctx context.Context, iv models.Interview) error
}

// Noop is used when no mail server is configured
type Noop struct{}

func (Noop) InterviewScheduled(ctx context.Context, iv models.Interview) error {
	return nil
}

// Mailer sends interview invitations over SMTP
type Mailer struct {
	send   func(msgs ...*gomail.Message) error
	from   string
	logger *slog.Logger
}

// NewMailer creates a mailer for the given SMTP server
func NewMailer(host string, port int, username, password, from string, logger *slog.Logger) *Mailer {
	d := gomail.NewDialer(host, port, username, password)
	return newMailer(d.DialAndSend, from, logger)
}

// NewMailerWithSender creates a mailer on top of an existing gomail sender
func NewMailerWithSender(s gomail.Sender, from string, logger *slog.Logger) *Mailer {
	return newMailer(func(msgs ...*gomail.Message) error {
		return gomail.Send(s, msgs...)
	}, from, logger)
}

func newMailer(send func(msgs ...*gomail.Message) error, from string, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{send: send, from: from, logger: logger.With("module", "notify")}
}

// InterviewScheduled e-mails the candidate an invitation
func (m *Mailer) InterviewScheduled(ctx context.Context, iv models.Interview) error {
	if iv.CandidateEmail == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", iv.CandidateEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Interview invitation: %s at %s", iv.Date, iv.Time))

	msg.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nYour interview is scheduled on %s at %s.\n\nKind regards,\nHR Team\n",
		iv.CandidateName, iv.Date, iv.Time))
	msg.AddAlternative("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Interview Invitation</h2>
			<p>Dear %s,</p>
			<p>Your interview is scheduled on <strong>%s</strong> at <strong>%s</strong>.</p>
			<p>Kind regards,<br>HR Team</p>
		</div>
	`, html.EscapeString(iv.CandidateName), iv.Date, iv.Time))

	if err := m.send(msg); err != nil {
		m.logger.Error("Failed to send interview invitation", "to", iv.CandidateEmail, "error", err)
		return fmt.Errorf("failed to send interview invitation: %w", err)
	}

	m.logger.Info("Interview invitation sent", "to", iv.CandidateEmail)
	return nil
}
