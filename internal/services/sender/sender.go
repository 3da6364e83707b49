// Package services implements the mailer-side consumer: it renders mail
// jobs from the queue into plain-text messages and sends them over SMTP.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/lib/smtp"
	"github.com/coddink/interview-backend/internal/models"
)

type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleMailJob consumes one queue delivery. An error nacks the delivery
// back onto the queue.
func (s *SenderService) HandleMailJob(body []byte) error {
	var job models.MailJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal mail job", sl.Err(err))
		return fmt.Errorf("error unmarshalling mail job: %w", err)
	}

	subject, bodyText, err := renderMail(job)
	if err != nil {
		s.log.Error("failed to render mail job", slog.String("kind", string(job.Kind)), sl.Err(err))
		return err
	}

	return s.sendEmail([]string{job.Email}, subject, bodyText)
}

func renderMail(job models.MailJob) (subject, body string, err error) {
	switch job.Kind {
	case models.MailVerification:
		subject = "Your verification code"
		body = fmt.Sprintf("Hello!\n\nYour email verification code is %s.\n\nThe code expires in 30 minutes.", job.Code)
	case models.MailPasswordReset:
		subject = "Password reset"
		body = fmt.Sprintf("Hello, %s!\n\nUse this code to reset your password: %s\n\nThe code is valid for one hour and can be used once.", job.Nickname, job.Code)
	default:
		return "", "", fmt.Errorf("unknown mail kind: %s", job.Kind)
	}
	return subject, body, nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.String("to", strings.Join(to, ";")))
	return nil
}
