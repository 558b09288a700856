package service

import (
	"context"
	"strings"

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/mailer"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/recaptcha"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
)

type ContactInput struct {
	Name         string
	Email        string
	Subject      string
	Message      string
	CaptchaToken string
	RemoteIP     string
}

type ContactService interface {
	Send(ctx context.Context, input ContactInput) error
}

type contactService struct {
	captcha recaptcha.Verifier
	mail    mailer.Sender
	mailCfg MailConfig
	metrics *metrics.DirectoryMetrics
}

func NewContactService(captcha recaptcha.Verifier, mail mailer.Sender, mailCfg MailConfig, m *metrics.DirectoryMetrics) ContactService {
	return &contactService{
		captcha: captcha,
		mail:    mail,
		mailCfg: mailCfg,
		metrics: m,
	}
}

// Send verifies the captcha and forwards the message. Unlike other mail, a
// delivery failure here is returned because the email is the whole operation.
func (s *contactService) Send(ctx context.Context, input ContactInput) (err error) {
	defer func() { record(s.metrics, "contact", err) }()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)

	fields := fieldErrors{}
	fields.required("name", input.Name)
	fields.required("email", input.Email)
	fields.required("message", input.Message)
	fields.required("captchaToken", input.CaptchaToken)
	if _, bad := fields["email"]; !bad && !util.IsValidEmail(input.Email) {
		fields["email"] = "must be a valid email address"
	}
	if err := fields.err(); err != nil {
		return err
	}

	ok, err := s.captcha.Verify(ctx, input.CaptchaToken, input.RemoteIP)
	if err != nil {
		logger.Warn("Captcha verification errored", map[string]interface{}{
			"error": err.Error(),
		})
		return ErrCaptchaFailed
	}
	if !ok {
		return ErrCaptchaFailed
	}

	subject, body := mailer.ContactForm(input.Name, input.Email, input.Subject, input.Message)
	msg := mailer.Message{
		To:      []string{s.mailCfg.ContactTo},
		ReplyTo: input.Email,
		Subject: subject,
		HTML:    body,
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		logger.Error("Failed to send contact message", err)
		return err
	}
	logger.Info("Contact message sent")
	return nil
}
