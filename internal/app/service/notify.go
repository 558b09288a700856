package service

import (
	"context"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/mailer"
)

const mailTimeout = 10 * time.Second

// MailConfig carries the addresses used by outgoing mail.
type MailConfig struct {
	SiteURL     string
	APIURL      string
	AdminNotify string
	ContactTo   string
}

// deliver sends msg and only logs failures. Mail never fails the write that triggered it.
func deliver(ctx context.Context, sender mailer.Sender, msg mailer.Message, fields map[string]interface{}) {
	if sender == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	if err := sender.Send(ctx, msg); err != nil {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["subject"] = msg.Subject
		logger.Error("Failed to send email", err, fields)
	}
}
