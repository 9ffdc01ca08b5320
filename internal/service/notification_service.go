package service

import (
	"context"
	"fmt"

	"paydesk/internal/domain"
	"paydesk/internal/models"
	"paydesk/pkg/mailer"

	"go.uber.org/zap"
)

const receiptContentType = "application/pdf"

type emailTemplate struct {
	subject string
	// outcome follows "Your payment of $<amount> "
	outcome string
	closing string
}

var emailTemplates = map[domain.NotificationKind]emailTemplate{
	domain.KindCreated: {
		subject: "Payment Created",
		outcome: "has been created and is being processed.",
		closing: "Thank you!",
	},
	domain.KindCompleted: {
		subject: "Payment Successful",
		outcome: "has been successfully processed.",
		closing: "Thank you!",
	},
	domain.KindReturned: {
		subject: "Payment Returned",
		outcome: "has been returned and processed successfully.",
		closing: "Thank you!",
	},
	domain.KindCanceled: {
		subject: "Payment Canceled",
		outcome: "has been canceled.",
		closing: "If this was a mistake, please try again. Thank you!",
	},
}

// ComposeEmail returns the subject and plain text body announcing kind for p.
func ComposeEmail(kind domain.NotificationKind, p *models.Payment) (string, string, error) {
	tpl, ok := emailTemplates[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}
	body := fmt.Sprintf("Hello %s,\n\nYour payment of $%s %s\n\nSee attached receipt.\n\n%s",
		p.Name, p.FormattedAmount(), tpl.outcome, tpl.closing)
	return tpl.subject, body, nil
}

// NotificationStore persists the outcome of each delivery attempt.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

type NotificationService struct {
	sender mailer.Sender
	store  NotificationStore
	from   string
	logger *zap.Logger
}

// NewNotificationService builds the notifier. store may be nil, in which
// case attempts are only logged.
func NewNotificationService(sender mailer.Sender, store NotificationStore, from string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{sender: sender, store: store, from: from, logger: logger}
}

// Notify e-mails the payer with receipt attached. Transport failures come
// back as *domain.DeliveryError. receiptURL is only recorded.
func (s *NotificationService) Notify(ctx context.Context, kind domain.NotificationKind, p *models.Payment, receipt []byte, receiptURL string) error {
	subject, body, err := ComposeEmail(kind, p)
	if err != nil {
		return err
	}
	attachment := p.ReceiptName()
	msg := mailer.Message{
		From:    s.from,
		To:      []string{p.Email},
		Subject: subject,
		Body:    body,
		Attachments: []mailer.Attachment{
			{Name: attachment, ContentType: receiptContentType, Data: receipt},
		},
	}

	record := &models.Notification{
		PaymentID:  p.ID,
		Kind:       kind,
		Recipient:  p.Email,
		Subject:    subject,
		Attachment: attachment,
		Status:     domain.NotificationSent,
		ReceiptURL: receiptURL,
	}

	var sendErr error
	if err := s.sender.Send(ctx, msg); err != nil {
		sendErr = &domain.DeliveryError{Recipient: p.Email, Err: err}
		record.Status = domain.NotificationFailed
		record.Error = err.Error()
		s.logger.Warn("Payment e-mail failed",
			zap.String("payment_id", p.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	} else {
		s.logger.Info("Payment e-mail sent",
			zap.String("payment_id", p.ID.String()),
			zap.String("kind", string(kind)),
		)
	}

	if s.store != nil {
		if err := s.store.Create(ctx, record); err != nil {
			s.logger.Error("Failed to record notification",
				zap.String("payment_id", p.ID.String()),
				zap.Error(err),
			)
		}
	}
	return sendErr
}
