package service

import (
	"context"
	"errors"
	"testing"

	"paydesk/internal/domain"
	"paydesk/internal/repository"
	"paydesk/internal/testutil"
	"paydesk/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestComposeEmail(t *testing.T) {
	p := testutil.NewPayment("Alice", "a@x.com", "50")

	tests := []struct {
		kind    domain.NotificationKind
		subject string
		body    string
	}{
		{
			kind:    domain.KindCreated,
			subject: "Payment Created",
			body:    "Hello Alice,\n\nYour payment of $50.00 has been created and is being processed.\n\nSee attached receipt.\n\nThank you!",
		},
		{
			kind:    domain.KindCompleted,
			subject: "Payment Successful",
			body:    "Hello Alice,\n\nYour payment of $50.00 has been successfully processed.\n\nSee attached receipt.\n\nThank you!",
		},
		{
			kind:    domain.KindReturned,
			subject: "Payment Returned",
			body:    "Hello Alice,\n\nYour payment of $50.00 has been returned and processed successfully.\n\nSee attached receipt.\n\nThank you!",
		},
		{
			kind:    domain.KindCanceled,
			subject: "Payment Canceled",
			body:    "Hello Alice,\n\nYour payment of $50.00 has been canceled.\n\nSee attached receipt.\n\nIf this was a mistake, please try again. Thank you!",
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			subject, body, err := ComposeEmail(tt.kind, p)
			require.NoError(t, err)
			assert.Equal(t, tt.subject, subject)
			assert.Equal(t, tt.body, body)
		})
	}

	_, _, err := ComposeEmail("refunded", p)
	assert.Error(t, err)
}

func TestNotificationService_Notify(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewNotificationRepository(db)
	sender := &recordingSender{}
	svc := NewNotificationService(sender, repo, "payments@example.com", nil)

	p := testutil.NewPayment("Alice", "a@x.com", "50.00")
	receipt := []byte("%PDF-1.3 receipt")

	require.NoError(t, svc.Notify(context.Background(), domain.KindCreated, p, receipt, "https://cdn/r.pdf"))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "payments@example.com", msg.From)
	assert.Equal(t, []string{"a@x.com"}, msg.To)
	assert.Equal(t, "Payment Created", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "receipt_"+p.ID.String()+".pdf", msg.Attachments[0].Name)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Equal(t, receipt, msg.Attachments[0].Data)

	logged, err := repo.ListByPaymentID(context.Background(), p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, domain.NotificationSent, logged[0].Status)
	assert.Equal(t, domain.KindCreated, logged[0].Kind)
	assert.Equal(t, "https://cdn/r.pdf", logged[0].ReceiptURL)
}

func TestNotificationService_NotifyFailure(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewNotificationRepository(db)
	boom := errors.New("connection refused")
	svc := NewNotificationService(&recordingSender{err: boom}, repo, "payments@example.com", nil)

	p := testutil.NewPayment("Alice", "a@x.com", "50.00")
	err := svc.Notify(context.Background(), domain.KindCanceled, p, []byte("pdf"), "")

	var delivery *domain.DeliveryError
	require.ErrorAs(t, err, &delivery)
	assert.Equal(t, "a@x.com", delivery.Recipient)
	assert.ErrorIs(t, err, boom)

	logged, err := repo.ListByPaymentID(context.Background(), p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, domain.NotificationFailed, logged[0].Status)
	assert.Equal(t, "connection refused", logged[0].Error)
}

func TestNotificationService_NilStore(t *testing.T) {
	sender := &recordingSender{}
	svc := NewNotificationService(sender, nil, "payments@example.com", nil)

	p := testutil.NewPayment("Bob", "b@x.com", "1.5")
	require.NoError(t, svc.Notify(context.Background(), domain.KindCompleted, p, nil, ""))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "$1.50")
}
