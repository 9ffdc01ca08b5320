package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleMessage() Message {
	return Message{
		From:    "payments@example.com",
		To:      []string{"a@x.com"},
		Subject: "Payment Created",
		Body:    "Hello Alice,\n\nSee attached receipt.",
		Attachments: []Attachment{
			{Name: "receipt_1.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	}
}

func TestBuildMsg(t *testing.T) {
	m, err := buildMsg(sampleMessage())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Payment Created")
	assert.Contains(t, raw, "a@x.com")
	assert.Contains(t, raw, "receipt_1.pdf")
	assert.Contains(t, raw, "application/pdf")
}

func TestBuildMsg_InvalidRecipient(t *testing.T) {
	msg := sampleMessage()
	msg.To = []string{"not an address"}

	_, err := buildMsg(msg)
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewLogSender(zap.New(core))

	require.NoError(t, sender.Send(context.Background(), sampleMessage()))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "Payment Created", fields["subject"])
}

func TestSenderFunc(t *testing.T) {
	var got Message
	s := SenderFunc(func(_ context.Context, msg Message) error {
		got = msg
		return nil
	})
	require.NoError(t, s.Send(context.Background(), sampleMessage()))
	assert.Equal(t, "Payment Created", got.Subject)
}
