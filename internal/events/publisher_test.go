package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"paydesk/internal/domain"
	"paydesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type produced struct {
	key, topic string
	value      []byte
}

type fakeProducer struct {
	msgs []produced
	err  error
}

func (f *fakeProducer) Produce(_ context.Context, key, topic string, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, produced{key: key, topic: topic, value: value})
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestStatusPublisher_PublishStatus(t *testing.T) {
	fp := &fakeProducer{}
	pub := NewStatusPublisher(fp, "payment_status_updates")
	pub.now = func() time.Time { return testutil.FixedTime }

	p := testutil.NewPayment("Alice", "a@x.com", "50")
	p.Status = domain.StatusCompleted
	require.NoError(t, pub.PublishStatus(context.Background(), p))

	require.Len(t, fp.msgs, 1)
	assert.Equal(t, p.ID.String(), fp.msgs[0].key)
	assert.Equal(t, "payment_status_updates", fp.msgs[0].topic)

	var ev PaymentStatusEvent
	require.NoError(t, json.Unmarshal(fp.msgs[0].value, &ev))
	assert.Equal(t, PaymentStatusEvent{
		PaymentID:  p.ID.String(),
		Reference:  p.Reference.String(),
		Status:     "completed",
		Amount:     "50.00",
		Email:      "a@x.com",
		OccurredAt: testutil.FixedTime,
	}, ev)
}

func TestStatusPublisher_ProducerError(t *testing.T) {
	boom := errors.New("broker unavailable")
	pub := NewStatusPublisher(&fakeProducer{err: boom}, "t")

	err := pub.PublishStatus(context.Background(), testutil.NewPayment("Alice", "a@x.com", "1"))
	assert.ErrorIs(t, err, boom)
}
