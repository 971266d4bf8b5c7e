package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	dompayment "example.com/stripe-shop/app/internal/domain/payment"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_PaymentCompleted(t *testing.T) {
	w := &fakeWriter{}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Publisher{writer: w, now: func() time.Time { return fixed }}

	err := p.PaymentCompleted(context.Background(), dompayment.Event{
		ID:            "evt_1",
		Type:          dompayment.EventCheckoutSessionCompleted,
		SessionID:     "cs_1",
		CustomerEmail: "a@b.com",
		AmountTotal:   1000,
		Currency:      "usd",
	})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	require.Equal(t, []byte("cs_1"), w.msgs[0].Key)

	var got PaymentCompleted
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	require.Equal(t, "payment.completed", got.Event)
	require.Equal(t, "evt_1", got.EventID)
	require.Equal(t, int64(1000), got.AmountTotal)
	require.Equal(t, fixed, got.Timestamp)
	require.NotEmpty(t, got.MessageID)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestPublisher_WriteError(t *testing.T) {
	p := &Publisher{writer: &fakeWriter{err: errors.New("broker down")}, now: time.Now}

	err := p.PaymentCompleted(context.Background(), dompayment.Event{ID: "evt_1", SessionID: "cs_1"})

	require.ErrorContains(t, err, "broker down")
}
