// Package events publishes payment outcomes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	dompayment "example.com/stripe-shop/app/internal/domain/payment"
)

// PaymentCompleted is the message value written for a completed checkout.
type PaymentCompleted struct {
	MessageID     string    `json:"message_id"`
	Event         string    `json:"event"`
	EventID       string    `json:"event_id"`
	SessionID     string    `json:"session_id"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	AmountTotal   int64     `json:"amount_total"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
	return &Publisher{writer: writer, now: time.Now}
}

// PaymentCompleted writes one message keyed by checkout session id.
func (p *Publisher) PaymentCompleted(ctx context.Context, ev dompayment.Event) error {
	msg, err := p.message(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *Publisher) message(ev dompayment.Event) (kafka.Message, error) {
	value, err := json.Marshal(PaymentCompleted{
		MessageID:     uuid.NewString(),
		Event:         "payment.completed",
		EventID:       ev.ID,
		SessionID:     ev.SessionID,
		CustomerEmail: ev.CustomerEmail,
		AmountTotal:   ev.AmountTotal,
		Currency:      ev.Currency,
		Timestamp:     p.now().UTC(),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal payment event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.SessionID),
		Value: value,
	}, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
