// Package mail sends payment receipts over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shopspring/decimal"

	dompayment "example.com/stripe-shop/app/internal/domain/payment"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// ReceiptMailer emails the customer once a checkout completes.
type ReceiptMailer struct {
	addr string
	from string
	send sendFunc
}

func NewReceiptMailer(addr, from string) *ReceiptMailer {
	return &ReceiptMailer{addr: addr, from: from, send: smtp.SendMail}
}

// PaymentCompleted sends the receipt. Events without an email are skipped.
func (m *ReceiptMailer) PaymentCompleted(ctx context.Context, ev dompayment.Event) error {
	if ev.CustomerEmail == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := ReceiptMessage(m.from, ev)
	if err := m.send(m.addr, nil, m.from, []string{ev.CustomerEmail}, msg); err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}
	return nil
}

// ReceiptMessage renders an RFC 5322 message for ev.
func ReceiptMessage(from string, ev dompayment.Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", ev.CustomerEmail)
	b.WriteString("Subject: Payment Successful\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("Thank you for your purchase.\r\n")
	fmt.Fprintf(&b, "Amount: %s %s\r\n", FormatAmount(ev.AmountTotal), strings.ToUpper(ev.Currency))
	fmt.Fprintf(&b, "Reference: %s\r\n", ev.SessionID)
	return []byte(b.String())
}

// FormatAmount renders minor units with two decimals.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
