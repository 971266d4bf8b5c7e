// Command sendmail sends a sample payment receipt to a local SMTP catcher
// such as Mailpit, to preview what customers receive.
package main

import (
	"context"
	"flag"
	"log"

	dompayment "example.com/stripe-shop/app/internal/domain/payment"
	"example.com/stripe-shop/app/internal/infra/mail"
)

func main() {
	addr := flag.String("addr", "localhost:2025", "SMTP server address")
	from := flag.String("from", "test@example.com", "sender address")
	to := flag.String("to", "hello@yopmail.com", "recipient address")
	amount := flag.Int64("amount", 2599, "amount in minor units")
	flag.Parse()

	mailer := mail.NewReceiptMailer(*addr, *from)
	err := mailer.PaymentCompleted(context.Background(), dompayment.Event{
		ID:            "evt_sample",
		Type:          dompayment.EventCheckoutSessionCompleted,
		SessionID:     "cs_test_sample",
		CustomerEmail: *to,
		AmountTotal:   *amount,
		Currency:      "usd",
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Mail sent successfully!")
}
