package payment

// Session is the processor-issued checkout session.
type Session struct {
	ID  string
	URL string
}

type EventType string

const EventCheckoutSessionCompleted EventType = "checkout.session.completed"

// Event is a verified notification from the processor.
type Event struct {
	ID            string
	Type          EventType
	SessionID     string
	CustomerEmail string
	AmountTotal   int64
	Currency      string
}

// Ack is returned for every verified delivery, handled or not.
type Ack struct {
	Received bool `json:"received"`
}
