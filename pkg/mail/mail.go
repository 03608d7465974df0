// Package mail defines the transactional email port. Delivery is delegated
// to the vendor; callers never inspect delivery status beyond logging.
package mail

import "context"

// Message is a pre-rendered transactional email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
