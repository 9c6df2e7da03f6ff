// Package notify wraps the outbound SMS transport. Each Send is a single
// synchronous attempt: no retry, no queueing, and no destination validation
// beyond what the provider itself rejects.
package notify

import "context"

// Ack is the provider's delivery acknowledgment for one accepted message.
type Ack struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// Gateway delivers one message to one destination phone number.
type Gateway interface {
	Send(ctx context.Context, message, destination string) (*Ack, error)
}
