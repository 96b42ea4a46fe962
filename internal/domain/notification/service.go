package notification

import (
	"context"
)

// Sink delivers one message over a concrete channel.
type Sink interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Service queues messages for best-effort delivery. Queue never blocks.
type Service interface {
	Queue(msg Message) error

	// Stop drains the queue until ctx is done
	Stop(ctx context.Context) error
}
