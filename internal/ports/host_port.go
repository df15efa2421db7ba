package ports

import (
	"context"
	"smarterthings-bridge/internal/domain/model"
)

// StateWriter is the host platform's re-render signal. Implementations must
// not block for long; failures are theirs to log.
type StateWriter interface {
	WriteState(ctx context.Context, state model.EntityState)
}

// MessageHandler receives one message from a subscription.
type MessageHandler func(topic string, payload []byte) error

// Subscriber delivers asynchronous status pushes.
type Subscriber interface {
	Subscribe(topic string, handler MessageHandler) error
}
