package push

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"smarterthings-bridge/internal/adapters/mqtttopic"
	"smarterthings-bridge/internal/ports"
)

// Applier receives one attribute update for a device.
type Applier interface {
	ApplyPush(ctx context.Context, deviceID, attribute string, value any)
}

// Listener turns vendor status pushes into broker updates.
type Listener struct {
	subscriber ports.Subscriber
	applier    Applier
	topics     mqtttopic.Topics
	log        zerolog.Logger
}

func NewListener(subscriber ports.Subscriber, applier Applier, prefix string, log zerolog.Logger) *Listener {
	return &Listener{
		subscriber: subscriber,
		applier:    applier,
		topics:     mqtttopic.Topics{PushPrefix: prefix},
		log:        log.With().Str("component", "push").Logger(),
	}
}

// Start subscribes and returns; messages are handled until ctx is done.
func (l *Listener) Start(ctx context.Context) error {
	topic := l.topics.PushWildcard()
	if err := l.subscriber.Subscribe(topic, l.handler(ctx)); err != nil {
		return err
	}
	l.log.Info().Str("topic", topic).Msg("listening for pushes")
	return nil
}

func (l *Listener) handler(ctx context.Context) ports.MessageHandler {
	return func(topic string, payload []byte) error {
		if ctx.Err() != nil {
			return nil
		}
		deviceID, attribute, err := l.topics.ParsePush(topic)
		if err != nil {
			return err
		}
		l.applier.ApplyPush(ctx, deviceID, attribute, decode(payload))
		return nil
	}
}

// decode reads JSON payloads and falls back to the raw text, so both
// `"on"` and `on` deliver the string on.
func decode(payload []byte) any {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return string(payload)
	}
	return v
}
