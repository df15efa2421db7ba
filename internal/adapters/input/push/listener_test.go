package push

import (
	"context"
	"errors"
	"testing"

	"smarterthings-bridge/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	topic   string
	handler ports.MessageHandler
	err     error
}

func (s *fakeSubscriber) Subscribe(topic string, handler ports.MessageHandler) error {
	s.topic = topic
	s.handler = handler
	return s.err
}

type push struct {
	device, attribute string
	value             any
}

type recordingApplier struct {
	pushes []push
}

func (a *recordingApplier) ApplyPush(ctx context.Context, deviceID, attribute string, value any) {
	a.pushes = append(a.pushes, push{deviceID, attribute, value})
}

func TestListener(t *testing.T) {
	sub := &fakeSubscriber{}
	app := &recordingApplier{}
	l := NewListener(sub, app, "smartthings", zerolog.Nop())

	require.NoError(t, l.Start(context.Background()))
	assert.Equal(t, "smartthings/+/+", sub.topic)

	require.NoError(t, sub.handler("smartthings/d1/switch", []byte(`"on"`)))
	require.NoError(t, sub.handler("smartthings/d1/fanSpeed", []byte(`2`)))
	require.NoError(t, sub.handler("smartthings/d1/fanMode", []byte(`sleep`)))
	assert.Error(t, sub.handler("smartthings/d1", []byte(`1`)))

	assert.Equal(t, []push{
		{"d1", "switch", "on"},
		{"d1", "fanSpeed", float64(2)},
		{"d1", "fanMode", "sleep"},
	}, app.pushes)
}

func TestListener_StoppedContext(t *testing.T) {
	sub := &fakeSubscriber{}
	app := &recordingApplier{}
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, NewListener(sub, app, "st", zerolog.Nop()).Start(ctx))
	cancel()

	require.NoError(t, sub.handler("st/d1/switch", []byte(`"on"`)))
	assert.Empty(t, app.pushes)
}

func TestListener_SubscribeError(t *testing.T) {
	boom := errors.New("boom")
	l := NewListener(&fakeSubscriber{err: boom}, &recordingApplier{}, "st", zerolog.Nop())
	assert.ErrorIs(t, l.Start(context.Background()), boom)
}
