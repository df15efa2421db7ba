package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"smarterthings-bridge/internal/domain/model"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	pahomqtt.Token
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	pahomqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

type publication struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakePaho records what the wrapper asks of the paho client. Methods the
// wrapper never calls are left to the embedded nil interface.
type fakePaho struct {
	pahomqtt.Client

	mu           sync.Mutex
	connected    bool
	disconnected bool
	published    []publication
	subscribed   []string
	handlers     map[string]pahomqtt.MessageHandler
}

func newFakePaho() *fakePaho {
	return &fakePaho{connected: true, handlers: make(map[string]pahomqtt.MessageHandler)}
}

func (f *fakePaho) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePaho) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publication{topic, qos, retained, payload.([]byte)})
	return &fakeToken{}
}

func (f *fakePaho) Subscribe(topic string, qos byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, topic)
	f.handlers[topic] = callback
	return &fakeToken{}
}

func (f *fakePaho) Disconnect(quiesce uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnected = true
}

func (f *fakePaho) deliver(topic string, payload []byte) {
	f.mu.Lock()
	handler := f.handlers[topic]
	f.mu.Unlock()
	handler(f, &fakeMessage{topic: topic, payload: payload})
}

func newTestClient(cfg model.MQTTConfig) (*Client, *fakePaho) {
	c := newClient(cfg, zerolog.Nop())
	fake := newFakePaho()
	c.client = fake
	c.handleConnect()
	return c, fake
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(model.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "bridge", Username: "u", Password: "p"})

	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "localhost:1883", opts.Servers[0].Host)
	assert.Equal(t, "bridge", opts.ClientID)
	assert.Equal(t, "u", opts.Username)
	assert.True(t, opts.AutoReconnect)
}

func TestClient_WriteStatePublishesRetained(t *testing.T) {
	c, fake := newTestClient(model.MQTTConfig{StatePrefix: "smarterthings", QoS: 1})

	c.WriteState(context.Background(), model.EntityState{
		EntityID:   "fan.d1",
		Platform:   "fan",
		DeviceID:   "d1",
		Name:       "Purifier",
		Attributes: map[string]any{"is_on": true, "percentage": 66},
		Pending:    []string{"fanSpeed"},
	})

	require.Len(t, fake.published, 1)
	pub := fake.published[0]
	assert.Equal(t, "smarterthings/fan/d1/state", pub.topic)
	assert.Equal(t, byte(1), pub.qos)
	assert.True(t, pub.retained)

	var state model.EntityState
	require.NoError(t, json.Unmarshal(pub.payload, &state))
	assert.Equal(t, "fan.d1", state.EntityID)
	assert.Equal(t, "Purifier", state.Name)
	assert.Equal(t, true, state.Attributes["is_on"])
	assert.Equal(t, float64(66), state.Attributes["percentage"])
	assert.Equal(t, []string{"fanSpeed"}, state.Pending)
}

func TestClient_WriteStateWhileDisconnected(t *testing.T) {
	c, fake := newTestClient(model.MQTTConfig{StatePrefix: "smarterthings"})
	c.handleConnectionLost(errors.New("eof"))

	c.WriteState(context.Background(), model.EntityState{EntityID: "fan.d1", Platform: "fan", DeviceID: "d1"})

	assert.Empty(t, fake.published)
	assert.ErrorIs(t, c.publishState(context.Background(), model.EntityState{EntityID: "fan.d1"}), ErrNotConnected)
}

func TestClient_SubscriptionsRestoredOnReconnect(t *testing.T) {
	c, fake := newTestClient(model.MQTTConfig{QoS: 1})
	var got []string
	handler := func(topic string, payload []byte) error {
		got = append(got, topic+"="+string(payload))
		return nil
	}

	require.NoError(t, c.Subscribe("smartthings/+/+", handler))
	assert.Equal(t, []string{"smartthings/+/+"}, fake.subscribed)

	c.handleConnectionLost(errors.New("eof"))
	assert.False(t, c.IsConnected())
	// Recorded only; sent once the connection is back.
	require.NoError(t, c.Subscribe("other/#", handler))
	assert.Len(t, fake.subscribed, 1)

	c.handleConnect()
	assert.ElementsMatch(t, []string{"smartthings/+/+", "smartthings/+/+", "other/#"}, fake.subscribed)

	fake.deliver("smartthings/+/+", []byte(`"on"`))
	assert.Equal(t, []string{`smartthings/+/+="on"`}, got)
}

func TestClient_HandlerPanicIsRecovered(t *testing.T) {
	c, fake := newTestClient(model.MQTTConfig{})
	require.NoError(t, c.Subscribe("boom", func(string, []byte) error { panic("bad payload") }))
	require.NoError(t, c.Subscribe("fails", func(string, []byte) error { return errors.New("bad") }))

	assert.NotPanics(t, func() { fake.deliver("boom", []byte("x")) })
	assert.NotPanics(t, func() { fake.deliver("fails", []byte("x")) })
}

func TestClient_Close(t *testing.T) {
	c, fake := newTestClient(model.MQTTConfig{})

	require.NoError(t, c.Close())
	assert.True(t, fake.disconnected)
	assert.False(t, c.IsConnected())

	assert.NoError(t, (&Client{}).Close())
}
