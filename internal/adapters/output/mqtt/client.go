package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"smarterthings-bridge/internal/adapters/mqtttopic"
	"smarterthings-bridge/internal/domain/model"
	"smarterthings-bridge/internal/ports"
)

var (
	ErrNotConnected     = errors.New("mqtt not connected")
	ErrConnectionFailed = errors.New("mqtt connection failed")
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 1000 // milliseconds
	defaultKeepAlive         = 60 * time.Second
	maxReconnectInterval     = 2 * time.Minute
)

// Client publishes entity renders and delivers vendor pushes.
// Subscriptions are restored after every reconnect.
type Client struct {
	client pahomqtt.Client
	cfg    model.MQTTConfig
	topics mqtttopic.Topics
	log    zerolog.Logger

	subscriptions map[string]ports.MessageHandler
	subMu         sync.RWMutex

	connected bool
	connMu    sync.RWMutex
}

func Connect(cfg model.MQTTConfig, log zerolog.Logger) (*Client, error) {
	c := newClient(cfg, log)

	opts := buildClientOptions(cfg)
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleConnectionLost(err)
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	c.setConnected(true)
	return c, nil
}

func newClient(cfg model.MQTTConfig, log zerolog.Logger) *Client {
	return &Client{
		cfg:           cfg,
		topics:        mqtttopic.Topics{StatePrefix: cfg.StatePrefix, PushPrefix: cfg.PushPrefix},
		log:           log.With().Str("component", "mqtt").Logger(),
		subscriptions: make(map[string]ports.MessageHandler),
	}
}

// handleConnect runs on the first connect and on every reconnect.
func (c *Client) handleConnect() {
	c.setConnected(true)
	c.restoreSubscriptions()
	c.log.Info().Str("broker", c.cfg.Broker).Msg("connected")
}

func (c *Client) handleConnectionLost(err error) {
	c.setConnected(false)
	c.log.Warn().Err(err).Msg("connection lost")
}

func buildClientOptions(cfg model.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetMaxReconnectInterval(maxReconnectInterval)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)
	return opts
}

func (c *Client) setConnected(v bool) {
	c.connMu.Lock()
	c.connected = v
	c.connMu.Unlock()
}

func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// WriteState publishes the entity's state document, retained, so late
// subscribers see the last render.
func (c *Client) WriteState(ctx context.Context, state model.EntityState) {
	if err := c.publishState(ctx, state); err != nil {
		c.log.Warn().Err(err).Str("entity", state.EntityID).Msg("state publish failed")
	}
}

func (c *Client) publishState(ctx context.Context, state model.EntityState) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	token := c.client.Publish(c.topics.State(state.Platform, state.DeviceID), c.cfg.QoS, true, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(defaultPublishTimeout):
		return fmt.Errorf("publish %s: timeout", state.EntityID)
	}
}

func (c *Client) Subscribe(topic string, handler ports.MessageHandler) error {
	c.subMu.Lock()
	c.subscriptions[topic] = handler
	c.subMu.Unlock()

	if !c.IsConnected() {
		// Picked up by restoreSubscriptions once the connection is back.
		return nil
	}
	token := c.client.Subscribe(topic, c.cfg.QoS, c.wrapHandler(handler))
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("subscribe %s: timeout", topic)
	}
	return token.Error()
}

func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	for topic, handler := range c.subscriptions {
		c.client.Subscribe(topic, c.cfg.QoS, c.wrapHandler(handler))
	}
}

func (c *Client) wrapHandler(handler ports.MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				c.log.Error().Str("topic", msg.Topic()).Interface("panic", r).Msg("handler panic recovered")
			}
		}()
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.log.Warn().Err(err).Str("topic", msg.Topic()).Msg("handler returned error")
		}
	}
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
	c.setConnected(false)
	return nil
}
