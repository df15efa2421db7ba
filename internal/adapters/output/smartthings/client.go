package smartthings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"smarterthings-bridge/internal/domain/model"

	"github.com/rs/zerolog"
)

var (
	ErrNotConfigured = errors.New("smartthings not configured")
	ErrAPI           = errors.New("smartthings api error")
)

const mainComponent = "main"

type Client struct {
	url        string
	token      string
	locationID string
	httpClient *http.Client
	mu         sync.RWMutex
	log        zerolog.Logger
}

func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = model.DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "smartthings").Logger(),
	}
}

func (c *Client) Configure(url, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = strings.TrimSuffix(url, "/")
	c.token = token
}

// SetLocation limits device listing to one location. Empty means all.
func (c *Client) SetLocation(locationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locationID = locationID
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url != "" && c.token != ""
}

type deviceList struct {
	Items []deviceItem `json:"items"`
	Links struct {
		Next *struct {
			Href string `json:"href"`
		} `json:"next"`
	} `json:"_links"`
}

type deviceItem struct {
	DeviceID   string `json:"deviceId"`
	Name       string `json:"name"`
	Label      string `json:"label"`
	Components []struct {
		ID           string `json:"id"`
		Capabilities []struct {
			ID string `json:"id"`
		} `json:"capabilities"`
	} `json:"components"`
}

func (c *Client) ListDevices(ctx context.Context) ([]*model.Device, error) {
	base, _, err := c.credentials()
	if err != nil {
		return nil, err
	}

	next := base + "/devices"
	if loc := c.location(); loc != "" {
		next += "?locationId=" + url.QueryEscape(loc)
	}

	var devices []*model.Device
	for next != "" {
		var page deviceList
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, fmt.Errorf("list devices: %w", err)
		}
		for _, item := range page.Items {
			devices = append(devices, item.toDevice())
		}
		next = ""
		if page.Links.Next != nil {
			next = page.Links.Next.Href
		}
	}
	c.log.Debug().Int("count", len(devices)).Msg("listed devices")
	return devices, nil
}

func (d deviceItem) toDevice() *model.Device {
	dev := &model.Device{ID: d.DeviceID, Name: d.Name, Label: d.Label}
	for _, comp := range d.Components {
		if comp.ID != mainComponent {
			continue
		}
		for _, capability := range comp.Capabilities {
			dev.Capabilities = append(dev.Capabilities, capability.ID)
		}
	}
	return dev
}

type deviceStatus struct {
	Components map[string]map[string]map[string]struct {
		Value any `json:"value"`
	} `json:"components"`
}

// GetStatus returns the main component's attributes keyed by attribute name.
func (c *Client) GetStatus(ctx context.Context, deviceID string) (map[string]any, error) {
	base, _, err := c.credentials()
	if err != nil {
		return nil, err
	}

	var status deviceStatus
	if err := c.do(ctx, http.MethodGet, base+"/devices/"+url.PathEscape(deviceID)+"/status", nil, &status); err != nil {
		return nil, fmt.Errorf("device %s status: %w", deviceID, err)
	}

	values := make(map[string]any)
	for _, attrs := range status.Components[mainComponent] {
		for name, attr := range attrs {
			values[name] = attr.Value
		}
	}
	return values, nil
}

type command struct {
	Component  string `json:"component"`
	Capability string `json:"capability"`
	Command    string `json:"command"`
	Arguments  []any  `json:"arguments,omitempty"`
}

func (c *Client) SwitchOn(ctx context.Context, deviceID string) error {
	return c.execute(ctx, deviceID, model.CapabilitySwitch, "on")
}

func (c *Client) SwitchOff(ctx context.Context, deviceID string) error {
	return c.execute(ctx, deviceID, model.CapabilitySwitch, "off")
}

func (c *Client) SetFanSpeed(ctx context.Context, deviceID string, speed int) error {
	return c.execute(ctx, deviceID, model.CapabilityFanSpeed, "setFanSpeed", speed)
}

func (c *Client) SetFanMode(ctx context.Context, deviceID string, mode string) error {
	return c.execute(ctx, deviceID, model.CapabilityAirConditionerFanMode, "setFanMode", mode)
}

func (c *Client) execute(ctx context.Context, deviceID, capability, name string, args ...any) error {
	base, _, err := c.credentials()
	if err != nil {
		return err
	}

	body := map[string][]command{
		"commands": {{Component: mainComponent, Capability: capability, Command: name, Arguments: args}},
	}
	if err := c.do(ctx, http.MethodPost, base+"/devices/"+url.PathEscape(deviceID)+"/commands", body, nil); err != nil {
		return fmt.Errorf("%s.%s on %s: %w", capability, name, deviceID, err)
	}
	c.log.Debug().Str("device", deviceID).Str("capability", capability).Str("command", name).Msg("command sent")
	return nil
}

func (c *Client) credentials() (string, string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.url == "" || c.token == "" {
		return "", "", ErrNotConfigured
	}
	return c.url, c.token, nil
}

func (c *Client) location() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locationID
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	_, token, err := c.credentials()
	if err != nil {
		return err
	}

	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrAPI, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
