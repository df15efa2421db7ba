package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"smarterthings-bridge/internal/domain/model"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file on every load.
const (
	EnvToken      = "SMARTTHINGS_TOKEN"
	EnvLocationID = "SMARTTHINGS_LOCATION_ID"
	EnvURL        = "SMARTTHINGS_URL"
	EnvMQTTBroker = "MQTT_BROKER"
	EnvLocalIP    = "LOCAL_IP"
	EnvLogLevel   = "LOG_LEVEL"
)

type YAMLConfigRepository struct {
	filepath string
	mu       sync.RWMutex
	getenv   func(string) string
}

func NewYAMLConfigRepository(filepath string) *YAMLConfigRepository {
	return &YAMLConfigRepository{filepath: filepath, getenv: os.Getenv}
}

// Get loads the file, a missing file being an empty config, then applies
// environment overrides and defaults.
func (r *YAMLConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := &model.Config{}
	data, err := os.ReadFile(r.filepath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", r.filepath, err)
		}
	}

	r.applyEnv(cfg)
	cfg.ApplyDefaults()
	return cfg, nil
}

func (r *YAMLConfigRepository) applyEnv(cfg *model.Config) {
	overrides := map[string]*string{
		EnvToken:      &cfg.SmartThings.Token,
		EnvLocationID: &cfg.SmartThings.LocationID,
		EnvURL:        &cfg.SmartThings.URL,
		EnvMQTTBroker: &cfg.MQTT.Broker,
		EnvLocalIP:    &cfg.Hue.LocalIP,
		EnvLogLevel:   &cfg.Logging.Level,
	}
	for env, field := range overrides {
		if v := r.getenv(env); v != "" {
			*field = v
		}
	}
}

func (r *YAMLConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	// The file holds the API token.
	return os.WriteFile(r.filepath, data, 0600)
}
