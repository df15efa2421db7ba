package service

import (
	"context"
	"smarterthings-bridge/internal/domain/model"
	"smarterthings-bridge/internal/ports"
)

type ConfigService struct {
	repo   ports.ConfigRepository
	client ports.DeviceClient
	broker *Broker
}

func NewConfigService(repo ports.ConfigRepository, client ports.DeviceClient, broker *Broker) *ConfigService {
	return &ConfigService{
		repo:   repo,
		client: client,
		broker: broker,
	}
}

func (s *ConfigService) GetConfig(ctx context.Context) (*model.Config, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	masked := cfg.Masked()
	return &masked, nil
}

// UpdateConfig saves cfg, points the client at the new account and location
// and reloads the devices. A masked token keeps the stored one.
func (s *ConfigService) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	masked := current.Masked()
	if cfg.SmartThings.Token == masked.SmartThings.Token {
		cfg.SmartThings.Token = current.SmartThings.Token
	}
	if cfg.MQTT.Password == masked.MQTT.Password {
		cfg.MQTT.Password = current.MQTT.Password
	}
	cfg.ApplyDefaults()

	if err := s.repo.Save(ctx, cfg); err != nil {
		return err
	}
	s.client.Configure(cfg.SmartThings.URL, cfg.SmartThings.Token)
	s.client.SetLocation(cfg.SmartThings.LocationID)
	return s.broker.Refresh(ctx)
}
