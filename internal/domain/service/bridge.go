package service

import (
	"context"

	"smarterthings-bridge/internal/domain/entity"
	"smarterthings-bridge/internal/domain/model"
	"smarterthings-bridge/internal/domain/translator"
	"smarterthings-bridge/internal/ports"

	"github.com/amimof/huego"
)

// BridgeService serves the broker's entities over the Hue light model.
// Every entity is one light, keyed by entity id.
type BridgeService struct {
	broker            *Broker
	config            *ConfigService
	translatorFactory *translator.Factory
}

func NewBridgeService(broker *Broker, config *ConfigService) *BridgeService {
	return &BridgeService{
		broker:            broker,
		config:            config,
		translatorFactory: translator.NewFactory(),
	}
}

func (s *BridgeService) GetLights(ctx context.Context) (map[string]*huego.Light, error) {
	entities := s.broker.Entities()
	lights := make(map[string]*huego.Light, len(entities))
	for _, e := range entities {
		lights[e.ID()] = s.toLight(e)
	}
	return lights, nil
}

func (s *BridgeService) GetLight(ctx context.Context, id string) (*huego.Light, error) {
	e, err := s.broker.Entity(id)
	if err != nil {
		return nil, err
	}
	return s.toLight(e), nil
}

func (s *BridgeService) UpdateLightState(ctx context.Context, id string, state ports.LightState) error {
	e, err := s.broker.Entity(id)
	if err != nil {
		return err
	}
	t := s.translatorFactory.GetTranslator(e.Platform())
	return t.Apply(ctx, e, translator.HueUpdate{On: state.On, Bri: state.Bri})
}

func (s *BridgeService) GetEntities(ctx context.Context) ([]model.EntityState, error) {
	entities := s.broker.Entities()
	states := make([]model.EntityState, 0, len(entities))
	for _, e := range entities {
		states = append(states, e.State())
	}
	return states, nil
}

func (s *BridgeService) GetConfig(ctx context.Context) (*model.Config, error) {
	return s.config.GetConfig(ctx)
}

func (s *BridgeService) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	return s.config.UpdateConfig(ctx, cfg)
}

func (s *BridgeService) toLight(e entity.Entity) *huego.Light {
	t := s.translatorFactory.GetTranslator(e.Platform())
	meta := t.GetMetadata()
	name := e.Device().DisplayName()
	if e.Platform() == entity.PlatformAirQuality {
		name += " Air Quality"
	}
	return &huego.Light{
		Name:             name,
		Type:             meta.Type,
		State:            t.ToHue(e),
		ModelID:          meta.ModelID,
		UniqueID:         e.ID(),
		ManufacturerName: meta.ManufacturerName,
	}
}
