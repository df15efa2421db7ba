package translator

import "smarterthings-bridge/internal/domain/entity"

type Factory struct {
	strategies map[string]Translator
}

func NewFactory() *Factory {
	return &Factory{
		strategies: map[string]Translator{
			entity.PlatformFan:        &FanStrategy{},
			entity.PlatformAirQuality: &AirQualityStrategy{},
		},
	}
}

// GetTranslator falls back to the read-only strategy for unknown platforms.
func (f *Factory) GetTranslator(platform string) Translator {
	if t, ok := f.strategies[platform]; ok {
		return t
	}
	return f.strategies[entity.PlatformAirQuality]
}
