package translator

import (
	"context"
	"fmt"

	"smarterthings-bridge/internal/domain/entity"
	"smarterthings-bridge/internal/domain/model"

	"github.com/amimof/huego"
	"github.com/spf13/cast"
)

const maxAirQualityIndex = 500

// AirQualityStrategy lists sensors as lights that are always on; brightness
// carries the air quality index.
type AirQualityStrategy struct{}

func (s *AirQualityStrategy) ToHue(e entity.Entity) *huego.State {
	state := &huego.State{On: true, Reachable: true}
	aq, ok := e.(*entity.AirQuality)
	if !ok {
		return state
	}
	if v, ok := aq.AirQualityIndex(); ok {
		aqi := cast.ToFloat64(v)
		if aqi < 0 {
			aqi = 0
		}
		if aqi > maxAirQualityIndex {
			aqi = maxAirQualityIndex
		}
		state.Bri = uint8(aqi * 254 / maxAirQualityIndex)
	}
	return state
}

func (s *AirQualityStrategy) Apply(ctx context.Context, e entity.Entity, update HueUpdate) error {
	return fmt.Errorf("%w: %s", ErrReadOnly, e.ID())
}

func (s *AirQualityStrategy) GetMetadata() model.HueMetadata {
	return model.HueMetadata{
		Type:             "On/Off plug-in unit",
		ModelID:          "LOM001",
		ManufacturerName: "Philips",
	}
}
