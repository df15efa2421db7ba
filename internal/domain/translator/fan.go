package translator

import (
	"context"
	"fmt"
	"math"

	"smarterthings-bridge/internal/domain/entity"
	"smarterthings-bridge/internal/domain/model"

	"github.com/amimof/huego"
)

// FanStrategy presents a fan as a dimmable light: brightness is the speed
// percentage.
type FanStrategy struct{}

func (s *FanStrategy) ToHue(e entity.Entity) *huego.State {
	state := &huego.State{Reachable: true}
	fan, ok := e.(*entity.Fan)
	if !ok {
		return state
	}
	state.On = fan.IsOn()
	if p, ok := fan.Percentage(); ok {
		state.Bri = percentageToBri(p)
	} else if state.On {
		state.Bri = 254
	}
	return state
}

func (s *FanStrategy) Apply(ctx context.Context, e entity.Entity, update HueUpdate) error {
	fan, ok := e.(*entity.Fan)
	if !ok {
		return fmt.Errorf("%w: %s", ErrReadOnly, e.ID())
	}

	if update.On != nil && !*update.On {
		return fan.TurnOff(ctx)
	}
	if update.Bri != nil && fan.SupportedFeatures().Has(entity.FanFeatureSetSpeed) {
		return fan.SetPercentage(ctx, briToPercentage(*update.Bri))
	}
	if update.On != nil {
		return fan.TurnOn(ctx, nil, nil)
	}
	return nil
}

func (s *FanStrategy) GetMetadata() model.HueMetadata {
	return model.HueMetadata{
		Type:             "Dimmable light",
		ModelID:          "LWB010",
		ManufacturerName: "Philips",
	}
}

func percentageToBri(p int) uint8 {
	return uint8(math.Round(float64(p) * 254 / 100))
}

// briToPercentage rounds up so the lowest Hue brightness still runs the fan.
func briToPercentage(bri uint8) int {
	p := int(math.Ceil(float64(bri) * 100 / 254))
	if p > 100 {
		p = 100
	}
	return p
}
