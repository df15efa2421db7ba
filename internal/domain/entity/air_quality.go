package entity

import (
	"smarterthings-bridge/internal/domain/model"

	"github.com/samber/lo"
)

var airQualityCapabilities = []string{
	model.CapabilityDustSensor,
	model.CapabilityAirQualitySensor,
}

// AirQualityPlatform exposes the dust and air quality readings of air
// purifiers. Entities are only built for devices that were assigned to the
// fan platform.
type AirQualityPlatform struct{}

func (p *AirQualityPlatform) Name() string { return PlatformAirQuality }

func (p *AirQualityPlatform) Gate() string { return PlatformFan }

func (p *AirQualityPlatform) Capabilities(caps []string) []string {
	return lo.Filter(airQualityCapabilities, func(c string, _ int) bool {
		return lo.Contains(caps, c)
	})
}

func (p *AirQualityPlatform) New(device *model.Device, deps Deps) Entity {
	return NewAirQuality(device)
}

// AirQuality is a read-only view of a device status. Every reading returns
// false when the attribute has not been reported.
type AirQuality struct {
	device *model.Device
}

func NewAirQuality(device *model.Device) *AirQuality {
	return &AirQuality{device: device}
}

func (a *AirQuality) ID() string { return EntityID(PlatformAirQuality, a.device.ID) }

func (a *AirQuality) Platform() string { return PlatformAirQuality }

func (a *AirQuality) Device() *model.Device { return a.device }

// ParticulateMatter25 is the PM2.5 level.
func (a *AirQuality) ParticulateMatter25() (any, bool) {
	return a.device.Status.Value(model.AttributeFineDustLevel)
}

// ParticulateMatter10 is the PM10 level.
func (a *AirQuality) ParticulateMatter10() (any, bool) {
	return a.device.Status.Value(model.AttributeDustLevel)
}

// ParticulateMatter01 is the PM0.1 level.
func (a *AirQuality) ParticulateMatter01() (any, bool) {
	return a.device.Status.Value(model.AttributeVeryFineDustLevel)
}

// AirQualityIndex is the AQI.
func (a *AirQuality) AirQualityIndex() (any, bool) {
	return a.device.Status.Value(model.AttributeAirQuality)
}

func (a *AirQuality) State() model.EntityState {
	attrs := make(map[string]any, 4)
	readings := map[string]func() (any, bool){
		"particulate_matter_2_5": a.ParticulateMatter25,
		"particulate_matter_10":  a.ParticulateMatter10,
		"particulate_matter_0_1": a.ParticulateMatter01,
		"air_quality_index":      a.AirQualityIndex,
	}
	for name, read := range readings {
		if v, ok := read(); ok {
			attrs[name] = v
		}
	}
	return baseState(a, attrs)
}
