package entity

import (
	"errors"

	"smarterthings-bridge/internal/domain/model"
	"smarterthings-bridge/internal/ports"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
	ErrUnknownPlatform   = errors.New("unknown platform")
)

// Platform names.
const (
	PlatformFan        = "fan"
	PlatformAirQuality = "air_quality"
)

// Entity is one device exposed to the host platform as one entity type.
type Entity interface {
	ID() string
	Platform() string
	Device() *model.Device
	State() model.EntityState
}

// Deps are the collaborators every entity is built with.
type Deps struct {
	Commander ports.DeviceCommander
	Writer    ports.StateWriter
	Logger    zerolog.Logger
}

// Platform decides which devices qualify for an entity type and builds the
// entities.
type Platform interface {
	Name() string
	// Capabilities returns the capabilities of caps this platform claims.
	// An empty result means the device does not qualify.
	Capabilities(caps []string) []string
	// Gate names the platform assignment a device needs before New is
	// called for it.
	Gate() string
	New(device *model.Device, deps Deps) Entity
}

// EntityID is the id an entity of platform gets for deviceID.
func EntityID(platform, deviceID string) string {
	return platform + "." + deviceID
}

func baseState(e Entity, attrs map[string]any) model.EntityState {
	d := e.Device()
	return model.EntityState{
		EntityID:   e.ID(),
		Platform:   e.Platform(),
		DeviceID:   d.ID,
		Name:       d.DisplayName(),
		Attributes: attrs,
		Pending:    d.Status.Pending(),
	}
}
