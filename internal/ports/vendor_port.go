package ports

import (
	"context"
	"smarterthings-bridge/internal/domain/model"
)

// DeviceCommander is the set of vendor commands an entity issues.
type DeviceCommander interface {
	SwitchOn(ctx context.Context, deviceID string) error
	SwitchOff(ctx context.Context, deviceID string) error
	SetFanSpeed(ctx context.Context, deviceID string, speed int) error
	SetFanMode(ctx context.Context, deviceID string, mode string) error
}

// DeviceClient is the vendor cloud client used by the broker.
type DeviceClient interface {
	DeviceCommander
	ListDevices(ctx context.Context) ([]*model.Device, error)
	GetStatus(ctx context.Context, deviceID string) (map[string]any, error)
	Configure(url, token string)
	// SetLocation limits listing to one location; empty lists every device.
	SetLocation(locationID string)
	IsConfigured() bool
}
