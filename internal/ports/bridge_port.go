package ports

import (
	"context"
	"smarterthings-bridge/internal/domain/model"

	"github.com/amimof/huego"
)

// LightState is the Hue state PUT body the bridge acts on.
type LightState struct {
	On  *bool  `json:"on,omitempty"`
	Bri *uint8 `json:"bri,omitempty"`
}

type BridgePort interface {
	GetLights(ctx context.Context) (map[string]*huego.Light, error)
	GetLight(ctx context.Context, id string) (*huego.Light, error)
	UpdateLightState(ctx context.Context, id string, state LightState) error
	GetEntities(ctx context.Context) ([]model.EntityState, error)

	// Config management
	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, cfg *model.Config) error
}
