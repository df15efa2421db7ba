package translator

import (
	"context"
	"errors"

	"smarterthings-bridge/internal/domain/entity"
	"smarterthings-bridge/internal/domain/model"

	"github.com/amimof/huego"
)

var ErrReadOnly = errors.New("entity is read-only")

// HueUpdate is the part of a Hue light state PUT the bridge understands.
type HueUpdate struct {
	On  *bool
	Bri *uint8
}

// Translator maps an entity onto a Hue light and Hue state changes back onto
// entity operations.
type Translator interface {
	ToHue(e entity.Entity) *huego.State
	Apply(ctx context.Context, e entity.Entity, update HueUpdate) error
	GetMetadata() model.HueMetadata
}
