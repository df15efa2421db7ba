package translator

import (
	"context"
	"testing"

	"smarterthings-bridge/internal/domain/entity"
	"smarterthings-bridge/internal/domain/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommander struct {
	calls []string
	speed int
}

func (c *fakeCommander) SwitchOn(ctx context.Context, deviceID string) error {
	c.calls = append(c.calls, "on")
	return nil
}

func (c *fakeCommander) SwitchOff(ctx context.Context, deviceID string) error {
	c.calls = append(c.calls, "off")
	return nil
}

func (c *fakeCommander) SetFanSpeed(ctx context.Context, deviceID string, speed int) error {
	c.calls = append(c.calls, "speed")
	c.speed = speed
	return nil
}

func (c *fakeCommander) SetFanMode(ctx context.Context, deviceID string, mode string) error {
	c.calls = append(c.calls, "mode")
	return nil
}

func newFan(caps []string, status map[string]any) (*entity.Fan, *fakeCommander) {
	cmd := &fakeCommander{}
	dev := &model.Device{ID: "fan-1", Capabilities: caps, Status: model.NewStatus(status)}
	return entity.NewFan(dev, cmd, nil, zerolog.Nop()), cmd
}

func boolPtr(v bool) *bool    { return &v }
func uint8Ptr(v uint8) *uint8 { return &v }

func TestFanStrategy_ToHue(t *testing.T) {
	s := &FanStrategy{}

	fan, _ := newFan([]string{model.CapabilitySwitch, model.CapabilityFanSpeed}, map[string]any{
		model.AttributeSwitch:   "on",
		model.AttributeFanSpeed: 2,
	})
	state := s.ToHue(fan)
	assert.True(t, state.On)
	assert.True(t, state.Reachable)
	assert.Equal(t, uint8(168), state.Bri)

	fan, _ = newFan([]string{model.CapabilitySwitch}, map[string]any{model.AttributeSwitch: "on"})
	assert.Equal(t, uint8(254), s.ToHue(fan).Bri)

	fan, _ = newFan([]string{model.CapabilitySwitch}, map[string]any{model.AttributeSwitch: "off"})
	state = s.ToHue(fan)
	assert.False(t, state.On)
	assert.Equal(t, uint8(0), state.Bri)
}

func TestFanStrategy_Apply(t *testing.T) {
	s := &FanStrategy{}
	ctx := context.Background()

	fan, cmd := newFan([]string{model.CapabilitySwitch, model.CapabilityFanSpeed}, nil)
	require.NoError(t, s.Apply(ctx, fan, HueUpdate{On: boolPtr(true), Bri: uint8Ptr(127)}))
	assert.Equal(t, []string{"speed"}, cmd.calls)
	assert.Equal(t, 2, cmd.speed)

	fan, cmd = newFan([]string{model.CapabilitySwitch, model.CapabilityFanSpeed}, nil)
	require.NoError(t, s.Apply(ctx, fan, HueUpdate{Bri: uint8Ptr(1)}))
	assert.Equal(t, 1, cmd.speed)

	fan, cmd = newFan([]string{model.CapabilitySwitch, model.CapabilityFanSpeed}, nil)
	require.NoError(t, s.Apply(ctx, fan, HueUpdate{On: boolPtr(false), Bri: uint8Ptr(200)}))
	assert.Equal(t, []string{"off"}, cmd.calls)

	// Brightness is ignored when the fan has no speed control.
	fan, cmd = newFan([]string{model.CapabilitySwitch}, nil)
	require.NoError(t, s.Apply(ctx, fan, HueUpdate{On: boolPtr(true), Bri: uint8Ptr(200)}))
	assert.Equal(t, []string{"on"}, cmd.calls)

	fan, cmd = newFan([]string{model.CapabilitySwitch}, nil)
	require.NoError(t, s.Apply(ctx, fan, HueUpdate{}))
	assert.Empty(t, cmd.calls)
}

func TestBriPercentageConversion(t *testing.T) {
	assert.Equal(t, uint8(254), percentageToBri(100))
	assert.Equal(t, uint8(84), percentageToBri(33))
	assert.Equal(t, 100, briToPercentage(254))
	assert.Equal(t, 100, briToPercentage(255))
	assert.Equal(t, 1, briToPercentage(1))
	assert.Equal(t, 0, briToPercentage(0))
}

func TestAirQualityStrategy(t *testing.T) {
	s := &AirQualityStrategy{}
	dev := &model.Device{ID: "aq-1", Status: model.NewStatus(map[string]any{model.AttributeAirQuality: 250})}
	aq := entity.NewAirQuality(dev)

	state := s.ToHue(aq)
	assert.True(t, state.On)
	assert.Equal(t, uint8(127), state.Bri)

	dev.Status.Set(model.AttributeAirQuality, 900, model.SourcePush)
	assert.Equal(t, uint8(254), s.ToHue(aq).Bri)

	err := s.Apply(context.Background(), aq, HueUpdate{On: boolPtr(false)})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestMetadata(t *testing.T) {
	fs := &FanStrategy{}
	assert.Equal(t, "Dimmable light", fs.GetMetadata().Type)
	assert.Equal(t, "LWB010", fs.GetMetadata().ModelID)

	as := &AirQualityStrategy{}
	assert.Equal(t, "On/Off plug-in unit", as.GetMetadata().Type)
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	assert.IsType(t, &FanStrategy{}, f.GetTranslator(entity.PlatformFan))
	assert.IsType(t, &AirQualityStrategy{}, f.GetTranslator(entity.PlatformAirQuality))
	assert.IsType(t, &AirQualityStrategy{}, f.GetTranslator("light"))
}
