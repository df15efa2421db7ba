package entity

import (
	"context"
	"fmt"

	"smarterthings-bridge/internal/domain/model"
	"smarterthings-bridge/internal/ports"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// FanSpeedRange is the level range SmartThings fans accept.
var FanSpeedRange = SpeedRange{Low: 1, High: 3}

// FanFeature is the set of optional fan features.
type FanFeature uint8

const (
	FanFeatureSetSpeed FanFeature = 1 << iota
	FanFeaturePresetMode
)

func (f FanFeature) Has(flag FanFeature) bool {
	return f&flag == flag
}

var fanOptionalCapabilities = []string{
	model.CapabilityAirConditionerFanMode,
	model.CapabilityFanSpeed,
}

// FanPlatform exposes switchable fans.
type FanPlatform struct{}

func (p *FanPlatform) Name() string { return PlatformFan }

func (p *FanPlatform) Gate() string { return PlatformFan }

// Capabilities requires switch; the optional capabilities follow in a fixed
// order.
func (p *FanPlatform) Capabilities(caps []string) []string {
	if !lo.Contains(caps, model.CapabilitySwitch) {
		return nil
	}
	supported := []string{model.CapabilitySwitch}
	for _, c := range fanOptionalCapabilities {
		if lo.Contains(caps, c) {
			supported = append(supported, c)
		}
	}
	return supported
}

func (p *FanPlatform) New(device *model.Device, deps Deps) Entity {
	return NewFan(device, deps.Commander, deps.Writer, deps.Logger)
}

// Fan translates fan entity operations into SmartThings commands.
//
// Every command applies its expected result to the device status as soon as
// the cloud accepted it and then asks the host to re-render; the confirming
// push overwrites whatever was guessed.
type Fan struct {
	device    *model.Device
	commander ports.DeviceCommander
	writer    ports.StateWriter
	features  FanFeature
	log       zerolog.Logger
}

// NewFan derives the feature set from the capabilities the device has now.
// The set is never recomputed.
func NewFan(device *model.Device, commander ports.DeviceCommander, writer ports.StateWriter, log zerolog.Logger) *Fan {
	f := &Fan{
		device:    device,
		commander: commander,
		writer:    writer,
		log:       log.With().Str("entity", EntityID(PlatformFan, device.ID)).Logger(),
	}
	if device.HasCapability(model.CapabilityFanSpeed) {
		f.features |= FanFeatureSetSpeed
	}
	if device.HasCapability(model.CapabilityAirConditionerFanMode) {
		f.features |= FanFeaturePresetMode
	}
	return f
}

func (f *Fan) ID() string { return EntityID(PlatformFan, f.device.ID) }

func (f *Fan) Platform() string { return PlatformFan }

func (f *Fan) Device() *model.Device { return f.device }

func (f *Fan) SupportedFeatures() FanFeature { return f.features }

// SpeedCount is the number of discrete speeds.
func (f *Fan) SpeedCount() int { return FanSpeedRange.States() }

// PercentageStep is the percentage distance between two speeds.
func (f *Fan) PercentageStep() float64 { return 100 / float64(f.SpeedCount()) }

// SetPercentage sets the speed; 0 turns the fan off.
func (f *Fan) SetPercentage(ctx context.Context, percentage int) error {
	if err := f.setPercentage(ctx, &percentage); err != nil {
		return err
	}
	f.render(ctx)
	return nil
}

// setPercentage turns the fan on when percentage is nil.
func (f *Fan) setPercentage(ctx context.Context, percentage *int) error {
	switch {
	case percentage == nil:
		return f.switchOn(ctx)
	case *percentage < 0 || *percentage > 100:
		return fmt.Errorf("%w: %d", ErrInvalidPercentage, *percentage)
	case *percentage == 0:
		return f.switchOff(ctx)
	}

	level := FanSpeedRange.Level(*percentage)
	if err := f.commander.SetFanSpeed(ctx, f.device.ID, level); err != nil {
		return fmt.Errorf("set fan speed %d: %w", level, err)
	}
	f.device.Status.Set(model.AttributeFanSpeed, level, model.SourceOptimistic)
	f.device.Status.Set(model.AttributeSwitch, model.SwitchOn, model.SourceOptimistic)
	return nil
}

// SetPresetMode selects a fan mode. Modes the device does not list are
// ignored, but the host is still asked to re-render.
func (f *Fan) SetPresetMode(ctx context.Context, mode string) error {
	if err := f.setPresetMode(ctx, mode); err != nil {
		return err
	}
	f.render(ctx)
	return nil
}

func (f *Fan) setPresetMode(ctx context.Context, mode string) error {
	modes, _ := f.PresetModes()
	if !lo.Contains(modes, mode) {
		f.log.Debug().Str("preset_mode", mode).Strs("supported", modes).Msg("Ignoring unsupported preset mode")
		return nil
	}
	if err := f.commander.SetFanMode(ctx, f.device.ID, mode); err != nil {
		return fmt.Errorf("set fan mode %q: %w", mode, err)
	}
	f.device.Status.Set(model.AttributeFanMode, mode, model.SourceOptimistic)
	return nil
}

// TurnOn applies percentage when given. A preset mode replaces the plain
// switch-on; without one the fan is switched on.
func (f *Fan) TurnOn(ctx context.Context, percentage *int, presetMode *string) error {
	if percentage != nil {
		if err := f.setPercentage(ctx, percentage); err != nil {
			return err
		}
	}
	if presetMode != nil {
		if err := f.setPresetMode(ctx, *presetMode); err != nil {
			return err
		}
	} else if err := f.switchOn(ctx); err != nil {
		return err
	}
	f.render(ctx)
	return nil
}

func (f *Fan) TurnOff(ctx context.Context) error {
	if err := f.switchOff(ctx); err != nil {
		return err
	}
	f.render(ctx)
	return nil
}

func (f *Fan) switchOn(ctx context.Context) error {
	if err := f.commander.SwitchOn(ctx, f.device.ID); err != nil {
		return fmt.Errorf("switch on: %w", err)
	}
	f.device.Status.Set(model.AttributeSwitch, model.SwitchOn, model.SourceOptimistic)
	return nil
}

func (f *Fan) switchOff(ctx context.Context) error {
	if err := f.commander.SwitchOff(ctx, f.device.ID); err != nil {
		return fmt.Errorf("switch off: %w", err)
	}
	f.device.Status.Set(model.AttributeSwitch, model.SwitchOff, model.SourceOptimistic)
	return nil
}

// IsOn reads the switch attribute of the latest snapshot.
func (f *Fan) IsOn() bool {
	return f.device.Status.Switch()
}

// Percentage is not applicable without FanFeatureSetSpeed or when the device
// has not reported a speed yet.
func (f *Fan) Percentage() (int, bool) {
	if !f.features.Has(FanFeatureSetSpeed) {
		return 0, false
	}
	speed, ok := f.device.Status.FanSpeed()
	if !ok {
		return 0, false
	}
	return FanSpeedRange.ToPercentage(speed), true
}

func (f *Fan) PresetMode() (string, bool) {
	if !f.features.Has(FanFeaturePresetMode) {
		return "", false
	}
	return f.device.Status.FanMode()
}

func (f *Fan) PresetModes() ([]string, bool) {
	if !f.features.Has(FanFeaturePresetMode) {
		return nil, false
	}
	return f.device.Status.SupportedAcFanModes()
}

func (f *Fan) State() model.EntityState {
	attrs := map[string]any{
		"is_on":       f.IsOn(),
		"speed_count": f.SpeedCount(),
	}
	if p, ok := f.Percentage(); ok {
		attrs["percentage"] = p
	}
	if m, ok := f.PresetMode(); ok {
		attrs["preset_mode"] = m
	}
	if modes, ok := f.PresetModes(); ok {
		attrs["preset_modes"] = modes
	}
	return baseState(f, attrs)
}

func (f *Fan) render(ctx context.Context) {
	if f.writer != nil {
		f.writer.WriteState(ctx, f.State())
	}
}
