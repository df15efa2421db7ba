package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"smarterthings-bridge/internal/domain/entity"
	"smarterthings-bridge/internal/domain/model"
	"smarterthings-bridge/internal/ports"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var (
	ErrNotConfigured  = errors.New("SmartThings is not configured")
	ErrDeviceNotFound = errors.New("device not found")
	ErrEntityNotFound = errors.New("entity not found")
)

// Broker keeps the discovered devices, the platform each capability was
// assigned to, and the entities built for them.
type Broker struct {
	client   ports.DeviceClient
	writer   ports.StateWriter
	registry *entity.Registry
	log      zerolog.Logger

	mu          sync.RWMutex
	devices     map[string]*model.Device
	assignments map[string]map[string][]string // device id -> platform -> capabilities
	entities    map[string]entity.Entity       // entity id -> entity
}

func NewBroker(client ports.DeviceClient, writer ports.StateWriter, registry *entity.Registry, log zerolog.Logger) *Broker {
	return &Broker{
		client:      client,
		writer:      writer,
		registry:    registry,
		log:         log.With().Str("component", "broker").Logger(),
		devices:     make(map[string]*model.Device),
		assignments: make(map[string]map[string][]string),
		entities:    make(map[string]entity.Entity),
	}
}

// Refresh reloads devices and their status from the cloud. Devices whose
// capability set is unchanged keep their entities and only get a fresh status
// snapshot; any other device gets new entities. A device whose status cannot
// be read is skipped, or kept unchanged when it was already known.
func (b *Broker) Refresh(ctx context.Context) error {
	if !b.client.IsConfigured() {
		return ErrNotConfigured
	}
	listed, err := b.client.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	statuses := make(map[string]map[string]any, len(listed))
	for _, d := range listed {
		status, err := b.client.GetStatus(ctx, d.ID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warn().Err(err).Str("device_id", d.ID).Msg("Skipping device, status unavailable")
			continue
		}
		statuses[d.ID] = status
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	devices := make(map[string]*model.Device, len(listed))
	assignments := make(map[string]map[string][]string, len(listed))
	entities := make(map[string]entity.Entity)

	for _, d := range listed {
		current, known := b.devices[d.ID]
		status, fetched := statuses[d.ID]
		if !fetched && !known {
			continue
		}
		if known && (!fetched || current.SameCapabilities(d.Capabilities)) {
			// Without a fresh status a known device stays as it was.
			if fetched {
				current.SetNames(d.Label, d.Name)
				current.Status.Replace(status, model.SourceRefresh)
			}
			devices[d.ID] = current
			assignments[d.ID] = b.assignments[d.ID]
			for id, e := range b.entities {
				if e.Device() == current {
					entities[id] = e
				}
			}
			continue
		}

		if known {
			b.log.Info().Str("device_id", d.ID).Strs("capabilities", d.Capabilities).Msg("Capabilities changed, rebuilding entities")
		}
		d.Status = model.NewStatus(status)
		devices[d.ID] = d
		assignments[d.ID] = b.assign(d)
		for _, e := range b.build(d, assignments[d.ID]) {
			entities[e.ID()] = e
		}
	}

	b.devices = devices
	b.assignments = assignments
	b.entities = entities
	b.log.Info().Int("devices", len(devices)).Int("entities", len(entities)).Msg("Devices refreshed")
	return nil
}

// assign hands each capability to the first platform claiming it.
func (b *Broker) assign(d *model.Device) map[string][]string {
	remaining := lo.Uniq(d.Capabilities)
	assigned := make(map[string][]string)
	for _, p := range b.registry.Platforms() {
		caps := p.Capabilities(remaining)
		if len(caps) == 0 {
			continue
		}
		assigned[p.Name()] = caps
		remaining, _ = lo.Difference(remaining, caps)
	}
	return assigned
}

func (b *Broker) build(d *model.Device, assigned map[string][]string) []entity.Entity {
	deps := entity.Deps{Commander: b.client, Writer: b.writer, Logger: b.log}
	var built []entity.Entity
	for _, p := range b.registry.Platforms() {
		if len(assigned[p.Gate()]) == 0 {
			continue
		}
		built = append(built, p.New(d, deps))
	}
	return built
}

// AnyAssigned reports whether any capability of the device went to platform.
func (b *Broker) AnyAssigned(deviceID, platform string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.assignments[deviceID][platform]) > 0
}

func (b *Broker) Devices() []*model.Device {
	b.mu.RLock()
	defer b.mu.RUnlock()
	devices := lo.Values(b.devices)
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices
}

func (b *Broker) Device(id string) (*model.Device, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	return d, nil
}

// Entities returns every entity sorted by id.
func (b *Broker) Entities() []entity.Entity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entities := lo.Values(b.entities)
	sort.Slice(entities, func(i, j int) bool { return entities[i].ID() < entities[j].ID() })
	return entities
}

func (b *Broker) Entity(id string) (entity.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	return e, nil
}

// Fan returns the fan entity of a device.
func (b *Broker) Fan(deviceID string) (*entity.Fan, error) {
	e, err := b.Entity(entity.EntityID(entity.PlatformFan, deviceID))
	if err != nil {
		return nil, err
	}
	fan, ok := e.(*entity.Fan)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a fan", ErrEntityNotFound, e.ID())
	}
	return fan, nil
}

// ApplyPush writes an authoritative attribute value and re-renders every
// entity of the device. Pushes for unknown devices are dropped.
func (b *Broker) ApplyPush(ctx context.Context, deviceID, attribute string, value any) {
	b.mu.RLock()
	d, ok := b.devices[deviceID]
	var affected []entity.Entity
	if ok {
		for _, e := range b.entities {
			if e.Device() == d {
				affected = append(affected, e)
			}
		}
	}
	b.mu.RUnlock()

	if !ok {
		b.log.Debug().Str("device_id", deviceID).Str("attribute", attribute).Msg("Dropping push for unknown device")
		return
	}

	d.Status.Set(attribute, value, model.SourcePush)
	if b.writer == nil {
		return
	}
	for _, e := range affected {
		b.writer.WriteState(ctx, e.State())
	}
}
