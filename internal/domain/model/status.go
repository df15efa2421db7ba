package model

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// Source identifies who wrote an attribute value last.
type Source int

const (
	// SourceRefresh is a value loaded from a full status fetch.
	SourceRefresh Source = iota
	// SourceOptimistic is a value written locally right after a command
	// was accepted, before the cloud confirmed it.
	SourceOptimistic
	// SourcePush is a value delivered by an asynchronous status push.
	SourcePush
)

func (s Source) String() string {
	switch s {
	case SourceOptimistic:
		return "optimistic"
	case SourcePush:
		return "push"
	default:
		return "refresh"
	}
}

// AttributeValue is one entry of a status snapshot.
type AttributeValue struct {
	Value     any
	Source    Source
	UpdatedAt time.Time
}

// Status is the last known attribute snapshot of a device.
//
// Writers never coordinate: an optimistic write and a push for the same
// attribute simply overwrite each other and the later one wins. An attribute
// whose latest write is optimistic stays pending until the next push or
// refresh replaces it.
//
// All methods are safe for concurrent use.
type Status struct {
	mu    sync.RWMutex
	attrs map[string]AttributeValue
	now   func() time.Time
}

// NewStatus returns a snapshot seeded with values as SourceRefresh.
func NewStatus(values map[string]any) *Status {
	s := &Status{
		attrs: make(map[string]AttributeValue, len(values)),
		now:   time.Now,
	}
	s.Replace(values, SourceRefresh)
	return s
}

// Replace swaps the whole snapshot for values.
func (s *Status) Replace(values map[string]any, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now()
	s.attrs = make(map[string]AttributeValue, len(values))
	for k, v := range values {
		s.attrs[k] = AttributeValue{Value: v, Source: src, UpdatedAt: ts}
	}
}

// Set writes one attribute.
func (s *Status) Set(name string, value any, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs[name] = AttributeValue{Value: value, Source: src, UpdatedAt: s.now()}
}

// Get returns the attribute entry and whether the key is present.
func (s *Status) Get(name string) (AttributeValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[name]
	return v, ok
}

// Value returns the raw attribute value.
func (s *Status) Value(name string) (any, bool) {
	v, ok := s.Get(name)
	if !ok {
		return nil, false
	}
	return v.Value, true
}

// Has reports whether the attribute key is present.
func (s *Status) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Pending returns the names of attributes whose latest write is optimistic.
func (s *Status) Pending() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for k, v := range s.attrs {
		if v.Source == SourceOptimistic {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the raw attribute values.
func (s *Status) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v.Value
	}
	return out
}

// Float returns a numeric attribute. Values that cannot be coerced read as
// missing.
func (s *Status) Float(name string) (float64, bool) {
	v, ok := s.Value(name)
	if !ok || v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns an integer attribute.
func (s *Status) Int(name string) (int, bool) {
	v, ok := s.Value(name)
	if !ok || v == nil {
		return 0, false
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// String returns a string attribute.
func (s *Status) String(name string) (string, bool) {
	v, ok := s.Value(name)
	if !ok || v == nil {
		return "", false
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return str, true
}

// Strings returns a list attribute.
func (s *Status) Strings(name string) ([]string, bool) {
	v, ok := s.Value(name)
	if !ok || v == nil {
		return nil, false
	}
	list, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, false
	}
	return list, true
}

// Switch reports the switch attribute. SmartThings sends "on"/"off"; booleans
// are accepted as well.
func (s *Status) Switch() bool {
	v, ok := s.Value(AttributeSwitch)
	if !ok || v == nil {
		return false
	}
	if str, isStr := v.(string); isStr {
		return strings.EqualFold(str, SwitchOn)
	}
	return cast.ToBool(v)
}

// FanSpeed returns the raw fanSpeed level.
func (s *Status) FanSpeed() (int, bool) {
	return s.Int(AttributeFanSpeed)
}

// FanMode returns the current airConditionerFanMode value.
func (s *Status) FanMode() (string, bool) {
	return s.String(AttributeFanMode)
}

// SupportedAcFanModes returns the fan modes the device reports.
func (s *Status) SupportedAcFanModes() ([]string, bool) {
	return s.Strings(AttributeSupportedAcFanModes)
}
