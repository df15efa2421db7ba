package model

import (
	"sync"

	"github.com/samber/lo"
)

// Device is the vendor-side handle of one cloud registered appliance.
// The broker owns it; entities keep a pointer and never replace it.
// Label and Name are set at construction; later renames go through SetNames.
type Device struct {
	ID           string
	Label        string
	Name         string
	Capabilities []string
	Status       *Status

	mu sync.RWMutex
}

// HasCapability reports whether the device advertised capability c.
func (d *Device) HasCapability(c string) bool {
	return lo.Contains(d.Capabilities, c)
}

// DisplayName prefers the user assigned label.
func (d *Device) DisplayName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Label != "" {
		return d.Label
	}
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// SetNames renames a device other goroutines may be reading.
func (d *Device) SetNames(label, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Label, d.Name = label, name
}

// SameCapabilities reports whether other advertises exactly the capability
// set of d, ignoring order.
func (d *Device) SameCapabilities(other []string) bool {
	left, right := lo.Difference(lo.Uniq(d.Capabilities), lo.Uniq(other))
	return len(left) == 0 && len(right) == 0
}
