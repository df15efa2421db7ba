package entity

import "fmt"

// Registry holds the platforms in assignment order.
type Registry struct {
	platforms []Platform
	byName    map[string]Platform
}

func NewRegistry(platforms ...Platform) *Registry {
	r := &Registry{byName: make(map[string]Platform, len(platforms))}
	for _, p := range platforms {
		r.platforms = append(r.platforms, p)
		r.byName[p.Name()] = p
	}
	return r
}

// NewDefaultRegistry registers every platform the bridge ships.
func NewDefaultRegistry() *Registry {
	return NewRegistry(&FanPlatform{}, &AirQualityPlatform{})
}

func (r *Registry) Platforms() []Platform {
	return r.platforms
}

func (r *Registry) Get(name string) (Platform, error) {
	if p, ok := r.byName[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, name)
}
