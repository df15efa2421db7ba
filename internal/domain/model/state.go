package model

// EntityState is what an entity hands to the host platform when it asks
// for a re-render.
type EntityState struct {
	EntityID   string         `json:"entity_id"`
	Platform   string         `json:"platform"`
	DeviceID   string         `json:"device_id"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
	Pending    []string       `json:"pending,omitempty"`
}

// HueMetadata describes how an entity is presented on the Hue API.
type HueMetadata struct {
	Type             string
	ModelID          string
	ManufacturerName string
}
