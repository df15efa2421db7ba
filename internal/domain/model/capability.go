package model

// Capability ids as reported by the SmartThings device API.
const (
	CapabilitySwitch                = "switch"
	CapabilityFanSpeed              = "fanSpeed"
	CapabilityAirConditionerFanMode = "airConditionerFanMode"
	CapabilityDustSensor            = "dustSensor"
	CapabilityAirQualitySensor      = "airQualitySensor"
)

// Status attribute names.
const (
	AttributeSwitch              = "switch"
	AttributeFanSpeed            = "fanSpeed"
	AttributeFanMode             = "fanMode"
	AttributeSupportedAcFanModes = "supportedAcFanModes"
	AttributeFineDustLevel       = "fineDustLevel"
	AttributeDustLevel           = "dustLevel"
	AttributeVeryFineDustLevel   = "veryFineDustLevel"
	AttributeAirQuality          = "airQuality"
)

// Switch attribute values.
const (
	SwitchOn  = "on"
	SwitchOff = "off"
)
