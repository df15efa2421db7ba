package model

import "time"

type SmartThingsConfig struct {
	URL        string        `yaml:"url" json:"url"`
	Token      string        `yaml:"token" json:"token"`
	LocationID string        `yaml:"location_id" json:"location_id"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker" json:"broker"`
	ClientID    string `yaml:"client_id" json:"client_id"`
	Username    string `yaml:"username" json:"username"`
	Password    string `yaml:"password" json:"password"`
	QoS         byte   `yaml:"qos" json:"qos"`
	PushPrefix  string `yaml:"push_prefix" json:"push_prefix"`   // vendor status pushes: <prefix>/<device>/<attribute>
	StatePrefix string `yaml:"state_prefix" json:"state_prefix"` // entity renders: <prefix>/<platform>/<device>/state
}

type HueConfig struct {
	LocalIP     string `yaml:"local_ip" json:"local_ip"`
	HTTPAddr    string `yaml:"http_addr" json:"http_addr"`
	DisableSSDP bool   `yaml:"disable_ssdp" json:"disable_ssdp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // json or console
}

type Config struct {
	SmartThings     SmartThingsConfig `yaml:"smartthings" json:"smartthings"`
	MQTT            MQTTConfig        `yaml:"mqtt" json:"mqtt"`
	Hue             HueConfig         `yaml:"hue" json:"hue"`
	Logging         LoggingConfig     `yaml:"logging" json:"logging"`
	RefreshInterval time.Duration     `yaml:"refresh_interval" json:"refresh_interval"`
}

// Defaults used for every field left empty in the config file.
const (
	DefaultSmartThingsURL = "https://api.smartthings.com/v1"
	DefaultTimeout        = 10 * time.Second
	DefaultMQTTClientID   = "smarterthings-bridge"
	DefaultPushPrefix     = "smartthings"
	DefaultStatePrefix    = "smarterthings"
	DefaultHTTPAddr       = ":80"
)

// ApplyDefaults fills empty fields in place.
func (c *Config) ApplyDefaults() {
	if c.SmartThings.URL == "" {
		c.SmartThings.URL = DefaultSmartThingsURL
	}
	if c.SmartThings.Timeout <= 0 {
		c.SmartThings.Timeout = DefaultTimeout
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = DefaultMQTTClientID
	}
	if c.MQTT.PushPrefix == "" {
		c.MQTT.PushPrefix = DefaultPushPrefix
	}
	if c.MQTT.StatePrefix == "" {
		c.MQTT.StatePrefix = DefaultStatePrefix
	}
	if c.MQTT.QoS > 2 {
		c.MQTT.QoS = 1
	}
	if c.Hue.HTTPAddr == "" {
		c.Hue.HTTPAddr = DefaultHTTPAddr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Masked returns a copy safe to hand out over the admin API.
func (c Config) Masked() Config {
	if c.SmartThings.Token != "" {
		c.SmartThings.Token = "********"
	}
	if c.MQTT.Password != "" {
		c.MQTT.Password = "********"
	}
	return c
}
