// Package mqtttopic is the topic layout shared by the MQTT publisher and the
// push listener.
package mqtttopic

import (
	"errors"
	"strings"
)

var ErrInvalidTopic = errors.New("invalid push topic")

// Topics builds and parses the bridge's topic layout:
//
//	<state prefix>/<platform>/<device>/state
//	<push prefix>/<device>/<attribute>
type Topics struct {
	StatePrefix string
	PushPrefix  string
}

func (t Topics) State(platform, deviceID string) string {
	return t.StatePrefix + "/" + platform + "/" + deviceID + "/state"
}

// PushWildcard matches every device attribute push.
func (t Topics) PushWildcard() string {
	return t.PushPrefix + "/+/+"
}

func (t Topics) ParsePush(topic string) (deviceID, attribute string, err error) {
	rest, ok := strings.CutPrefix(topic, t.PushPrefix+"/")
	if !ok {
		return "", "", ErrInvalidTopic
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidTopic
	}
	return parts[0], parts[1], nil
}
