package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	require.Len(t, r.Platforms(), 2)
	assert.Equal(t, PlatformFan, r.Platforms()[0].Name())

	p, err := r.Get(PlatformAirQuality)
	require.NoError(t, err)
	assert.IsType(t, &AirQualityPlatform{}, p)

	_, err = r.Get("light")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}
