package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoord(t *testing.T) {
	c, err := parseCoord("42.6977, 23.3219")
	require.NoError(t, err)
	assert.Equal(t, 42.6977, c.Lat)
	assert.Equal(t, 23.3219, c.Lon)

	for _, in := range []string{"", "42.6", "a,b", "95,10", "1,2,3"} {
		_, err := parseCoord(in)
		assert.Error(t, err, in)
	}
}
