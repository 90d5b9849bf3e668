package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	oslo := Point{Lat: 59.9139, Lng: 10.7522}
	bergen := Point{Lat: 60.3913, Lng: 5.3221}

	d := DistanceKm(oslo, bergen)
	assert.InDelta(t, 305, d, 5, "Oslo to Bergen is roughly 305 km")

	assert.Zero(t, DistanceKm(oslo, oslo))
	assert.InDelta(t, DistanceKm(oslo, bergen), DistanceKm(bergen, oslo), 1e-9)
}
