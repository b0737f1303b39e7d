package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Опорная точка — центр Москвы.
const (
	refLat = 55.7558
	refLon = 37.6173
)

func TestHaversineKm_ZeroDistance(t *testing.T) {
	assert.InDelta(t, 0, HaversineKm(refLat, refLon, refLat, refLon), 1e-9)
}

func TestHaversineKm_KnownDistances(t *testing.T) {
	// Москва — Санкт-Петербург, около 634 км.
	d := HaversineKm(refLat, refLon, 59.9343, 30.3351)
	assert.InDelta(t, 634, d, 5)

	// Один градус широты — примерно 111.19 км на сфере радиуса 6371.
	d = HaversineKm(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.05)
}

func TestHaversineKm_RadiusFilter(t *testing.T) {
	const radius = 10.0

	// Точка заведомо внутри радиуса (~1.1 км к северу).
	inside := HaversineKm(refLat, refLon, refLat+0.01, refLon)
	assert.Less(t, inside, radius)

	// Точка заведомо снаружи (~55 км).
	outside := HaversineKm(refLat, refLon, refLat+0.5, refLon)
	assert.Greater(t, outside, radius)

	// Точка около границы: 10 км к северу — это ~0.0899 градуса широты.
	boundary := HaversineKm(refLat, refLon, refLat+10.0/111.19, refLon)
	assert.InDelta(t, radius, boundary, 0.01)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(55.75, 37.61))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(91, 0))
	assert.False(t, ValidCoordinates(0, -181))
}
