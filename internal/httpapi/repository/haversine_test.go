package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Same point
	assert.InDelta(t, 0, HaversineKm(12.9716, 77.5946, 12.9716, 77.5946), 0.001)

	// Bengaluru city center to Koramangala, roughly 6 km
	d := HaversineKm(12.9716, 77.5946, 12.9352, 77.6245)
	assert.InDelta(t, 5.2, d, 1.0)

	// Bengaluru to Chennai, roughly 290 km
	d = HaversineKm(12.9716, 77.5946, 13.0827, 80.2707)
	assert.InDelta(t, 290, d, 10)

	// Order of endpoints does not matter
	assert.InDelta(t,
		HaversineKm(12.9716, 77.5946, 13.0827, 80.2707),
		HaversineKm(13.0827, 80.2707, 12.9716, 77.5946),
		0.0001)
}
