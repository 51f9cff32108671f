package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_IdenticalPointsIsZero(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{55.7539, 37.6208},
		{-33.8688, 151.2093},
		{90, 180},
		{-90, -180},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1]), "point %v", p)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{55.7539, 37.6208, 59.9398, 30.3146},
		{48.8584, 2.2945, 40.6892, -74.0445},
		{-33.8568, 151.2153, 35.6586, 139.7454},
		{0, 179.9, 0, -179.9},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9, "pair %v", p)
	}
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want, delta            float64
	}{
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.01},
		{"across the antimeridian", 0, 179.5, 0, -179.5, 111.19, 0.01},
		{"Moscow to Saint Petersburg", 55.7558, 37.6173, 59.9343, 30.3351, 634, 2},
		{"antipodes", 0, 0, 0, 180, math.Pi * EarthRadiusKm, 1e-6},
		{"Red Square neighbourhood", 55.7539, 37.6208, 55.7540, 37.6210, 0.016, 0.002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.delta)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}
