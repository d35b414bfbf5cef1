package kernel_test

import (
	"math"
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{name: "bengaluru", lat: 12.9716, lng: 77.5946},
		{name: "origin", lat: 0, lng: 0},
		{name: "corners", lat: -90, lng: 180},
		{name: "latitude too large", lat: 90.0001, lng: 0, wantErr: true},
		{name: "longitude too small", lat: 0, lng: -180.5, wantErr: true},
		{name: "nan latitude", lat: math.NaN(), lng: 0, wantErr: true},
		{name: "infinite longitude", lat: 0, lng: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				require.Error(t, p.Validate())
				return
			}
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.InDelta(t, tt.lat, p.Lat(), 0)
			assert.InDelta(t, tt.lng, p.Lng(), 0)
		})
	}

	t.Run("reports both coordinates at once", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(100, 200)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "is lat")
		assert.Contains(t, err.Error(), "is lng")
	})
}

func TestGeoPoint_ZeroValue(t *testing.T) {
	var p kernel.GeoPoint
	require.ErrorIs(t, p.Validate(), errs.ErrValueIsRequired)
}

func TestGeoPoint_IsNear(t *testing.T) {
	a, err := kernel.NewGeoPoint(12.0, 77.0)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(12.0+1e-10, 77.0-1e-10)
	require.NoError(t, err)
	c, err := kernel.NewGeoPoint(12.01, 77.0)
	require.NoError(t, err)

	assert.True(t, a.IsNear(b, 1e-9))
	assert.False(t, a.IsNear(c, 1e-9))
}

func TestGeoPoint_String(t *testing.T) {
	p, err := kernel.NewGeoPoint(12.5, -77.25)
	require.NoError(t, err)
	assert.Equal(t, "GeoPoint(12.500000,-77.250000)", p.String())
}
