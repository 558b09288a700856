package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTankVolume(t *testing.T) {
	tests := []struct {
		name        string
		shape       TankShape
		l, w, h     float64
		wantGallons float64
		wantErr     bool
	}{
		{name: "rectangular 20x10x12", shape: ShapeRectangular, l: 20, w: 10, h: 12, wantGallons: 10.4},
		{name: "cylinder width 10 height 12", shape: ShapeCylinder, w: 10, h: 12, wantGallons: 4.1},
		{name: "bowfront is 90 percent of rectangular", shape: ShapeBowfront, l: 20, w: 10, h: 12, wantGallons: 9.4},
		{name: "default shape is rectangular", shape: "", l: 20, w: 10, h: 12, wantGallons: 10.4},
		{name: "zero dimension", shape: ShapeRectangular, l: 0, w: 10, h: 12, wantErr: true},
		{name: "unknown shape", shape: "hexagon", l: 1, w: 1, h: 1, wantErr: true},
		{name: "NaN", shape: ShapeRectangular, l: math.NaN(), w: 1, h: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TankVolume(tt.shape, tt.l, tt.w, tt.h)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantGallons, got.Gallons, 0.05)
		})
	}

	res, err := TankVolume(ShapeRectangular, 20, 10, 12)
	require.NoError(t, err)
	assert.InDelta(t, 2400.0/231*3.78541, res.Liters, 0.1)

	cyl, err := TankVolume(ShapeCylinder, 0, 10, 12)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi*25*12/231, cyl.Gallons, 0.05)
}

func TestHeaterWattage(t *testing.T) {
	res, err := HeaterWattage(55, 70, 78)
	require.NoError(t, err)

	assert.Equal(t, 275.0, res.BaseWatts)
	// 275*(1+8/20) and 275*(1+8/15)
	assert.Equal(t, 385.0, res.MinWatts)
	assert.Equal(t, 422.0, res.MaxWatts)
	assert.Equal(t, 8.0, res.TempDeltaF)
	assert.False(t, res.NoHeaterFor)

	warm, err := HeaterWattage(55, 80, 78)
	require.NoError(t, err)
	assert.True(t, warm.NoHeaterFor)

	_, err = HeaterWattage(0, 70, 78)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCO2PPM(t *testing.T) {
	tests := []struct {
		name    string
		pH, kh  float64
		gallons float64
		wantPPM float64
		status  string
		bubbles int
	}{
		{name: "pH 7 KH 4 is too low", pH: 7.0, kh: 4, gallons: 55, wantPPM: 12, status: CO2TooLow, bubbles: 2},
		{name: "ideal", pH: 6.8, kh: 4, wantPPM: 19, status: CO2Ideal},
		{name: "slightly high", pH: 6.6, kh: 4, wantPPM: 30.1, status: CO2SlightlyHigh},
		{name: "dangerous", pH: 6.4, kh: 4, wantPPM: 47.8, status: CO2Dangerous},
		{name: "tiny tank still suggests one bubble", pH: 7.0, kh: 4, gallons: 5, wantPPM: 12, status: CO2TooLow, bubbles: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CO2PPM(tt.pH, tt.kh, tt.gallons)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantPPM, res.PPM, 0.1)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.bubbles, res.BubblesPerSec)
		})
	}

	_, err := CO2PPM(15, 4, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSalinity(t *testing.T) {
	fromPPT, err := SalinityFromPPT(35)
	require.NoError(t, err)
	assert.Equal(t, 1.035, fromPPT.SpecificGravity)
	assert.Equal(t, SalinitySlightlyHigh, fromPPT.Status)

	fromSG, err := SalinityFromSG(1.026)
	require.NoError(t, err)
	assert.Equal(t, 26.0, fromSG.PPT)
	assert.Equal(t, SalinityIdeal, fromSG.Status)

	ideal, err := SalinityFromSG(1.025)
	require.NoError(t, err)
	assert.Equal(t, SalinityIdeal, ideal.Status)

	low, err := SalinityFromPPT(20)
	require.NoError(t, err)
	assert.Equal(t, SalinityTooLow, low.Status)

	_, err = SalinityFromSG(0.9)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStocking(t *testing.T) {
	tests := []struct {
		name     string
		gallons  float64
		category StockingCategory
		min, max int
	}{
		{name: "55 gal freshwater", gallons: 55, category: StockFreshwater, min: 55, max: 82},
		{name: "55 gal cichlids", gallons: 55, category: StockCichlids, min: 27, max: 36},
		{name: "55 gal FOWLR", gallons: 55, category: StockSaltwater, min: 13, max: 18},
		{name: "55 gal reef", gallons: 55, category: StockReef, min: 11, max: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Stocking(tt.gallons, tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.min, res.MinInches)
			assert.Equal(t, tt.max, res.MaxInches)
			assert.LessOrEqual(t, res.MinInches, res.MaxInches)
		})
	}

	_, err := Stocking(55, "pond")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWaterChange(t *testing.T) {
	tests := []struct {
		pct       float64
		gallons   float64
		frequency string
	}{
		{pct: 10, gallons: 5.5, frequency: "Every 2 weeks"},
		{pct: 15, gallons: 8.3, frequency: "Every 2 weeks"},
		{pct: 25, gallons: 13.8, frequency: "Weekly"},
		{pct: 40, gallons: 22, frequency: "Weekly"},
		{pct: 50, gallons: 27.5, frequency: "Twice weekly or more"},
	}

	for _, tt := range tests {
		res, err := WaterChange(55, tt.pct)
		require.NoError(t, err)
		assert.InDelta(t, tt.gallons, res.Gallons, 0.05)
		assert.Equal(t, tt.frequency, res.Frequency)
	}

	_, err := WaterChange(55, 120)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculators_RejectNonFiniteResults(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name string
		run  func() error
	}{
		{"heater desired temp Inf", func() error { _, err := HeaterWattage(55, 70, inf); return err }},
		{"heater room temp -Inf", func() error { _, err := HeaterWattage(55, math.Inf(-1), 78); return err }},
		{"heater lift overflows", func() error { _, err := HeaterWattage(1e300, -1e300, 1e300); return err }},
		{"co2 overflows", func() error { _, err := CO2PPM(1, 1e302, 0); return err }},
		{"tank overflows", func() error { _, err := TankVolume(ShapeRectangular, 1e200, 1e200, 1e200); return err }},
		{"cylinder overflows", func() error { _, err := TankVolume(ShapeCylinder, 0, 1e200, 1e200); return err }},
		{"salinity from huge sg", func() error { _, err := SalinityFromSG(1e307); return err }},
		{"stocking huge tank", func() error { _, err := Stocking(1e308, StockFreshwater); return err }},
		{"water change huge tank", func() error { _, err := WaterChange(1e308, 50); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = tt.run() })
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
