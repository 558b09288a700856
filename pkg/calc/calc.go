// Package calc implements the aquarium calculators served under /api/v1/tools.
package calc

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid calculator input")

const (
	cubicInchesPerGallon = 231.0
	litersPerGallon      = 3.78541
	poundsPerGallon      = 8.34
	bowfrontFactor       = 0.9
)

// round keeps display values stable (decimal avoids 10.399999 artifacts).
func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func positive(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

// finite rejects results that overflowed float64 and cannot be rounded.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type TankShape string

const (
	ShapeRectangular TankShape = "rectangular"
	ShapeCylinder    TankShape = "cylinder"
	ShapeBowfront    TankShape = "bowfront"
)

type TankVolumeResult struct {
	Gallons      float64 `json:"gallons"`
	Liters       float64 `json:"liters"`
	WeightPounds float64 `json:"weight_lbs"`
}

// TankVolume takes dimensions in inches. For a cylinder, width is the diameter.
func TankVolume(shape TankShape, length, width, height float64) (TankVolumeResult, error) {
	var gallons float64
	switch shape {
	case ShapeRectangular, "":
		if !positive(length, width, height) {
			return TankVolumeResult{}, ErrInvalidInput
		}
		gallons = length * width * height / cubicInchesPerGallon
	case ShapeBowfront:
		if !positive(length, width, height) {
			return TankVolumeResult{}, ErrInvalidInput
		}
		gallons = length * width * height / cubicInchesPerGallon * bowfrontFactor
	case ShapeCylinder:
		if !positive(width, height) {
			return TankVolumeResult{}, ErrInvalidInput
		}
		r := width / 2
		gallons = math.Pi * r * r * height / cubicInchesPerGallon
	default:
		return TankVolumeResult{}, ErrInvalidInput
	}
	if !finite(gallons*litersPerGallon, gallons*poundsPerGallon) {
		return TankVolumeResult{}, ErrInvalidInput
	}

	return TankVolumeResult{
		Gallons:      round(gallons, 1),
		Liters:       round(gallons*litersPerGallon, 1),
		WeightPounds: round(gallons*poundsPerGallon, 0),
	}, nil
}

type HeaterResult struct {
	BaseWatts   float64 `json:"base_watts"`
	MinWatts    float64 `json:"min_watts"`
	MaxWatts    float64 `json:"max_watts"`
	TempDeltaF  float64 `json:"temp_delta_f"`
	NoHeaterFor bool    `json:"no_heater_needed"`
}

// HeaterWattage uses 5 W per gallon scaled by the temperature lift over room temperature.
func HeaterWattage(gallons, roomF, desiredF float64) (HeaterResult, error) {
	if !positive(gallons) || !finite(roomF, desiredF) {
		return HeaterResult{}, ErrInvalidInput
	}
	base := gallons * 5
	delta := desiredF - roomF
	if !finite(base, delta, base*(1+delta/15)) {
		return HeaterResult{}, ErrInvalidInput
	}
	if delta <= 0 {
		return HeaterResult{BaseWatts: base, MinWatts: base, MaxWatts: base, TempDeltaF: delta, NoHeaterFor: true}, nil
	}
	return HeaterResult{
		BaseWatts:  round(base, 0),
		MinWatts:   round(base*(1+delta/20), 0),
		MaxWatts:   round(base*(1+delta/15), 0),
		TempDeltaF: delta,
	}, nil
}

const (
	CO2TooLow       = "Too Low"
	CO2Ideal        = "Ideal"
	CO2SlightlyHigh = "Slightly High"
	CO2Dangerous    = "Dangerous"
)

type CO2Result struct {
	PPM           float64 `json:"ppm"`
	Status        string  `json:"status"`
	BubblesPerSec int     `json:"suggested_bubbles_per_sec,omitempty"`
}

// CO2PPM estimates dissolved CO2 from pH and carbonate hardness (dKH).
// gallons is optional and only used for the bubble-rate hint when CO2 is too low.
func CO2PPM(pH, kh, gallons float64) (CO2Result, error) {
	if !positive(pH, kh) || pH > 14 {
		return CO2Result{}, ErrInvalidInput
	}
	raw := 3 * kh * math.Pow(10, 7-pH)
	if !finite(raw) {
		return CO2Result{}, ErrInvalidInput
	}
	// bucket on the displayed value so the label always agrees with the number shown
	ppm := round(raw, 1)

	res := CO2Result{PPM: ppm}
	switch {
	case ppm < 15:
		res.Status = CO2TooLow
		if gallons > 0 {
			res.BubblesPerSec = int(math.Max(1, math.Round(gallons/25)))
		}
	case ppm <= 30:
		res.Status = CO2Ideal
	case ppm <= 40:
		res.Status = CO2SlightlyHigh
	default:
		res.Status = CO2Dangerous
	}
	return res, nil
}

const (
	SalinityTooLow       = "Too Low"
	SalinityIdeal        = "Ideal"
	SalinitySlightlyHigh = "Slightly High"

	idealSGMin = 1.025
	idealSGMax = 1.026
)

type SalinityResult struct {
	SpecificGravity float64 `json:"specific_gravity"`
	PPT             float64 `json:"ppt"`
	Status          string  `json:"status"`
}

func PPTToSG(ppt float64) float64 {
	return 1 + ppt/1000
}

func SGToPPT(sg float64) float64 {
	return (sg - 1) * 1000
}

func salinityStatus(sg float64) string {
	sg = round(sg, 4)
	switch {
	case sg < idealSGMin:
		return SalinityTooLow
	case sg > idealSGMax:
		return SalinitySlightlyHigh
	default:
		return SalinityIdeal
	}
}

// SalinityFromPPT converts parts per thousand to specific gravity.
func SalinityFromPPT(ppt float64) (SalinityResult, error) {
	if !positive(ppt) {
		return SalinityResult{}, ErrInvalidInput
	}
	sg := PPTToSG(ppt)
	if !finite(sg) {
		return SalinityResult{}, ErrInvalidInput
	}
	return SalinityResult{SpecificGravity: round(sg, 4), PPT: round(ppt, 1), Status: salinityStatus(sg)}, nil
}

// SalinityFromSG converts specific gravity to parts per thousand.
func SalinityFromSG(sg float64) (SalinityResult, error) {
	if !positive(sg) || sg < 1 || !finite(SGToPPT(sg)) {
		return SalinityResult{}, ErrInvalidInput
	}
	return SalinityResult{SpecificGravity: round(sg, 4), PPT: round(SGToPPT(sg), 1), Status: salinityStatus(sg)}, nil
}

type StockingCategory string

const (
	StockFreshwater StockingCategory = "freshwater"
	StockCichlids   StockingCategory = "cichlids"
	StockSaltwater  StockingCategory = "saltwater"
	StockReef       StockingCategory = "reef"
)

type StockingResult struct {
	MinInches int    `json:"min_inches"`
	MaxInches int    `json:"max_inches"`
	Rule      string `json:"rule"`
}

// Stocking returns an inches-of-fish range for the tank. Low is always <= high.
func Stocking(gallons float64, category StockingCategory) (StockingResult, error) {
	if !positive(gallons) {
		return StockingResult{}, ErrInvalidInput
	}
	var a, b float64
	var rule string
	switch category {
	case StockFreshwater, "":
		a, b, rule = gallons, gallons*1.5, "1 inch per gallon"
	case StockCichlids:
		a, b, rule = gallons/1.5, gallons/2, "1 inch per 1.5 gallons"
	case StockSaltwater:
		a, b, rule = gallons/3, gallons/4, "1 inch per 3 gallons (FOWLR)"
	case StockReef:
		a, b, rule = gallons/4, gallons/5, "1 inch per 4 gallons"
	default:
		return StockingResult{}, ErrInvalidInput
	}
	if !finite(b) || math.Max(a, b) > math.MaxInt32 {
		return StockingResult{}, ErrInvalidInput
	}
	lo, hi := int(math.Floor(a)), int(math.Floor(b))
	if lo > hi {
		lo, hi = hi, lo
	}
	return StockingResult{MinInches: lo, MaxInches: hi, Rule: rule}, nil
}

type WaterChangeResult struct {
	Gallons   float64 `json:"gallons"`
	Liters    float64 `json:"liters"`
	Frequency string  `json:"frequency"`
}

// WaterChange computes the volume to replace for a percentage change and a suggested cadence.
func WaterChange(gallons, percent float64) (WaterChangeResult, error) {
	if !positive(gallons, percent) || percent > 100 {
		return WaterChangeResult{}, ErrInvalidInput
	}
	vol := gallons * percent / 100
	if !finite(vol*litersPerGallon) {
		return WaterChangeResult{}, ErrInvalidInput
	}

	freq := "Weekly"
	switch {
	case percent <= 15:
		freq = "Every 2 weeks"
	case percent > 40:
		freq = "Twice weekly or more"
	}
	return WaterChangeResult{
		Gallons:   round(vol, 1),
		Liters:    round(vol*litersPerGallon, 1),
		Frequency: freq,
	}, nil
}
