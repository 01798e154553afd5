package vitals

// Severity is the deterioration severity of a case stage.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Escalate returns the next severity level up. Severe is the ceiling.
func (s Severity) Escalate() Severity {
	switch s {
	case SeverityLow:
		return SeverityModerate
	case SeverityModerate:
		return SeveritySevere
	default:
		return SeveritySevere
	}
}

// DeteriorationRate holds signed per-tick (10 s) deltas for each vital.
type DeteriorationRate struct {
	HeartRate          float64 `json:"heart_rate"`
	RespRate           float64 `json:"resp_rate"`
	SystolicBP         float64 `json:"systolic_bp"`
	DiastolicBP        float64 `json:"diastolic_bp"`
	SpO2               float64 `json:"spo2"`
	TemperatureC       float64 `json:"temperature_c"`
	CapillaryRefillSec float64 `json:"capillary_refill_sec"`
}

// deteriorationRates maps severity to its per-tick deltas. Higher severity
// carries equal-or-larger magnitudes in the deteriorating direction.
var deteriorationRates = map[Severity]DeteriorationRate{
	SeverityLow: {
		HeartRate:          2,
		RespRate:           1,
		SystolicBP:         -1,
		DiastolicBP:        -1,
		SpO2:               -1,
		TemperatureC:       0.05,
		CapillaryRefillSec: 0.1,
	},
	SeverityModerate: {
		HeartRate:          5,
		RespRate:           2,
		SystolicBP:         -3,
		DiastolicBP:        -2,
		SpO2:               -2,
		TemperatureC:       0.1,
		CapillaryRefillSec: 0.2,
	},
	SeveritySevere: {
		HeartRate:          8,
		RespRate:           4,
		SystolicBP:         -5,
		DiastolicBP:        -3,
		SpO2:               -4,
		TemperatureC:       0.15,
		CapillaryRefillSec: 0.3,
	},
}

// RateFor returns the per-tick deterioration rate for a severity level.
// Unknown severities use the moderate rate.
func RateFor(s Severity) DeteriorationRate {
	if r, ok := deteriorationRates[s]; ok {
		return r
	}
	return deteriorationRates[SeverityModerate]
}

// Apply adds a signed delta set to a snapshot and clamps the result to the
// physiologic extremes. Pure and total: valid output for arbitrarily extreme
// input.
func Apply(v VitalSigns, d DeteriorationRate) VitalSigns {
	v.HeartRate += d.HeartRate
	v.RespRate += d.RespRate
	v.SystolicBP += d.SystolicBP
	v.DiastolicBP += d.DiastolicBP
	v.SpO2 += d.SpO2
	v.TemperatureC += d.TemperatureC
	v.CapillaryRefillSec += d.CapillaryRefillSec
	return Clamp(v)
}

// Deteriorate applies one tick of deterioration to a snapshot.
func Deteriorate(v VitalSigns, rate DeteriorationRate) VitalSigns {
	return Apply(v, rate)
}
