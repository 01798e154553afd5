package vitals

// Consciousness is the enumerated consciousness level of a vitals snapshot,
// following the AVPU scale.
type Consciousness string

const (
	ConsciousnessAlert        Consciousness = "alert"
	ConsciousnessVerbal       Consciousness = "verbal"
	ConsciousnessPain         Consciousness = "pain"
	ConsciousnessUnresponsive Consciousness = "unresponsive"
)

// VitalSigns is a mutable snapshot of a simulated patient's vital signs.
// The model keeps no history; callers snapshot it before and after ticks.
type VitalSigns struct {
	HeartRate          float64       `db:"heart_rate" json:"heart_rate"`
	RespRate           float64       `db:"resp_rate" json:"resp_rate"`
	SystolicBP         float64       `db:"systolic_bp" json:"systolic_bp"`
	DiastolicBP        float64       `db:"diastolic_bp" json:"diastolic_bp"`
	SpO2               float64       `db:"spo2" json:"spo2"`
	TemperatureC       float64       `db:"temperature_c" json:"temperature_c"`
	CapillaryRefillSec float64       `db:"cap_refill_sec" json:"capillary_refill_sec"`
	Consciousness      Consciousness `db:"consciousness" json:"consciousness"`
}

// AgeBand identifies the pediatric age band a bounds table applies to.
type AgeBand string

const (
	BandNeonatal   AgeBand = "neonatal"
	BandInfant     AgeBand = "infant"
	BandToddler    AgeBand = "toddler"
	BandPreschool  AgeBand = "preschool"
	BandSchool     AgeBand = "school"
	BandAdolescent AgeBand = "adolescent"
)

// Range is an inclusive min/max pair for a single vital.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Bounds holds a per-vital range set for one age band. The same shape serves
// both the informational normal ranges and the tighter critical thresholds
// that terminate a case.
type Bounds struct {
	HeartRate    Range `json:"heart_rate"`
	RespRate     Range `json:"resp_rate"`
	SystolicBP   Range `json:"systolic_bp"`
	SpO2         Range `json:"spo2"`
	TemperatureC Range `json:"temperature_c"`
}

// Physiologic extremes per vital, distinct from the age-banded bounds.
// Deterioration and intervention effects clamp into these regardless of how
// extreme the input is.
var (
	extremeHeartRate   = Range{Min: 0, Max: 300}
	extremeRespRate    = Range{Min: 0, Max: 120}
	extremeSystolicBP  = Range{Min: 0, Max: 300}
	extremeDiastolicBP = Range{Min: 0, Max: 200}
	extremeSpO2        = Range{Min: 0, Max: 100}
	extremeTemperature = Range{Min: 25, Max: 45}
	extremeCapRefill   = Range{Min: 0, Max: 10}
)

// normalBounds is the informational normal-range table per age band.
var normalBounds = map[AgeBand]Bounds{
	BandNeonatal: {
		HeartRate:    Range{100, 180},
		RespRate:     Range{30, 60},
		SystolicBP:   Range{60, 90},
		SpO2:         Range{92, 100},
		TemperatureC: Range{36.5, 37.5},
	},
	BandInfant: {
		HeartRate:    Range{100, 160},
		RespRate:     Range{25, 50},
		SystolicBP:   Range{70, 100},
		SpO2:         Range{94, 100},
		TemperatureC: Range{36.5, 37.5},
	},
	BandToddler: {
		HeartRate:    Range{90, 150},
		RespRate:     Range{20, 40},
		SystolicBP:   Range{80, 110},
		SpO2:         Range{94, 100},
		TemperatureC: Range{36.5, 37.5},
	},
	BandPreschool: {
		HeartRate:    Range{80, 140},
		RespRate:     Range{20, 30},
		SystolicBP:   Range{85, 110},
		SpO2:         Range{94, 100},
		TemperatureC: Range{36.5, 37.5},
	},
	BandSchool: {
		HeartRate:    Range{70, 120},
		RespRate:     Range{16, 26},
		SystolicBP:   Range{90, 120},
		SpO2:         Range{95, 100},
		TemperatureC: Range{36.5, 37.5},
	},
	BandAdolescent: {
		HeartRate:    Range{60, 100},
		RespRate:     Range{12, 20},
		SystolicBP:   Range{100, 130},
		SpO2:         Range{95, 100},
		TemperatureC: Range{36.5, 37.5},
	},
}

// criticalBounds is deliberately looser than the normal ranges: ordinary
// deterioration should not end a case, only truly dangerous states do.
var criticalBounds = map[AgeBand]Bounds{
	BandNeonatal: {
		HeartRate:    Range{60, 230},
		RespRate:     Range{10, 90},
		SystolicBP:   Range{40, 140},
		SpO2:         Range{70, 100},
		TemperatureC: Range{34, 41},
	},
	BandInfant: {
		HeartRate:    Range{60, 220},
		RespRate:     Range{10, 80},
		SystolicBP:   Range{50, 150},
		SpO2:         Range{72, 100},
		TemperatureC: Range{34, 41},
	},
	BandToddler: {
		HeartRate:    Range{50, 210},
		RespRate:     Range{8, 70},
		SystolicBP:   Range{55, 160},
		SpO2:         Range{72, 100},
		TemperatureC: Range{34, 41},
	},
	BandPreschool: {
		HeartRate:    Range{50, 200},
		RespRate:     Range{8, 60},
		SystolicBP:   Range{60, 160},
		SpO2:         Range{75, 100},
		TemperatureC: Range{34, 41},
	},
	BandSchool: {
		HeartRate:    Range{45, 190},
		RespRate:     Range{8, 50},
		SystolicBP:   Range{65, 170},
		SpO2:         Range{75, 100},
		TemperatureC: Range{34, 41},
	},
	BandAdolescent: {
		HeartRate:    Range{40, 180},
		RespRate:     Range{6, 45},
		SystolicBP:   Range{70, 180},
		SpO2:         Range{78, 100},
		TemperatureC: Range{34, 41},
	},
}

// NormalBounds returns the informational normal ranges for an age band.
// Unknown bands fall back to the school-age table.
func NormalBounds(band AgeBand) Bounds {
	if b, ok := normalBounds[band]; ok {
		return b
	}
	return normalBounds[BandSchool]
}

// CriticalBounds returns the case-failure thresholds for an age band.
// Unknown bands fall back to the school-age table.
func CriticalBounds(band AgeBand) Bounds {
	if b, ok := criticalBounds[band]; ok {
		return b
	}
	return criticalBounds[BandSchool]
}

func clamp(v float64, r Range) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Clamp forces every vital in the snapshot into its physiologic extreme range.
func Clamp(v VitalSigns) VitalSigns {
	v.HeartRate = clamp(v.HeartRate, extremeHeartRate)
	v.RespRate = clamp(v.RespRate, extremeRespRate)
	v.SystolicBP = clamp(v.SystolicBP, extremeSystolicBP)
	v.DiastolicBP = clamp(v.DiastolicBP, extremeDiastolicBP)
	v.SpO2 = clamp(v.SpO2, extremeSpO2)
	v.TemperatureC = clamp(v.TemperatureC, extremeTemperature)
	v.CapillaryRefillSec = clamp(v.CapillaryRefillSec, extremeCapRefill)
	return v
}
