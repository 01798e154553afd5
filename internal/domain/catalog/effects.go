package catalog

import "github.com/pedsim/pedsim/internal/domain/vitals"

// Fixed vital-sign deltas applied when an intervention of a category is
// administered. Required and helpful actions improve the patient; harmful
// actions worsen them; neutral actions change nothing.
var (
	improvingEffect = vitals.DeteriorationRate{
		HeartRate:          -5,
		RespRate:           -2,
		SystolicBP:         2,
		DiastolicBP:        1,
		SpO2:               2,
		CapillaryRefillSec: -0.2,
	}
	worseningEffect = vitals.DeteriorationRate{
		HeartRate:          10,
		RespRate:           4,
		SystolicBP:         -5,
		DiastolicBP:        -3,
		SpO2:               -3,
		CapillaryRefillSec: 0.3,
	}
)

// ApplyEffect returns the snapshot after the category's fixed effect,
// clamped to physiologic extremes. Pure: the input is not mutated.
func ApplyEffect(category InterventionCategory, v vitals.VitalSigns) vitals.VitalSigns {
	switch category {
	case CategoryRequired, CategoryHelpful:
		return vitals.Apply(v, improvingEffect)
	case CategoryHarmful:
		return vitals.Apply(v, worseningEffect)
	}
	return v
}
