package vitals

import (
	"strings"
	"testing"
)

func stableVitals() VitalSigns {
	return VitalSigns{HeartRate: 120, RespRate: 28, SystolicBP: 95, DiastolicBP: 60, SpO2: 96, TemperatureC: 37, CapillaryRefillSec: 2, Consciousness: ConsciousnessAlert}
}

func TestCheckFailureStableVitalsPass(t *testing.T) {
	reason, failed := CheckFailure(stableVitals(), CriticalBounds(BandPreschool))
	if failed {
		t.Errorf("expected stable vitals to pass, got failure: %s", reason)
	}
}

func TestCheckFailureDetectsLowSpO2(t *testing.T) {
	v := stableVitals()
	v.SpO2 = 60
	reason, failed := CheckFailure(v, CriticalBounds(BandPreschool))
	if !failed {
		t.Fatal("expected failure for SpO2 60")
	}
	if !strings.Contains(reason, "SpO2") {
		t.Errorf("expected reason to mention SpO2, got %q", reason)
	}
}

func TestCheckFailurePriorityOrder(t *testing.T) {
	// Both heart rate and SpO2 are critical; heart rate has higher priority.
	v := stableVitals()
	v.HeartRate = 250
	v.SpO2 = 50
	reason, failed := CheckFailure(v, CriticalBounds(BandPreschool))
	if !failed {
		t.Fatal("expected failure")
	}
	if !strings.Contains(reason, "heart rate") {
		t.Errorf("expected heart rate to be reported first, got %q", reason)
	}
}

func TestCheckFailureLenientAgainstNormalRange(t *testing.T) {
	// Clearly abnormal but not yet critical: should not terminate the case.
	v := stableVitals()
	v.HeartRate = 170
	v.SpO2 = 88
	if reason, failed := CheckFailure(v, CriticalBounds(BandPreschool)); failed {
		t.Errorf("expected abnormal-but-survivable vitals to pass, got %q", reason)
	}
}

func TestCheckFailureTemperature(t *testing.T) {
	v := stableVitals()
	v.TemperatureC = 42.5
	reason, failed := CheckFailure(v, CriticalBounds(BandSchool))
	if !failed {
		t.Fatal("expected failure for temperature 42.5")
	}
	if !strings.Contains(reason, "temperature") {
		t.Errorf("expected reason to mention temperature, got %q", reason)
	}
}
