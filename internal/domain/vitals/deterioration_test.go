package vitals

import (
	"math"
	"testing"
)

func TestDeteriorateAppliesRate(t *testing.T) {
	v := VitalSigns{HeartRate: 120, RespRate: 30, SystolicBP: 90, DiastolicBP: 60, SpO2: 95, TemperatureC: 37, CapillaryRefillSec: 2}
	out := Deteriorate(v, RateFor(SeverityModerate))
	if out.HeartRate != 125 {
		t.Errorf("expected heart rate 125, got %.0f", out.HeartRate)
	}
	if out.SpO2 != 93 {
		t.Errorf("expected SpO2 93, got %.0f", out.SpO2)
	}
	if out.SystolicBP != 87 {
		t.Errorf("expected systolic BP 87, got %.0f", out.SystolicBP)
	}
}

func TestDeteriorateClampsAtExtremes(t *testing.T) {
	severities := []Severity{SeverityLow, SeverityModerate, SeveritySevere}
	extreme := []VitalSigns{
		{HeartRate: 300, RespRate: 120, SystolicBP: 0, DiastolicBP: 0, SpO2: 0, TemperatureC: 45, CapillaryRefillSec: 10},
		{HeartRate: 0, RespRate: 0, SystolicBP: 300, DiastolicBP: 200, SpO2: 100, TemperatureC: 25, CapillaryRefillSec: 0},
		{HeartRate: 1e9, RespRate: -1e9, SystolicBP: 1e9, DiastolicBP: -1e9, SpO2: 1e9, TemperatureC: -1e9, CapillaryRefillSec: 1e9},
	}
	for _, sev := range severities {
		for _, v := range extreme {
			out := Deteriorate(v, RateFor(sev))
			if out.HeartRate < 0 || out.HeartRate > 300 {
				t.Errorf("%s: heart rate %.0f out of physiologic range", sev, out.HeartRate)
			}
			if out.RespRate < 0 || out.RespRate > 120 {
				t.Errorf("%s: resp rate %.0f out of physiologic range", sev, out.RespRate)
			}
			if out.SpO2 < 0 || out.SpO2 > 100 {
				t.Errorf("%s: SpO2 %.0f out of physiologic range", sev, out.SpO2)
			}
			if out.TemperatureC < 25 || out.TemperatureC > 45 {
				t.Errorf("%s: temperature %.1f out of physiologic range", sev, out.TemperatureC)
			}
			if out.CapillaryRefillSec < 0 || out.CapillaryRefillSec > 10 {
				t.Errorf("%s: capillary refill %.1f out of physiologic range", sev, out.CapillaryRefillSec)
			}
		}
	}
}

func TestRateMagnitudeGrowsWithSeverity(t *testing.T) {
	low, mod, sev := RateFor(SeverityLow), RateFor(SeverityModerate), RateFor(SeveritySevere)
	check := func(name string, a, b, c float64) {
		if math.Abs(b) < math.Abs(a) || math.Abs(c) < math.Abs(b) {
			t.Errorf("%s: magnitudes not non-decreasing with severity (%.2f, %.2f, %.2f)", name, a, b, c)
		}
	}
	check("heart_rate", low.HeartRate, mod.HeartRate, sev.HeartRate)
	check("resp_rate", low.RespRate, mod.RespRate, sev.RespRate)
	check("systolic_bp", low.SystolicBP, mod.SystolicBP, sev.SystolicBP)
	check("spo2", low.SpO2, mod.SpO2, sev.SpO2)
	check("temperature_c", low.TemperatureC, mod.TemperatureC, sev.TemperatureC)
	check("capillary_refill", low.CapillaryRefillSec, mod.CapillaryRefillSec, sev.CapillaryRefillSec)
}

func TestEscalateCeiling(t *testing.T) {
	if SeverityLow.Escalate() != SeverityModerate {
		t.Error("expected low to escalate to moderate")
	}
	if SeverityModerate.Escalate() != SeveritySevere {
		t.Error("expected moderate to escalate to severe")
	}
	if SeveritySevere.Escalate() != SeveritySevere {
		t.Error("expected severe to remain severe")
	}
}
