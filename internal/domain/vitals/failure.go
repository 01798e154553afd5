package vitals

import "fmt"

// CheckFailure evaluates a snapshot against the critical thresholds in a
// fixed priority order: heart rate, respiratory rate, systolic BP, SpO2,
// temperature. It returns the first violated reason, or failed=false with an
// empty reason when the snapshot is survivable.
func CheckFailure(v VitalSigns, critical Bounds) (reason string, failed bool) {
	switch {
	case v.HeartRate < critical.HeartRate.Min:
		return fmt.Sprintf("heart rate %.0f bpm below critical threshold %.0f", v.HeartRate, critical.HeartRate.Min), true
	case v.HeartRate > critical.HeartRate.Max:
		return fmt.Sprintf("heart rate %.0f bpm above critical threshold %.0f", v.HeartRate, critical.HeartRate.Max), true
	case v.RespRate < critical.RespRate.Min:
		return fmt.Sprintf("respiratory rate %.0f/min below critical threshold %.0f", v.RespRate, critical.RespRate.Min), true
	case v.RespRate > critical.RespRate.Max:
		return fmt.Sprintf("respiratory rate %.0f/min above critical threshold %.0f", v.RespRate, critical.RespRate.Max), true
	case v.SystolicBP < critical.SystolicBP.Min:
		return fmt.Sprintf("systolic BP %.0f mmHg below critical threshold %.0f", v.SystolicBP, critical.SystolicBP.Min), true
	case v.SystolicBP > critical.SystolicBP.Max:
		return fmt.Sprintf("systolic BP %.0f mmHg above critical threshold %.0f", v.SystolicBP, critical.SystolicBP.Max), true
	case v.SpO2 < critical.SpO2.Min:
		return fmt.Sprintf("SpO2 %.0f%% below critical threshold %.0f%%", v.SpO2, critical.SpO2.Min), true
	case v.TemperatureC < critical.TemperatureC.Min:
		return fmt.Sprintf("temperature %.1f°C below critical threshold %.1f°C", v.TemperatureC, critical.TemperatureC.Min), true
	case v.TemperatureC > critical.TemperatureC.Max:
		return fmt.Sprintf("temperature %.1f°C above critical threshold %.1f°C", v.TemperatureC, critical.TemperatureC.Max), true
	}
	return "", false
}
