package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pedsim/pedsim/internal/domain/vitals"
)

// InterventionCategory is the closed classification of a trainee action
// against the active stage's label sets.
type InterventionCategory string

const (
	CategoryRequired InterventionCategory = "required"
	CategoryHelpful  InterventionCategory = "helpful"
	CategoryHarmful  InterventionCategory = "harmful"
	CategoryNeutral  InterventionCategory = "neutral"
)

// EarlyAction configures the early-action scoring bonus for a stage: the
// critical label must be completed as a required action within WindowSec of
// stage start.
type EarlyAction struct {
	Label     string `json:"label"`
	WindowSec int    `json:"window_sec"`
}

// Stage is one ordered phase of a clinical case.
type Stage struct {
	Number       int             `json:"number"`
	Severity     vitals.Severity `json:"severity"`
	TimeLimitSec int             `json:"time_limit_sec,omitempty"` // 0 = no limit
	Ordered      bool            `json:"ordered"`
	Required     []string        `json:"required"`
	Helpful      []string        `json:"helpful"`
	Harmful      []string        `json:"harmful"`
	Neutral      []string        `json:"neutral"`
	EarlyAction  *EarlyAction    `json:"early_action,omitempty"`
}

// CaseDefinition describes a complete simulated case.
type CaseDefinition struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	AgeBand       vitals.AgeBand    `json:"age_band"`
	InitialVitals vitals.VitalSigns `json:"initial_vitals"`
	Stages        []Stage           `json:"stages"`
}

// StageByNumber returns the stage with the given number, or nil when the
// number is absent from the definition.
func (c *CaseDefinition) StageByNumber(n int) *Stage {
	for i := range c.Stages {
		if c.Stages[i].Number == n {
			return &c.Stages[i]
		}
	}
	return nil
}

// ResolveIntervention maps an index-style alias (required_0, helpful_2, ...)
// to the stage's literal label. Anything that does not resolve — a malformed
// alias, an out-of-range index, or a plain label — is returned as-is and
// treated as a literal label downstream.
func ResolveIntervention(id string, stage *Stage) string {
	idx := strings.LastIndex(id, "_")
	if idx <= 0 || stage == nil {
		return id
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil || n < 0 {
		return id
	}
	var list []string
	switch id[:idx] {
	case "required":
		list = stage.Required
	case "helpful":
		list = stage.Helpful
	case "harmful":
		list = stage.Harmful
	case "neutral":
		list = stage.Neutral
	default:
		return id
	}
	if n >= len(list) {
		return id
	}
	return list[n]
}

// Classify judges a resolved label against the stage's label sets. Resolution
// order follows the source behavior: required, helpful, harmful, neutral;
// labels on no list default to neutral. Pure: no state is touched.
func Classify(label string, stage *Stage) InterventionCategory {
	if stage == nil {
		return CategoryNeutral
	}
	switch {
	case contains(stage.Required, label):
		return CategoryRequired
	case contains(stage.Helpful, label):
		return CategoryHelpful
	case contains(stage.Harmful, label):
		return CategoryHarmful
	case contains(stage.Neutral, label):
		return CategoryNeutral
	}
	return CategoryNeutral
}

func contains(list []string, label string) bool {
	for _, l := range list {
		if l == label {
			return true
		}
	}
	return false
}

// Validate flags authoring errors in a case definition: a label appearing in
// more than one of a stage's four sets, and stages with zero required
// interventions, which can never satisfy the progression rule.
func (c *CaseDefinition) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("case id is required")
	}
	if len(c.Stages) == 0 {
		return fmt.Errorf("case %s: at least one stage is required", c.ID)
	}
	for _, s := range c.Stages {
		if len(s.Required) == 0 {
			return fmt.Errorf("case %s stage %d: zero required interventions; stage can never progress", c.ID, s.Number)
		}
		seen := map[string]string{}
		for set, labels := range map[string][]string{
			"required": s.Required,
			"helpful":  s.Helpful,
			"harmful":  s.Harmful,
			"neutral":  s.Neutral,
		} {
			for _, l := range labels {
				if prev, dup := seen[l]; dup {
					return fmt.Errorf("case %s stage %d: label %q appears in both %s and %s sets", c.ID, s.Number, l, prev, set)
				}
				seen[l] = set
			}
		}
	}
	return nil
}
