package simulation

import (
	"github.com/pedsim/pedsim/internal/domain/catalog"
	"github.com/pedsim/pedsim/internal/domain/vitals"
)

// Status is the lifecycle state of an engine.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// FailureKind distinguishes the two terminal failure modes so callers can
// branch their presentation.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailurePhysiologic FailureKind = "physiologic"
	FailureUnsafe      FailureKind = "unsafe_action"
)

// StageState is the per-stage mutable record owned by the engine. It is
// created on stage entry and replaced on advance or reset.
type StageState struct {
	Stage             int             `json:"stage"`
	Severity          vitals.Severity `json:"severity"`
	Stabilized        bool            `json:"stabilized"`
	EnteredAtSec      float64         `json:"entered_at_sec"`
	TicksInStage      int             `json:"ticks_in_stage"`
	IncorrectActions  int             `json:"incorrect_actions"`
	RequiredCompleted []string        `json:"required_completed"`
	OrderedCompleted  []string        `json:"ordered_completed"`
}

// TickResult is the outcome of one deterioration tick.
type TickResult struct {
	Vitals               vitals.VitalSigns `json:"vitals"`
	DeteriorationApplied bool              `json:"deterioration_applied"`
	SeverityEscalated    bool              `json:"severity_escalated"`
	Advanced             bool              `json:"advanced"`
	NextStage            int               `json:"next_stage,omitempty"`
	Completed            bool              `json:"completed"`
	FailureReason        string            `json:"failure_reason,omitempty"`
	NoOp                 bool              `json:"no_op,omitempty"`
}

// InterventionResult is the outcome of one trainee intervention.
type InterventionResult struct {
	Success            bool                         `json:"success"`
	Vitals             vitals.VitalSigns            `json:"vitals"`
	Label              string                       `json:"label"`
	Classification     catalog.InterventionCategory `json:"classification"`
	ProgressionMet     bool                         `json:"progression_met"`
	Advanced           bool                         `json:"advanced"`
	NextStage          int                          `json:"next_stage,omitempty"`
	Completed          bool                         `json:"completed"`
	ThreeStrikeFailure bool                         `json:"three_strike_failure"`
	FailureReason      string                       `json:"failure_reason,omitempty"`
	NoOp               bool                         `json:"no_op,omitempty"`
}

// Options are the engine policy knobs surfaced through configuration.
type Options struct {
	// EarlyStabilizationEnabled controls the stabilization override: when a
	// stage's requirements are met within StabilizationWindowSec of stage
	// entry, deterioration freezes and the advance happens on the next tick.
	EarlyStabilizationEnabled bool
	StabilizationWindowSec    float64
	// EscalationTicks is the number of in-stage ticks between severity
	// escalation checks.
	EscalationTicks int
}

// DefaultOptions mirror the source behavior: 10-second stabilization window,
// escalation every 3 ticks (30 simulated seconds), override enabled.
func DefaultOptions() Options {
	return Options{
		EarlyStabilizationEnabled: true,
		StabilizationWindowSec:    10,
		EscalationTicks:           3,
	}
}
