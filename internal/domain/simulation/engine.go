package simulation

import (
	"fmt"

	"github.com/pedsim/pedsim/internal/domain/catalog"
	"github.com/pedsim/pedsim/internal/domain/vitals"
)

const maxIncorrectActions = 3

// Engine is the stage progression state machine for a single case session.
// It owns the current StageState exclusively and performs no locking: callers
// serialize ticks and interventions per session. Independent sessions use
// independent engines with no shared state.
type Engine struct {
	caseDef *catalog.CaseDefinition
	opts    Options

	stage       int
	state       StageState
	status      Status
	failureKind FailureKind
	failReason  string
	elapsedSec  float64
}

// NewEngine creates an engine positioned at stage 1 of the case.
func NewEngine(def *catalog.CaseDefinition, opts Options) *Engine {
	e := &Engine{caseDef: def, opts: opts}
	e.Reset()
	return e
}

// Reset reinitializes the engine to stage 1 with fresh state. This is the
// only supported recovery path after a terminal failure.
func (e *Engine) Reset() {
	e.stage = 1
	e.status = StatusActive
	e.failureKind = FailureNone
	e.failReason = ""
	e.elapsedSec = 0
	e.enterStage(1, 0)
}

func (e *Engine) enterStage(n int, elapsed float64) {
	sev := vitals.SeverityModerate
	if s := e.caseDef.StageByNumber(n); s != nil {
		sev = s.Severity
	}
	e.stage = n
	e.state = StageState{Stage: n, Severity: sev, EnteredAtSec: elapsed}
}

// CurrentStage returns the active stage number.
func (e *Engine) CurrentStage() int { return e.stage }

// CurrentStageState returns a copy of the active stage's state.
func (e *Engine) CurrentStageState() StageState {
	st := e.state
	st.RequiredCompleted = append([]string(nil), e.state.RequiredCompleted...)
	st.OrderedCompleted = append([]string(nil), e.state.OrderedCompleted...)
	return st
}

// Status returns the engine lifecycle status.
func (e *Engine) Status() Status { return e.status }

// FailureKind reports which terminal failure occurred, if any.
func (e *Engine) FailureKind() FailureKind { return e.failureKind }

// FailureReason returns the recorded terminal failure reason, if any.
func (e *Engine) FailureReason() string { return e.failReason }

func (e *Engine) lastStage() int {
	last := 0
	for _, s := range e.caseDef.Stages {
		if s.Number > last {
			last = s.Number
		}
	}
	return last
}

// progressionMet reports whether the stage's required interventions are
// complete. Ordered stages additionally demand position-for-position equality
// with the required list. A stage with zero required interventions is never
// satisfied by this check.
func (e *Engine) progressionMet(stage *catalog.Stage) bool {
	if len(stage.Required) == 0 {
		return false
	}
	done := make(map[string]bool, len(e.state.RequiredCompleted))
	for _, l := range e.state.RequiredCompleted {
		done[l] = true
	}
	for _, req := range stage.Required {
		if !done[req] {
			return false
		}
	}
	if stage.Ordered {
		if len(e.state.OrderedCompleted) != len(stage.Required) {
			return false
		}
		for i, req := range stage.Required {
			if e.state.OrderedCompleted[i] != req {
				return false
			}
		}
	}
	return true
}

func (e *Engine) failPhysiologic(reason string) {
	e.status = StatusFailed
	e.failureKind = FailurePhysiologic
	e.failReason = reason
}

// ProcessTick advances the simulation clock by one tick. elapsedSec is the
// total simulated time since case start.
func (e *Engine) ProcessTick(v vitals.VitalSigns, elapsedSec float64) TickResult {
	if e.status != StatusActive {
		return TickResult{Vitals: v, NoOp: true, Completed: e.status == StatusCompleted, FailureReason: e.failReason}
	}
	stage := e.caseDef.StageByNumber(e.stage)
	if stage == nil {
		return TickResult{Vitals: v, NoOp: true}
	}
	e.elapsedSec = elapsedSec

	critical := vitals.CriticalBounds(e.caseDef.AgeBand)
	if reason, failed := vitals.CheckFailure(v, critical); failed {
		e.failPhysiologic(reason)
		return TickResult{Vitals: v, FailureReason: reason}
	}

	res := TickResult{}
	if !e.state.Stabilized {
		v = vitals.Deteriorate(v, vitals.RateFor(e.state.Severity))
		res.DeteriorationApplied = true
	}

	e.state.TicksInStage++
	if e.opts.EscalationTicks > 0 && e.state.TicksInStage%e.opts.EscalationTicks == 0 {
		next := e.state.Severity.Escalate()
		if next != e.state.Severity {
			e.state.Severity = next
			res.SeverityEscalated = true
		}
	}

	if e.progressionMet(stage) {
		if e.stage >= e.lastStage() {
			e.status = StatusCompleted
			res.Completed = true
		} else {
			e.enterStage(e.stage+1, elapsedSec)
			res.Advanced = true
			res.NextStage = e.stage
		}
	}

	res.Vitals = v
	return res
}

// ProcessIntervention classifies and applies a trainee action against the
// active stage.
func (e *Engine) ProcessIntervention(interventionID string, v vitals.VitalSigns) InterventionResult {
	if e.status != StatusActive {
		return InterventionResult{Vitals: v, NoOp: true, Completed: e.status == StatusCompleted, FailureReason: e.failReason}
	}
	stage := e.caseDef.StageByNumber(e.stage)
	if stage == nil {
		return InterventionResult{Vitals: v, NoOp: true}
	}

	// One canonical resolution step: completion is always tracked by the
	// resolved label, never by the raw alias id.
	label := catalog.ResolveIntervention(interventionID, stage)
	category := catalog.Classify(label, stage)

	res := InterventionResult{Label: label, Classification: category}

	if category == catalog.CategoryHarmful {
		e.state.IncorrectActions++
		if e.state.IncorrectActions >= maxIncorrectActions {
			e.status = StatusFailed
			e.failureKind = FailureUnsafe
			e.failReason = fmt.Sprintf("%d harmful interventions in stage %d: case terminated as unsafe", e.state.IncorrectActions, e.stage)
			res.ThreeStrikeFailure = true
			res.FailureReason = e.failReason
			res.Vitals = v
			return res
		}
	}

	v = catalog.ApplyEffect(category, v)
	res.Vitals = v

	// Completion is a set: repeating an already-completed required label is
	// idempotent on both the unordered and the ordered record.
	if category == catalog.CategoryRequired && !containsLabel(e.state.RequiredCompleted, label) {
		e.state.RequiredCompleted = append(e.state.RequiredCompleted, label)
		if stage.Ordered {
			e.state.OrderedCompleted = append(e.state.OrderedCompleted, label)
		}
	}

	critical := vitals.CriticalBounds(e.caseDef.AgeBand)
	if reason, failed := vitals.CheckFailure(v, critical); failed {
		// The intervention succeeded procedurally; the patient still crossed
		// a critical threshold.
		e.failPhysiologic(reason)
		res.FailureReason = reason
		return res
	}

	res.Success = true
	if e.progressionMet(stage) {
		res.ProgressionMet = true
		inWindow := e.elapsedSec-e.state.EnteredAtSec <= e.opts.StabilizationWindowSec
		if e.opts.EarlyStabilizationEnabled && inWindow && !e.state.Stabilized {
			// Stabilization override: freeze deterioration and let the next
			// tick perform the advance.
			e.state.Stabilized = true
		} else if e.stage >= e.lastStage() {
			e.status = StatusCompleted
			res.Completed = true
		} else {
			e.enterStage(e.stage+1, e.elapsedSec)
			res.Advanced = true
			res.NextStage = e.stage
		}
	}
	return res
}

func containsLabel(list []string, label string) bool {
	for _, l := range list {
		if l == label {
			return true
		}
	}
	return false
}
