package scoring

import (
	"math"
	"time"

	"github.com/pedsim/pedsim/internal/domain/catalog"
)

// Interaction is one recorded trainee action, as the scorer sees it: the
// resolved label, the category it was classified as at the time, and when it
// happened. Scoring is a pure read over a closed log.
type Interaction struct {
	Stage     int                          `json:"stage"`
	Label     string                       `json:"label"`
	Category  catalog.InterventionCategory `json:"category"`
	Timestamp time.Time                    `json:"timestamp"`
}

// StageTime records when a stage started and, once left, when it ended. A
// stage with no end time marks the whole case incomplete.
type StageTime struct {
	Stage     int        `json:"stage"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// History is the full closed interaction log for one case run.
type History struct {
	Interactions []Interaction `json:"interactions"`
	StageTimes   []StageTime   `json:"stage_times"`
}

// StageBreakdown carries the per-stage accounting behind the final score.
type StageBreakdown struct {
	Stage          int      `json:"stage"`
	RequiredCount  int      `json:"required_count"`
	HelpfulCount   int      `json:"helpful_count"`
	NeutralCount   int      `json:"neutral_count"`
	HarmfulCount   int      `json:"harmful_count"`
	MissedRequired []string `json:"missed_required"`
	TimedOut       bool     `json:"timed_out"`
	OrderBonus     bool     `json:"order_bonus"`
	EarlyBonus     bool     `json:"early_bonus"`
	Raw            int      `json:"raw"`
	MaxPossible    int      `json:"max_possible"`
}

// Result is the outcome of a weighted scoring run.
type Result struct {
	Score      int              `json:"score"`
	Rating     string           `json:"rating"`
	Incomplete bool             `json:"incomplete"`
	Stages     []StageBreakdown `json:"stages"`
}

// Score computes the weighted score for a closed interaction log against the
// case's stage definitions. It never fails: unmatched labels simply
// contribute nothing.
func Score(w Weights, stages []catalog.Stage, hist History) Result {
	byStage := make(map[int][]Interaction)
	for _, ia := range hist.Interactions {
		byStage[ia.Stage] = append(byStage[ia.Stage], ia)
	}
	times := make(map[int]StageTime, len(hist.StageTimes))
	for _, st := range hist.StageTimes {
		times[st.Stage] = st
	}

	res := Result{Stages: make([]StageBreakdown, 0, len(stages))}
	var rawSum, maxSum int
	for _, stage := range stages {
		st, hasTime := times[stage.Number]
		if !hasTime || st.EndedAt == nil {
			res.Incomplete = true
		}
		bd := scoreStage(w, stage, byStage[stage.Number], st, hasTime)
		rawSum += bd.Raw
		maxSum += bd.MaxPossible
		res.Stages = append(res.Stages, bd)
	}

	if maxSum > 0 {
		pct := float64(rawSum) / float64(maxSum) * 100
		res.Score = int(math.Round(math.Min(100, math.Max(0, pct))))
	}
	res.Rating = RatingFor(res.Score)
	return res
}

func scoreStage(w Weights, stage catalog.Stage, interactions []Interaction, st StageTime, hasTime bool) StageBreakdown {
	bd := StageBreakdown{Stage: stage.Number}

	// De-dup by label within each category, first occurrence wins.
	type key struct {
		cat   catalog.InterventionCategory
		label string
	}
	seen := make(map[key]bool)
	completedRequired := make(map[string]time.Time)
	var earliestRequired, earliestHarmful *time.Time
	for _, ia := range interactions {
		k := key{ia.Category, ia.Label}
		if seen[k] {
			continue
		}
		seen[k] = true
		switch ia.Category {
		case catalog.CategoryRequired:
			bd.RequiredCount++
			completedRequired[ia.Label] = ia.Timestamp
			if earliestRequired == nil || ia.Timestamp.Before(*earliestRequired) {
				t := ia.Timestamp
				earliestRequired = &t
			}
		case catalog.CategoryHelpful:
			bd.HelpfulCount++
		case catalog.CategoryHarmful:
			bd.HarmfulCount++
			if earliestHarmful == nil || ia.Timestamp.Before(*earliestHarmful) {
				t := ia.Timestamp
				earliestHarmful = &t
			}
		case catalog.CategoryNeutral:
			bd.NeutralCount++
		}
	}

	for _, req := range stage.Required {
		if _, ok := completedRequired[req]; !ok {
			bd.MissedRequired = append(bd.MissedRequired, req)
		}
	}

	if hasTime && stage.TimeLimitSec > 0 {
		end := time.Now()
		if st.EndedAt != nil {
			end = *st.EndedAt
		}
		bd.TimedOut = end.Sub(st.StartedAt) > time.Duration(stage.TimeLimitSec)*time.Second
	}

	// The order bonus rewards acting on required interventions before any
	// harmful one; a harmful-free run earns it outright so a flawless case
	// can reach the full ceiling.
	if earliestRequired != nil {
		bd.OrderBonus = earliestHarmful == nil || earliestRequired.Before(*earliestHarmful)
	}

	if ea := stage.EarlyAction; ea != nil && hasTime {
		if ts, ok := completedRequired[ea.Label]; ok {
			bd.EarlyBonus = ts.Sub(st.StartedAt) <= time.Duration(ea.WindowSec)*time.Second
		}
	}

	helpful := bd.HelpfulCount
	if helpful > w.HelpfulCap {
		helpful = w.HelpfulCap
	}
	bd.Raw = bd.RequiredCount*w.PointsRequired +
		helpful*w.PointsHelpful +
		bd.NeutralCount*w.PointsNeutral +
		bd.HarmfulCount*w.PointsHarmful +
		len(bd.MissedRequired)*w.PointsMissed
	if bd.TimedOut {
		bd.Raw += w.TimeoutPenalty
	}
	if bd.OrderBonus {
		bd.Raw += w.OrderBonus
	}
	if bd.EarlyBonus {
		bd.Raw += w.EarlyBonus
	}

	// The ceiling counts only terms this stage can actually earn.
	helpfulCeiling := len(stage.Helpful)
	if helpfulCeiling > w.HelpfulCap {
		helpfulCeiling = w.HelpfulCap
	}
	bd.MaxPossible = len(stage.Required)*w.PointsRequired + helpfulCeiling*w.PointsHelpful
	if len(stage.Required) > 0 {
		bd.MaxPossible += w.OrderBonus
	}
	if stage.EarlyAction != nil {
		bd.MaxPossible += w.EarlyBonus
	}
	return bd
}
