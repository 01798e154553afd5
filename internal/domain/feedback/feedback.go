// Package feedback implements the simplified, weighting-free debrief path.
// It classifies a closed selection log as correct/incorrect/ignored and emits
// templated coaching text; it shares no state with the weighted scorer.
package feedback

import (
	"fmt"
	"math"
	"time"

	"github.com/pedsim/pedsim/internal/domain/catalog"
)

const (
	maxFeedbackItems  = 6
	maxCriticalMisses = 4
	maxTips           = 3
	maxReinforcement  = 2

	rapidResponseWindow = 60 * time.Second
)

// Selection is one trainee choice as recorded by the session layer. Category
// may carry an explicit marker ("correct", "incorrect", "neutral") from
// legacy logs; when it does not, the label is classified against the stage's
// lists.
type Selection struct {
	Stage     int       `json:"stage"`
	Label     string    `json:"label"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the simplified feedback outcome.
type Result struct {
	ScorePercent          int      `json:"score_percent"`
	Correct               int      `json:"correct"`
	Incorrect             int      `json:"incorrect"`
	Ignored               int      `json:"ignored"`
	Feedback              []string `json:"feedback"`
	PrioritizationTips    []string `json:"prioritization_tips"`
	PositiveReinforcement []string `json:"positive_reinforcement"`
}

type classification int

const (
	classCorrect classification = iota
	classIncorrect
	classIgnored
)

// Generate produces the simplified debrief for a closed selection log.
func Generate(stages []catalog.Stage, selections []Selection) Result {
	byNumber := make(map[int]*catalog.Stage, len(stages))
	for i := range stages {
		byNumber[stages[i].Number] = &stages[i]
	}

	// De-dup by (stage, label), first occurrence wins.
	type key struct {
		stage int
		label string
	}
	seen := make(map[key]bool)
	var kept []Selection
	for _, sel := range selections {
		k := key{sel.Stage, sel.Label}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, sel)
	}

	res := Result{}
	completed := make(map[key]bool)
	var harmful []Selection
	var firstAction, firstCorrect *time.Time
	for _, sel := range kept {
		if firstAction == nil || sel.Timestamp.Before(*firstAction) {
			t := sel.Timestamp
			firstAction = &t
		}
		switch classify(sel, byNumber[sel.Stage]) {
		case classCorrect:
			res.Correct++
			completed[key{sel.Stage, sel.Label}] = true
			if firstCorrect == nil || sel.Timestamp.Before(*firstCorrect) {
				t := sel.Timestamp
				firstCorrect = &t
			}
		case classIncorrect:
			res.Incorrect++
			harmful = append(harmful, sel)
		case classIgnored:
			res.Ignored++
		}
	}

	if total := res.Correct + res.Incorrect; total > 0 {
		res.ScorePercent = int(math.Round(float64(res.Correct) / float64(total) * 100))
	}

	var missed []Selection
	for _, stage := range stages {
		for _, req := range stage.Required {
			if !completed[key{stage.Number, req}] {
				missed = append(missed, Selection{Stage: stage.Number, Label: req})
			}
		}
	}

	res.Feedback = buildFeedback(missed, harmful)
	res.PrioritizationTips = buildTips(missed, harmful, firstAction, firstCorrect)
	res.PositiveReinforcement = buildReinforcement(harmful, firstAction, firstCorrect)
	return res
}

func classify(sel Selection, stage *catalog.Stage) classification {
	switch sel.Category {
	case "correct", string(catalog.CategoryRequired):
		return classCorrect
	case "incorrect", string(catalog.CategoryHarmful):
		return classIncorrect
	case string(catalog.CategoryNeutral):
		return classIgnored
	}
	if stage == nil {
		return classIncorrect
	}
	switch {
	case onList(stage.Required, sel.Label), onList(stage.Helpful, sel.Label):
		return classCorrect
	case onList(stage.Harmful, sel.Label):
		return classIncorrect
	case onList(stage.Neutral, sel.Label):
		return classIgnored
	default:
		// Unrecognized for the stage counts against the trainee.
		return classIncorrect
	}
}

func onList(list []string, label string) bool {
	for _, l := range list {
		if l == label {
			return true
		}
	}
	return false
}

// missTemplates and harmTemplates key coaching text by label; anything not in
// the table falls back to a generic line.
var missTemplates = map[string]string{
	"IM Epinephrine":       "IM epinephrine is first-line for anaphylaxis and was not given: administer it without delay at the first sign of systemic reaction.",
	"IV Fluids Bolus":      "A fluid bolus was not started: hypotensive pediatric patients need early isotonic volume resuscitation.",
	"Diphenhydramine IV":   "Antihistamine coverage was missed: diphenhydramine blunts ongoing histamine release after epinephrine.",
	"High-Flow Oxygen":     "Supplemental oxygen was not applied: hypoxic children desaturate faster than adults.",
	"Albuterol Nebulized":  "Bronchodilator therapy was missed: continuous nebulized albuterol is the backbone of status asthmaticus care.",
	"Methylprednisolone IV": "Systemic steroids were not given: corticosteroids prevent the late-phase inflammatory rebound.",
	"Blood Cultures":       "Cultures were not drawn: obtain them before antibiotics whenever doing so does not delay the first dose.",
	"Broad-Spectrum Antibiotics": "Antibiotics were delayed or missed: every hour without antimicrobials worsens septic shock survival.",
}

var harmTemplates = map[string]string{
	"Oral Epinephrine": "Oral epinephrine was selected: the oral route is ineffective in anaphylaxis and delays definitive IM dosing.",
	"Beta Blocker":     "A beta blocker was given: beta blockade blunts the epinephrine response and can worsen shock.",
	"Sedation":         "Sedation was administered: sedating a compensating child can precipitate respiratory collapse.",
	"Discharge Home":   "The patient was discharged prematurely: biphasic reactions demand an observation period after stabilization.",
}

func buildFeedback(missed, harmful []Selection) []string {
	var out []string
	for _, m := range missed {
		if len(out) >= maxCriticalMisses {
			break
		}
		if text, ok := missTemplates[m.Label]; ok {
			out = append(out, text)
		} else {
			out = append(out, fmt.Sprintf("Required intervention %q was not performed in stage %d.", m.Label, m.Stage))
		}
	}
	for _, h := range harmful {
		if len(out) >= maxFeedbackItems {
			break
		}
		if text, ok := harmTemplates[h.Label]; ok {
			out = append(out, text)
		} else {
			out = append(out, fmt.Sprintf("%q was not an appropriate choice for stage %d.", h.Label, h.Stage))
		}
	}
	return out
}

func buildTips(missed, harmful []Selection, firstAction, firstCorrect *time.Time) []string {
	var tips []string
	if firstAction != nil && firstCorrect != nil && firstCorrect.Sub(*firstAction) > rapidResponseWindow {
		tips = append(tips, "Lead with the highest-impact treatment: the first correct action came late in the encounter.")
	}
	if len(missed) > 0 {
		tips = append(tips, "Walk the required interventions for each stage before reaching for adjunct therapies.")
	}
	if len(harmful) > 0 {
		tips = append(tips, "Verify route, dose, and indication before committing to a medication order.")
	}
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}

func buildReinforcement(harmful []Selection, firstAction, firstCorrect *time.Time) []string {
	var out []string
	if firstAction != nil && firstCorrect != nil && firstCorrect.Sub(*firstAction) <= rapidResponseWindow {
		out = append(out, "Strong initial response: a correct intervention landed within the first minute.")
	}
	if len(harmful) == 0 {
		out = append(out, "No harmful interventions were selected across the case.")
	}
	if len(out) > maxReinforcement {
		out = out[:maxReinforcement]
	}
	return out
}
