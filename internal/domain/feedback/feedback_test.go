package feedback

import (
	"strings"
	"testing"
	"time"

	"github.com/pedsim/pedsim/internal/domain/catalog"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func stages() []catalog.Stage {
	return []catalog.Stage{
		{
			Number:   1,
			Required: []string{"IM Epinephrine", "IV Fluids Bolus"},
			Helpful:  []string{"High-Flow Oxygen"},
			Harmful:  []string{"Oral Epinephrine"},
			Neutral:  []string{"Chest X-Ray"},
		},
	}
}

func TestUnlistedLabelCountsIncorrect(t *testing.T) {
	res := Generate(stages(), []Selection{
		{Stage: 1, Label: "Oxygen", Category: "helpful", Timestamp: at(5)},
		{Stage: 1, Label: "IM Epinephrine", Category: "required", Timestamp: at(10)},
	})
	if res.Correct != 1 || res.Incorrect != 1 {
		t.Fatalf("expected 1 correct / 1 incorrect, got %d/%d", res.Correct, res.Incorrect)
	}
	if res.ScorePercent != 50 {
		t.Errorf("expected 50%%, got %d", res.ScorePercent)
	}
}

func TestExplicitMarkersOverrideLists(t *testing.T) {
	res := Generate(stages(), []Selection{
		{Stage: 1, Label: "Something Custom", Category: "correct", Timestamp: at(5)},
		{Stage: 1, Label: "High-Flow Oxygen", Category: "incorrect", Timestamp: at(10)},
		{Stage: 1, Label: "IV Fluids Bolus", Category: "neutral", Timestamp: at(15)},
	})
	if res.Correct != 1 || res.Incorrect != 1 || res.Ignored != 1 {
		t.Errorf("expected 1/1/1, got %d/%d/%d", res.Correct, res.Incorrect, res.Ignored)
	}
}

func TestListClassificationWithoutMarker(t *testing.T) {
	res := Generate(stages(), []Selection{
		{Stage: 1, Label: "High-Flow Oxygen", Timestamp: at(5)},
		{Stage: 1, Label: "Oral Epinephrine", Timestamp: at(10)},
		{Stage: 1, Label: "Chest X-Ray", Timestamp: at(15)},
	})
	if res.Correct != 1 || res.Incorrect != 1 || res.Ignored != 1 {
		t.Errorf("expected helpful/harmful/neutral split 1/1/1, got %d/%d/%d", res.Correct, res.Incorrect, res.Ignored)
	}
}

func TestZeroSelectionsScoresZero(t *testing.T) {
	res := Generate(stages(), nil)
	if res.ScorePercent != 0 {
		t.Errorf("expected 0%% with no counted selections, got %d", res.ScorePercent)
	}
}

func TestIgnoredDoesNotAffectPercent(t *testing.T) {
	res := Generate(stages(), []Selection{
		{Stage: 1, Label: "IM Epinephrine", Timestamp: at(5)},
		{Stage: 1, Label: "Chest X-Ray", Timestamp: at(10)},
	})
	if res.ScorePercent != 100 {
		t.Errorf("expected ignored selections excluded from percent, got %d", res.ScorePercent)
	}
}

func TestDuplicateSelectionIdempotent(t *testing.T) {
	once := Generate(stages(), []Selection{
		{Stage: 1, Label: "IM Epinephrine", Timestamp: at(5)},
		{Stage: 1, Label: "Oral Epinephrine", Timestamp: at(10)},
	})
	twice := Generate(stages(), []Selection{
		{Stage: 1, Label: "IM Epinephrine", Timestamp: at(5)},
		{Stage: 1, Label: "Oral Epinephrine", Timestamp: at(10)},
		{Stage: 1, Label: "IM Epinephrine", Timestamp: at(20)},
		{Stage: 1, Label: "Oral Epinephrine", Timestamp: at(25)},
	})
	if once.ScorePercent != twice.ScorePercent {
		t.Errorf("duplicates changed the score: %d vs %d", once.ScorePercent, twice.ScorePercent)
	}
	if once.Correct != twice.Correct || once.Incorrect != twice.Incorrect {
		t.Errorf("duplicates changed the counts: %d/%d vs %d/%d",
			once.Correct, once.Incorrect, twice.Correct, twice.Incorrect)
	}
}

func TestFeedbackItemsCappedAtSix(t *testing.T) {
	many := []catalog.Stage{
		{
			Number:   1,
			Required: []string{"A", "B", "C", "D", "E", "F"},
			Harmful:  []string{"X", "Y", "Z"},
		},
	}
	res := Generate(many, []Selection{
		{Stage: 1, Label: "X", Timestamp: at(5)},
		{Stage: 1, Label: "Y", Timestamp: at(10)},
		{Stage: 1, Label: "Z", Timestamp: at(15)},
	})
	if len(res.Feedback) != 6 {
		t.Fatalf("expected 6 feedback items, got %d", len(res.Feedback))
	}
	// Critical misses lead with at most 4 slots; harmful actions fill the rest.
	for i := 0; i < 4; i++ {
		if !strings.Contains(res.Feedback[i], "Required intervention") {
			t.Errorf("item %d should be a missed-required line: %q", i, res.Feedback[i])
		}
	}
	for i := 4; i < 6; i++ {
		if !strings.Contains(res.Feedback[i], "not an appropriate choice") {
			t.Errorf("item %d should be a harmful line: %q", i, res.Feedback[i])
		}
	}
}

func TestTemplatedTextForKnownLabels(t *testing.T) {
	res := Generate(stages(), []Selection{
		{Stage: 1, Label: "Oral Epinephrine", Timestamp: at(5)},
	})
	var sawTemplate bool
	for _, f := range res.Feedback {
		if strings.Contains(f, "oral route is ineffective") {
			sawTemplate = true
		}
	}
	if !sawTemplate {
		t.Errorf("expected the templated harmful line, got %v", res.Feedback)
	}
}

func TestReinforcementForCleanFastRun(t *testing.T) {
	res := Generate(stages(), []Selection{
		{Stage: 1, Label: "IM Epinephrine", Timestamp: at(5)},
		{Stage: 1, Label: "IV Fluids Bolus", Timestamp: at(20)},
	})
	if len(res.PositiveReinforcement) != 2 {
		t.Fatalf("expected 2 reinforcement lines, got %v", res.PositiveReinforcement)
	}
	if len(res.PrioritizationTips) != 0 {
		t.Errorf("expected no tips for a clean run, got %v", res.PrioritizationTips)
	}
}

func TestTipsForSlowHarmfulRun(t *testing.T) {
	res := Generate(stages(), []Selection{
		{Stage: 1, Label: "Oral Epinephrine", Timestamp: at(0)},
		{Stage: 1, Label: "IM Epinephrine", Timestamp: at(120)},
	})
	if len(res.PrioritizationTips) != 3 {
		t.Fatalf("expected 3 tips (late first correct, missed required, harmful), got %v", res.PrioritizationTips)
	}
	if len(res.PositiveReinforcement) != 0 {
		t.Errorf("expected no reinforcement, got %v", res.PositiveReinforcement)
	}
}
