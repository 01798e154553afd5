package catalog

import "github.com/pedsim/pedsim/internal/domain/vitals"

// builtinCases is the built-in case library. Definitions are static,
// read-only configuration; the engine and scoring components never mutate
// them.
var builtinCases = []CaseDefinition{
	{
		ID:       "anaphylaxis-peds",
		Name:     "Pediatric Anaphylaxis",
		Category: "allergy",
		AgeBand:  vitals.BandPreschool,
		InitialVitals: vitals.VitalSigns{
			HeartRate:          145,
			RespRate:           34,
			SystolicBP:         86,
			DiastolicBP:        54,
			SpO2:               91,
			TemperatureC:       37.1,
			CapillaryRefillSec: 3,
			Consciousness:      vitals.ConsciousnessAlert,
		},
		Stages: []Stage{
			{
				Number:       1,
				Severity:     vitals.SeverityModerate,
				TimeLimitSec: 180,
				Ordered:      true,
				Required:     []string{"IM Epinephrine", "IV Fluids Bolus", "Diphenhydramine IV"},
				Helpful:      []string{"High-Flow Oxygen", "Cardiac Monitor"},
				Harmful:      []string{"Oral Epinephrine", "Beta Blocker", "Delayed Observation"},
				Neutral:      []string{"Blood Glucose Check", "Chest X-Ray"},
				EarlyAction:  &EarlyAction{Label: "IM Epinephrine", WindowSec: 60},
			},
			{
				Number:       2,
				Severity:     vitals.SeverityLow,
				TimeLimitSec: 240,
				Required:     []string{"Methylprednisolone IV", "Albuterol Nebulizer"},
				Helpful:      []string{"Repeat Vitals", "Allergy History"},
				Harmful:      []string{"Discharge Home", "Oral Fluids Challenge"},
				Neutral:      []string{"Family Update"},
			},
			{
				Number:   3,
				Severity: vitals.SeverityLow,
				Required: []string{"Observation Period", "Epinephrine Autoinjector Rx", "Allergy Referral"},
				Helpful:  []string{"Discharge Teaching"},
				Harmful:  []string{"Immediate Discharge"},
				Neutral:  []string{"Social Work Consult"},
			},
		},
	},
	{
		ID:       "asthmaticus-peds",
		Name:     "Pediatric Status Asthmaticus",
		Category: "respiratory",
		AgeBand:  vitals.BandSchool,
		InitialVitals: vitals.VitalSigns{
			HeartRate:          132,
			RespRate:           40,
			SystolicBP:         104,
			DiastolicBP:        66,
			SpO2:               88,
			TemperatureC:       37.3,
			CapillaryRefillSec: 2.5,
			Consciousness:      vitals.ConsciousnessAlert,
		},
		Stages: []Stage{
			{
				Number:       1,
				Severity:     vitals.SeveritySevere,
				TimeLimitSec: 120,
				Required:     []string{"High-Flow Oxygen", "Albuterol Nebulizer", "Ipratropium Nebulizer"},
				Helpful:      []string{"Cardiac Monitor", "Position Upright"},
				Harmful:      []string{"Sedation", "IV Beta Blocker", "Supine Positioning"},
				Neutral:      []string{"Chest X-Ray", "Blood Gas"},
				EarlyAction:  &EarlyAction{Label: "High-Flow Oxygen", WindowSec: 30},
			},
			{
				Number:       2,
				Severity:     vitals.SeverityModerate,
				TimeLimitSec: 240,
				Ordered:      true,
				Required:     []string{"Methylprednisolone IV", "Magnesium Sulfate IV"},
				Helpful:      []string{"Continuous Albuterol", "Repeat Vitals"},
				Harmful:      []string{"Discharge Home", "Chest Physiotherapy"},
				Neutral:      []string{"Peak Flow Measurement"},
			},
			{
				Number:   3,
				Severity: vitals.SeverityLow,
				Required: []string{"PICU Consult", "Continuous Monitoring"},
				Helpful:  []string{"Family Update"},
				Harmful:  []string{"Discontinue Oxygen"},
				Neutral:  []string{"Repeat Chest X-Ray"},
			},
		},
	},
	{
		ID:       "septic-shock-peds",
		Name:     "Pediatric Septic Shock",
		Category: "sepsis",
		AgeBand:  vitals.BandInfant,
		InitialVitals: vitals.VitalSigns{
			HeartRate:          178,
			RespRate:           52,
			SystolicBP:         72,
			DiastolicBP:        44,
			SpO2:               93,
			TemperatureC:       39.4,
			CapillaryRefillSec: 4,
			Consciousness:      vitals.ConsciousnessVerbal,
		},
		Stages: []Stage{
			{
				Number:       1,
				Severity:     vitals.SeveritySevere,
				TimeLimitSec: 300,
				Ordered:      true,
				Required:     []string{"IV Access", "IV Fluids Bolus", "Broad-Spectrum Antibiotics"},
				Helpful:      []string{"Blood Cultures", "High-Flow Oxygen", "Lactate Level"},
				Harmful:      []string{"Delayed Antibiotics", "Oral Antibiotics Only", "Diuretics"},
				Neutral:      []string{"Urinalysis", "Family History"},
				EarlyAction:  &EarlyAction{Label: "IV Access", WindowSec: 90},
			},
			{
				Number:       2,
				Severity:     vitals.SeverityModerate,
				TimeLimitSec: 300,
				Required:     []string{"Repeat Fluids Bolus", "Vasopressor Infusion"},
				Helpful:      []string{"Repeat Lactate", "Urine Output Monitoring"},
				Harmful:      []string{"Fluid Restriction", "Beta Blocker"},
				Neutral:      []string{"Repeat Urinalysis"},
			},
		},
	},
}

// Catalog is a read-only accessor over the case library.
type Catalog struct {
	cases map[string]*CaseDefinition
	order []string
}

// NewCatalog builds a catalog from the built-in case library.
func NewCatalog() *Catalog {
	return NewCatalogWith(builtinCases)
}

// NewCatalogWith builds a catalog from explicit definitions (used by tests
// and by case-authoring tooling).
func NewCatalogWith(defs []CaseDefinition) *Catalog {
	c := &Catalog{cases: make(map[string]*CaseDefinition, len(defs))}
	for i := range defs {
		def := defs[i]
		c.cases[def.ID] = &def
		c.order = append(c.order, def.ID)
	}
	return c
}

// Get returns the case with the given id, or nil when unknown.
func (c *Catalog) Get(id string) *CaseDefinition {
	return c.cases[id]
}

// List returns all case definitions in registration order.
func (c *Catalog) List() []*CaseDefinition {
	out := make([]*CaseDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cases[id])
	}
	return out
}

// Validate checks every case in the catalog, returning the first authoring
// error found.
func (c *Catalog) Validate() error {
	for _, id := range c.order {
		if err := c.cases[id].Validate(); err != nil {
			return err
		}
	}
	return nil
}
