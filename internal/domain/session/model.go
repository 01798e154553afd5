package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedsim/pedsim/internal/domain/vitals"
)

// Session maps to the session table. A session is one trainee's run through a
// case; its live engine is held in memory by the service and the row carries
// the durable snapshot.
type Session struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	CaseID        string            `db:"case_id" json:"case_id"`
	AgeBand       vitals.AgeBand    `db:"age_band" json:"age_band"`
	Status        string            `db:"status" json:"status"`
	FailureReason *string           `db:"failure_reason" json:"failure_reason,omitempty"`
	CurrentStage  int               `db:"current_stage" json:"current_stage"`
	Vitals        vitals.VitalSigns `json:"vitals"`
	ElapsedSec    float64           `db:"elapsed_sec" json:"elapsed_sec"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// InteractionRecord maps to the interaction_record table. The log is
// append-only for the life of a run; reset truncates it.
type InteractionRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	Stage     int       `db:"stage" json:"stage"`
	Label     string    `db:"label" json:"label"`
	Category  string    `db:"category" json:"category"`
	Success   bool      `db:"success" json:"success"`
	Timestamp time.Time `db:"ts" json:"timestamp"`
}

// StageTimeRecord maps to the stage_time table. EndedAt stays NULL while the
// stage is the active one.
type StageTimeRecord struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	SessionID uuid.UUID  `db:"session_id" json:"session_id"`
	Stage     int        `db:"stage" json:"stage"`
	StartedAt time.Time  `db:"started_at" json:"started_at"`
	EndedAt   *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// ScoreRecord maps to the scoring_result table. Detail holds the full result
// document as JSON.
type ScoreRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	Mode      string    `db:"mode" json:"mode"`
	Score     int       `db:"score" json:"score"`
	Rating    string    `db:"rating" json:"rating"`
	Detail    []byte    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Scoring modes accepted by the score endpoint.
const (
	ModeWeighted   = "weighted"
	ModeSimplified = "simplified"
)
