package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Session, int, error)

	// Interaction log
	AddInteraction(ctx context.Context, rec *InteractionRecord) error
	ListInteractions(ctx context.Context, sessionID uuid.UUID) ([]*InteractionRecord, error)
	ClearInteractions(ctx context.Context, sessionID uuid.UUID) error

	// Stage timing
	AddStageTime(ctx context.Context, st *StageTimeRecord) error
	CloseStageTime(ctx context.Context, sessionID uuid.UUID, stage int, endedAt time.Time) error
	ListStageTimes(ctx context.Context, sessionID uuid.UUID) ([]*StageTimeRecord, error)
	ClearStageTimes(ctx context.Context, sessionID uuid.UUID) error

	// Scoring results
	SaveScore(ctx context.Context, rec *ScoreRecord) error
	ListScores(ctx context.Context, sessionID uuid.UUID) ([]*ScoreRecord, error)
}
