package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedsim/pedsim/internal/domain/catalog"
	"github.com/pedsim/pedsim/internal/domain/feedback"
	"github.com/pedsim/pedsim/internal/domain/scoring"
	"github.com/pedsim/pedsim/internal/domain/simulation"
)

var (
	// ErrNotFound is returned when no session row exists for the id.
	ErrNotFound = errors.New("session not found")
	// ErrNotLive is returned for an active session whose engine is not held
	// by this process (for example after a restart).
	ErrNotLive = errors.New("session has no live engine")
	// ErrTerminal is returned when a tick or intervention is attempted
	// against a completed or failed session.
	ErrTerminal = errors.New("session is terminal")
	// ErrUnknownCase is returned when the requested case id is not in the
	// catalog.
	ErrUnknownCase = errors.New("unknown case")
)

// Service owns one engine per active session and persists every state change
// through the repository. Access to the live map and to each engine is
// serialized under mu; the engines themselves perform no locking.
type Service struct {
	repo    Repository
	catalog *catalog.Catalog
	opts    simulation.Options
	weights scoring.Weights
	log     zerolog.Logger

	mu    sync.Mutex
	lives map[uuid.UUID]*liveSession
}

type liveSession struct {
	engine *simulation.Engine
	sess   *Session
}

func NewService(repo Repository, cat *catalog.Catalog, opts simulation.Options, weights scoring.Weights, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		opts:    opts,
		weights: weights,
		log:     log,
		lives:   make(map[uuid.UUID]*liveSession),
	}
}

// Cases exposes the catalog for the read-only case endpoints.
func (s *Service) Cases() *catalog.Catalog { return s.catalog }

// CreateSession starts a new run of the given case with its initial vitals.
func (s *Service) CreateSession(ctx context.Context, caseID string) (*Session, error) {
	def := s.catalog.Get(caseID)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCase, caseID)
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:           uuid.New(),
		CaseID:       def.ID,
		AgeBand:      def.AgeBand,
		Status:       string(simulation.StatusActive),
		CurrentStage: 1,
		Vitals:       def.InitialVitals,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.repo.AddStageTime(ctx, &StageTimeRecord{SessionID: sess.ID, Stage: 1, StartedAt: now}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lives[sess.ID] = &liveSession{
		engine: simulation.NewEngine(def, s.opts),
		sess:   sess,
	}
	s.mu.Unlock()

	s.log.Info().Str("session_id", sess.ID.String()).Str("case_id", def.ID).Msg("session created")
	return sess, nil
}

// GetSession returns the persisted session row.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// ListSessions returns persisted sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// TickOutcome couples a tick result with the updated session snapshot.
type TickOutcome struct {
	Result  simulation.TickResult `json:"result"`
	Session *Session              `json:"session"`
}

// Tick advances the session clock. Terminal sessions reject the call.
func (s *Service) Tick(ctx context.Context, id uuid.UUID, elapsedSec float64) (*TickOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, err := s.liveLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if ls.engine.Status() != simulation.StatusActive {
		return nil, ErrTerminal
	}

	stageBefore := ls.engine.CurrentStage()
	res := ls.engine.ProcessTick(ls.sess.Vitals, elapsedSec)
	ls.sess.Vitals = res.Vitals
	ls.sess.ElapsedSec = elapsedSec

	if err := s.recordTransition(ctx, ls, stageBefore, res.Advanced, res.NextStage); err != nil {
		return nil, err
	}
	if err := s.persistLocked(ctx, ls); err != nil {
		return nil, err
	}
	return &TickOutcome{Result: res, Session: ls.sess}, nil
}

// InterventionOutcome couples an intervention result with the updated
// session snapshot.
type InterventionOutcome struct {
	Result  simulation.InterventionResult `json:"result"`
	Session *Session                      `json:"session"`
}

// ApplyIntervention records and applies one trainee action.
func (s *Service) ApplyIntervention(ctx context.Context, id uuid.UUID, interventionID string) (*InterventionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, err := s.liveLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if ls.engine.Status() != simulation.StatusActive {
		return nil, ErrTerminal
	}

	stageBefore := ls.engine.CurrentStage()
	res := ls.engine.ProcessIntervention(interventionID, ls.sess.Vitals)
	ls.sess.Vitals = res.Vitals

	if !res.NoOp {
		rec := &InteractionRecord{
			SessionID: ls.sess.ID,
			Stage:     stageBefore,
			Label:     res.Label,
			Category:  string(res.Classification),
			Success:   res.Success,
			Timestamp: time.Now().UTC(),
		}
		if err := s.repo.AddInteraction(ctx, rec); err != nil {
			return nil, err
		}
	}

	if err := s.recordTransition(ctx, ls, stageBefore, res.Advanced, res.NextStage); err != nil {
		return nil, err
	}
	if err := s.persistLocked(ctx, ls); err != nil {
		return nil, err
	}
	return &InterventionOutcome{Result: res, Session: ls.sess}, nil
}

// Reset revives a session to stage 1 with the case's initial vitals and
// truncates its logs.
func (s *Service) Reset(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, err := s.liveLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	def := s.catalog.Get(ls.sess.CaseID)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCase, ls.sess.CaseID)
	}

	if err := s.repo.ClearInteractions(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.ClearStageTimes(ctx, id); err != nil {
		return nil, err
	}

	ls.engine.Reset()
	ls.sess.Vitals = def.InitialVitals
	ls.sess.ElapsedSec = 0
	now := time.Now().UTC()
	if err := s.repo.AddStageTime(ctx, &StageTimeRecord{SessionID: id, Stage: 1, StartedAt: now}); err != nil {
		return nil, err
	}
	if err := s.persistLocked(ctx, ls); err != nil {
		return nil, err
	}
	s.log.Info().Str("session_id", id.String()).Msg("session reset")
	return ls.sess, nil
}

// Interactions returns the session's append-only action log.
func (s *Service) Interactions(ctx context.Context, id uuid.UUID) ([]*InteractionRecord, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.ListInteractions(ctx, id)
}

// ScoreOutcome is the result of one scoring run in either mode.
type ScoreOutcome struct {
	Mode       string           `json:"mode"`
	Weighted   *scoring.Result  `json:"weighted,omitempty"`
	Simplified *feedback.Result `json:"simplified,omitempty"`
}

// Score computes and persists a score over the session's closed log.
func (s *Service) Score(ctx context.Context, id uuid.UUID, mode string) (*ScoreOutcome, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	def := s.catalog.Get(sess.CaseID)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCase, sess.CaseID)
	}
	recs, err := s.repo.ListInteractions(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &ScoreOutcome{Mode: mode}
	stored := &ScoreRecord{SessionID: id, Mode: mode}
	switch mode {
	case ModeWeighted:
		times, err := s.repo.ListStageTimes(ctx, id)
		if err != nil {
			return nil, err
		}
		res := scoring.Score(s.weights, def.Stages, toHistory(recs, times))
		out.Weighted = &res
		stored.Score = res.Score
		stored.Rating = res.Rating
	case ModeSimplified:
		res := feedback.Generate(def.Stages, toSelections(recs))
		out.Simplified = &res
		stored.Score = res.ScorePercent
	default:
		return nil, fmt.Errorf("invalid scoring mode: %s", mode)
	}

	detail, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	stored.Detail = detail
	if err := s.repo.SaveScore(ctx, stored); err != nil {
		return nil, err
	}
	return out, nil
}

// liveLocked fetches the live session, requiring s.mu to be held. A session
// that exists in the store but not in memory cannot be driven further by this
// process.
func (s *Service) liveLocked(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	if ls, ok := s.lives[id]; ok {
		return ls, nil
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}
	return nil, ErrNotLive
}

func (s *Service) recordTransition(ctx context.Context, ls *liveSession, stageBefore int, advanced bool, nextStage int) error {
	now := time.Now().UTC()
	status := ls.engine.Status()
	if advanced {
		if err := s.repo.CloseStageTime(ctx, ls.sess.ID, stageBefore, now); err != nil {
			return err
		}
		if err := s.repo.AddStageTime(ctx, &StageTimeRecord{SessionID: ls.sess.ID, Stage: nextStage, StartedAt: now}); err != nil {
			return err
		}
	} else if status != simulation.StatusActive {
		if err := s.repo.CloseStageTime(ctx, ls.sess.ID, stageBefore, now); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) persistLocked(ctx context.Context, ls *liveSession) error {
	ls.sess.Status = string(ls.engine.Status())
	ls.sess.CurrentStage = ls.engine.CurrentStage()
	ls.sess.FailureReason = nil
	if reason := ls.engine.FailureReason(); reason != "" {
		ls.sess.FailureReason = &reason
	}
	ls.sess.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, ls.sess)
}

func toHistory(recs []*InteractionRecord, times []*StageTimeRecord) scoring.History {
	hist := scoring.History{}
	for _, rec := range recs {
		hist.Interactions = append(hist.Interactions, scoring.Interaction{
			Stage:     rec.Stage,
			Label:     rec.Label,
			Category:  catalog.InterventionCategory(rec.Category),
			Timestamp: rec.Timestamp,
		})
	}
	for _, st := range times {
		hist.StageTimes = append(hist.StageTimes, scoring.StageTime{
			Stage:     st.Stage,
			StartedAt: st.StartedAt,
			EndedAt:   st.EndedAt,
		})
	}
	return hist
}

func toSelections(recs []*InteractionRecord) []feedback.Selection {
	sels := make([]feedback.Selection, 0, len(recs))
	for _, rec := range recs {
		sels = append(sels, feedback.Selection{
			Stage:     rec.Stage,
			Label:     rec.Label,
			Category:  rec.Category,
			Timestamp: rec.Timestamp,
		})
	}
	return sels
}
