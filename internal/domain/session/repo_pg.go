package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedsim/pedsim/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const sessionCols = `id, case_id, age_band, status, failure_reason, current_stage,
	heart_rate, resp_rate, systolic_bp, diastolic_bp, spo2, temperature_c, cap_refill_sec, consciousness,
	elapsed_sec, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO session (
			id, case_id, age_band, status, failure_reason, current_stage,
			heart_rate, resp_rate, systolic_bp, diastolic_bp, spo2, temperature_c, cap_refill_sec, consciousness,
			elapsed_sec
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		s.ID, s.CaseID, s.AgeBand, s.Status, s.FailureReason, s.CurrentStage,
		s.Vitals.HeartRate, s.Vitals.RespRate, s.Vitals.SystolicBP, s.Vitals.DiastolicBP,
		s.Vitals.SpO2, s.Vitals.TemperatureC, s.Vitals.CapillaryRefillSec, s.Vitals.Consciousness,
		s.ElapsedSec,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	return scanSession(r.conn(ctx).QueryRow(ctx, `SELECT `+sessionCols+` FROM session WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *Session) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE session SET
			status=$2, failure_reason=$3, current_stage=$4,
			heart_rate=$5, resp_rate=$6, systolic_bp=$7, diastolic_bp=$8,
			spo2=$9, temperature_c=$10, cap_refill_sec=$11, consciousness=$12,
			elapsed_sec=$13, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Status, s.FailureReason, s.CurrentStage,
		s.Vitals.HeartRate, s.Vitals.RespRate, s.Vitals.SystolicBP, s.Vitals.DiastolicBP,
		s.Vitals.SpO2, s.Vitals.TemperatureC, s.Vitals.CapillaryRefillSec, s.Vitals.Consciousness,
		s.ElapsedSec,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM session WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM session`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+sessionCols+` FROM session ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}
	return sessions, total, nil
}

// Interaction log

func (r *repoPG) AddInteraction(ctx context.Context, rec *InteractionRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO interaction_record (id, session_id, stage, label, category, success, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.SessionID, rec.Stage, rec.Label, rec.Category, rec.Success, rec.Timestamp,
	)
	return err
}

func (r *repoPG) ListInteractions(ctx context.Context, sessionID uuid.UUID) ([]*InteractionRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, session_id, stage, label, category, success, ts
		FROM interaction_record WHERE session_id = $1 ORDER BY ts`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*InteractionRecord
	for rows.Next() {
		var rec InteractionRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Stage, &rec.Label, &rec.Category, &rec.Success, &rec.Timestamp); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

func (r *repoPG) ClearInteractions(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM interaction_record WHERE session_id = $1`, sessionID)
	return err
}

// Stage timing

func (r *repoPG) AddStageTime(ctx context.Context, st *StageTimeRecord) error {
	st.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO stage_time (id, session_id, stage, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5)`,
		st.ID, st.SessionID, st.Stage, st.StartedAt, st.EndedAt,
	)
	return err
}

func (r *repoPG) CloseStageTime(ctx context.Context, sessionID uuid.UUID, stage int, endedAt time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE stage_time SET ended_at = $3
		WHERE session_id = $1 AND stage = $2 AND ended_at IS NULL`,
		sessionID, stage, endedAt,
	)
	return err
}

func (r *repoPG) ListStageTimes(ctx context.Context, sessionID uuid.UUID) ([]*StageTimeRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, session_id, stage, started_at, ended_at
		FROM stage_time WHERE session_id = $1 ORDER BY started_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []*StageTimeRecord
	for rows.Next() {
		var st StageTimeRecord
		if err := rows.Scan(&st.ID, &st.SessionID, &st.Stage, &st.StartedAt, &st.EndedAt); err != nil {
			return nil, err
		}
		times = append(times, &st)
	}
	return times, nil
}

func (r *repoPG) ClearStageTimes(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM stage_time WHERE session_id = $1`, sessionID)
	return err
}

// Scoring results

func (r *repoPG) SaveScore(ctx context.Context, rec *ScoreRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO scoring_result (id, session_id, mode, score, rating, detail)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, rec.SessionID, rec.Mode, rec.Score, rec.Rating, rec.Detail,
	)
	return err
}

func (r *repoPG) ListScores(ctx context.Context, sessionID uuid.UUID) ([]*ScoreRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, session_id, mode, score, rating, detail, created_at
		FROM scoring_result WHERE session_id = $1 ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Mode, &rec.Score, &rec.Rating, &rec.Detail, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(
		&s.ID, &s.CaseID, &s.AgeBand, &s.Status, &s.FailureReason, &s.CurrentStage,
		&s.Vitals.HeartRate, &s.Vitals.RespRate, &s.Vitals.SystolicBP, &s.Vitals.DiastolicBP,
		&s.Vitals.SpO2, &s.Vitals.TemperatureC, &s.Vitals.CapillaryRefillSec, &s.Vitals.Consciousness,
		&s.ElapsedSec, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSessionRows(rows pgx.Rows) (*Session, error) {
	var s Session
	err := rows.Scan(
		&s.ID, &s.CaseID, &s.AgeBand, &s.Status, &s.FailureReason, &s.CurrentStage,
		&s.Vitals.HeartRate, &s.Vitals.RespRate, &s.Vitals.SystolicBP, &s.Vitals.DiastolicBP,
		&s.Vitals.SpO2, &s.Vitals.TemperatureC, &s.Vitals.CapillaryRefillSec, &s.Vitals.Consciousness,
		&s.ElapsedSec, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
