// Package storage persists exam audit data to Postgres. The in-memory
// distraction log is a bounded ring; this archiver is the external drain
// that keeps the full history.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/quizsecure/quizsecure/internal/log"
	"github.com/quizsecure/quizsecure/pkg/behavior"
	"github.com/quizsecure/quizsecure/pkg/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Archiver writes sessions and distraction events to Postgres.
type Archiver struct {
	db *sql.DB
}

// Open connects to Postgres at url, runs pending migrations, and returns
// the archiver.
func Open(ctx context.Context, url string) (*Archiver, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info("audit archive ready")
	return &Archiver{db: db}, nil
}

// SaveSession upserts the session row with its latest summary numbers.
func (a *Archiver) SaveSession(ctx context.Context, st session.Status) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO exam_sessions (id, student_id, warnings, alert_level, alert_count,
			total_frames, total_distraction_seconds, focus_percentage, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE SET
			warnings = EXCLUDED.warnings,
			alert_level = EXCLUDED.alert_level,
			alert_count = EXCLUDED.alert_count,
			total_frames = EXCLUDED.total_frames,
			total_distraction_seconds = EXCLUDED.total_distraction_seconds,
			focus_percentage = EXCLUDED.focus_percentage,
			updated_at = now()`,
		st.SessionID, st.StudentID, st.Warnings, string(st.AlertLevel),
		st.Behavior.AlertCount, st.TotalFrames,
		st.Behavior.TotalDistracted, st.Behavior.FocusPercentage)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SaveEvent appends one distraction event for a session.
func (a *Archiver) SaveEvent(ctx context.Context, sessionID string, e behavior.Event) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO distraction_events (session_id, kind, occurred_at, duration_seconds, gaze_pitch, gaze_yaw)
		VALUES ($1, $2, to_timestamp($3), $4, $5, $6)`,
		sessionID, string(e.Kind), e.Timestamp, e.Duration, e.Pitch, e.Yaw)
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Close shuts the pool down.
func (a *Archiver) Close() error {
	return a.db.Close()
}
