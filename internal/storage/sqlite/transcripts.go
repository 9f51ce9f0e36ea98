package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/pkg/log"
)

type TranscriptRepo struct {
	db *sql.DB
}

func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

// SaveTranscript stores the messages of transcript not archived yet.
// Transcripts only grow, so a message is identified by its position.
func (r *TranscriptRepo) SaveTranscript(ctx context.Context, sessionID string, transcript []core.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transcript_messages (session_id, seq, role, content, notice)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id, seq) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for seq, msg := range transcript {
		res, err := stmt.ExecContext(ctx, sessionID, seq, msg.Role, msg.Content, msg.Notice)
		if err != nil {
			return fmt.Errorf("failed to insert message %d: %w", seq, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.FromCtx(ctx).Debug().
		Str("session_id", sessionID).
		Int("inserted", inserted).
		Msg("transcript archived")
	return nil
}

func (r *TranscriptRepo) GetTranscript(ctx context.Context, sessionID string) ([]core.ArchivedMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, seq, role, content, notice, created_at
		FROM transcript_messages
		WHERE session_id = ?
		ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	defer rows.Close()

	var messages []core.ArchivedMessage
	for rows.Next() {
		var m core.ArchivedMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Seq, &m.Role, &m.Content, &m.Notice, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

type SessionSummary struct {
	SessionID string
	Messages  int
	StartedAt string
}

// ListSessions returns the most recent sessions first.
func (r *TranscriptRepo) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), MIN(created_at) AS started
		FROM transcript_messages
		GROUP BY session_id
		ORDER BY started DESC, session_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.Messages, &s.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
