package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
	"github.com/Nagaurav/MockInterview1/pkg/metrics"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS interviews (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT '',
	score      REAL,
	duration   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interviews_user_created ON interviews(user_id, created_at);

CREATE TABLE IF NOT EXISTS feedback (
	id           TEXT PRIMARY KEY,
	interview_id TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	scores       TEXT NOT NULL DEFAULT '{}',
	feedback     TEXT NOT NULL DEFAULT '[]',
	transcript   TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_interview ON feedback(interview_id);
`

// SQLiteStore persists records in a local sqlite database. Change
// notifications stay in-process: the store that performed a write tells
// its own watchers.
type SQLiteStore struct {
	db       *sql.DB
	notifier *notifier
}

// OpenSQLite opens (creating if needed) a sqlite-backed store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: schema: %v", ErrUnavailable, err)
	}
	return &SQLiteStore{db: db, notifier: newNotifier()}, nil
}

// ListRecords implements Store.
func (s *SQLiteStore) ListRecords(ctx context.Context, userID string, since time.Time) ([]model.Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, type, score, duration, created_at
		 FROM interviews
		 WHERE user_id = ? AND created_at >= ?
		 ORDER BY created_at ASC`,
		userID, since)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []model.Record
	index := map[string]int{}
	for rows.Next() {
		var iv model.Interview
		var score sql.NullFloat64
		if err := rows.Scan(&iv.ID, &iv.UserID, &iv.Type, &score, &iv.Duration, &iv.CreatedAt); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		if score.Valid {
			v := score.Float64
			iv.Score = &v
		}
		index[iv.ID] = len(out)
		out = append(out, model.Record{Interview: iv})
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(out) == 0 {
		return out, nil
	}
	if err := s.attachFeedback(ctx, userID, since, index, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) attachFeedback(ctx context.Context, userID string, since time.Time, index map[string]int, out []model.Record) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT f.id, f.interview_id, f.user_id, f.scores, f.feedback, f.transcript, f.created_at
		 FROM feedback f
		 JOIN interviews i ON i.id = f.interview_id
		 WHERE f.user_id = ? AND i.created_at >= ?
		 ORDER BY f.created_at ASC`,
		userID, since)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b model.FeedbackBundle
		var scoresJSON, feedbackJSON string
		if err := rows.Scan(&b.ID, &b.InterviewID, &b.UserID, &scoresJSON, &feedbackJSON, &b.Transcript, &b.CreatedAt); err != nil {
			metrics.RecordStoreError()
			return fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		if err := json.Unmarshal([]byte(scoresJSON), &b.Scores); err != nil {
			return fmt.Errorf("%w: scores decode: %v", ErrUnavailable, err)
		}
		if err := json.Unmarshal([]byte(feedbackJSON), &b.Feedback); err != nil {
			return fmt.Errorf("%w: feedback decode: %v", ErrUnavailable, err)
		}
		if i, ok := index[b.InterviewID]; ok {
			out[i].Feedback = append(out[i].Feedback, b)
		}
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// PutInterview implements Store.
func (s *SQLiteStore) PutInterview(ctx context.Context, iv model.Interview) error {
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = time.Now()
	}
	var score any
	if iv.Score != nil {
		score = *iv.Score
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO interviews (id, user_id, type, score, duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		iv.ID, iv.UserID, iv.Type, score, iv.Duration, iv.CreatedAt)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	metrics.RecordStoreWrite()
	s.notifier.publish(iv.UserID)
	return nil
}

// PutFeedback implements Store.
func (s *SQLiteStore) PutFeedback(ctx context.Context, bundle model.FeedbackBundle) error {
	if bundle.ID == "" {
		bundle.ID = uuid.NewString()
	}
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interviews WHERE id = ? AND user_id = ?`,
		bundle.InterviewID, bundle.UserID).Scan(&exists)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	scoresJSON, err := json.Marshal(bundle.Scores)
	if err != nil {
		return fmt.Errorf("scores encode: %w", err)
	}
	feedbackJSON, err := json.Marshal(bundle.Feedback)
	if err != nil {
		return fmt.Errorf("feedback encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, interview_id, user_id, scores, feedback, transcript, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bundle.ID, bundle.InterviewID, bundle.UserID,
		string(scoresJSON), string(feedbackJSON), bundle.Transcript, bundle.CreatedAt)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	metrics.RecordStoreWrite()
	s.notifier.publish(bundle.UserID)
	return nil
}

// DeleteInterview implements Store.
func (s *SQLiteStore) DeleteInterview(ctx context.Context, userID, interviewID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM interviews WHERE id = ? AND user_id = ?`, interviewID, userID)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	_, _ = s.db.ExecContext(ctx, `DELETE FROM feedback WHERE interview_id = ?`, interviewID)
	metrics.RecordStoreWrite()
	s.notifier.publish(userID)
	return nil
}

// Watch implements Store.
func (s *SQLiteStore) Watch(ctx context.Context, userID string) (<-chan Change, CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return s.notifier.watch(userID)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.notifier.close()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}
