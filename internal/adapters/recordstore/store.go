// Package recordstore defines the record-store contract the pipeline
// reads interview history from and writes feedback bundles to, plus the
// change-notification mechanism that drives live aggregation refresh.
package recordstore

import (
	"context"
	"time"

	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// Change signals that some interview row for a user was created, updated
// or deleted. No field-level diff is available; subscribers must refetch.
type Change struct {
	UserID string
	At     time.Time
}

// CancelFunc detaches a watch. Safe to call more than once.
type CancelFunc func()

// Store provides read/write/subscribe access to interview records.
type Store interface {
	// ListRecords returns a user's interviews created at or after since,
	// ordered ascending by creation time, each joined with its feedback
	// bundles.
	ListRecords(ctx context.Context, userID string, since time.Time) ([]model.Record, error)

	// PutInterview inserts or replaces an interview row and notifies
	// the user's watchers.
	PutInterview(ctx context.Context, iv model.Interview) error

	// PutFeedback inserts one feedback bundle keyed by interview id and
	// user id, and notifies watchers.
	PutFeedback(ctx context.Context, bundle model.FeedbackBundle) error

	// DeleteInterview removes an interview and its bundles. Returns
	// ErrNotFound for unknown ids.
	DeleteInterview(ctx context.Context, userID, interviewID string) error

	// Watch returns a coalesced change channel for one user. The channel
	// closes when the store closes or cancel is called.
	Watch(ctx context.Context, userID string) (<-chan Change, CancelFunc, error)

	// Close shuts the store down and closes all watch channels.
	Close() error
}
