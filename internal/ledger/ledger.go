// Package ledger records one immutable activity fact per mutation.
// Recording is best-effort: a failed write is logged and swallowed so it
// never aborts the business mutation that triggered it.
package ledger

import (
	"context"

	"workflow-copilot/backend/internal/logging"
	"workflow-copilot/backend/pkg/models"
)

// Writer is the slice of the repository the ledger needs.
type Writer interface {
	InsertActivity(ctx context.Context, entry *models.ActivityLog) error
}

// Ledger appends activity entries to the store.
type Ledger struct {
	writer Writer
	logger *logging.Logger
}

// New creates a Ledger.
func New(w Writer, logger *logging.Logger) *Ledger {
	return &Ledger{writer: w, logger: logger}
}

// Record appends one entry. It never returns an error; audit is not
// transactionally tied to the mutation it describes.
func (l *Ledger) Record(ctx context.Context, entry models.ActivityLog) {
	if err := l.writer.InsertActivity(ctx, &entry); err != nil {
		l.logger.Error("failed to record activity: entity=%s action=%s: %v", entry.EntityType, entry.Action, err)
	}
}
