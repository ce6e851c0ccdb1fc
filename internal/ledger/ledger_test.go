package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"workflow-copilot/backend/internal/logging"
	"workflow-copilot/backend/pkg/models"
)

type captureWriter struct {
	entries []*models.ActivityLog
	err     error
}

func (w *captureWriter) InsertActivity(ctx context.Context, entry *models.ActivityLog) error {
	if w.err != nil {
		return w.err
	}
	w.entries = append(w.entries, entry)
	return nil
}

func TestRecordWritesEntry(t *testing.T) {
	w := &captureWriter{}
	l := New(w, logging.NewLogger())

	l.Record(context.Background(), models.ActivityLog{
		EntityType: models.EntityWorkflow,
		EntityID:   "wf-1",
		Action:     models.ActionCreated,
		Details:    "Created workflow 'x'",
	})

	assert.Len(t, w.entries, 1)
	assert.Equal(t, models.EntityWorkflow, w.entries[0].EntityType)
	assert.Equal(t, models.ActionCreated, w.entries[0].Action)
}

func TestRecordSwallowsWriteFailure(t *testing.T) {
	w := &captureWriter{err: errors.New("store down")}
	l := New(w, logging.NewLogger())

	// Must not panic or propagate; audit never aborts a mutation.
	l.Record(context.Background(), models.ActivityLog{
		EntityType: models.EntityStep,
		EntityID:   "s-1",
		Action:     models.ActionUpdated,
	})

	assert.Empty(t, w.entries)
}
