package audit

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_DeleteOlderThan(t *testing.T) {
	l := newTestLog(t)

	require.NoError(t, l.Append("admin", ActionEntryCreated, "mod-1", ""))
	require.NoError(t, l.Append("admin", ActionEntryUpdated, "mod-1", ""))

	// Backdate one event past the cutoff.
	var events []EventRecord
	require.NoError(t, l.db.Order("created_at ASC").Find(&events).Error)
	require.Len(t, events, 2)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, l.db.Model(&EventRecord{}).
		Where("id = ?", events[0].ID).
		Update("created_at", old).Error)

	deleted, err := l.DeleteOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := l.List(0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, events[1].ID, remaining[0].ID)
}

func TestLog_DeleteOlderThan_NothingToDelete(t *testing.T) {
	l := newTestLog(t)
	require.NoError(t, l.Append("admin", ActionEntryCreated, "mod-1", ""))

	deleted, err := l.DeleteOlderThan(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRetentionWorker_CleanupPass(t *testing.T) {
	l := newTestLog(t)

	require.NoError(t, l.Append("admin", ActionSubmissionApproved, "sub-1", ""))
	old := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, l.db.Model(&EventRecord{}).
		Where("1 = 1").
		Update("created_at", old).Error)
	require.NoError(t, l.Append("admin", ActionSubmissionRejected, "sub-2", ""))

	w := NewRetentionWorker(l, 7, slog.New(slog.DiscardHandler))
	w.cleanup()

	remaining, err := l.List(0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, ActionSubmissionRejected, remaining[0].Action)
}
