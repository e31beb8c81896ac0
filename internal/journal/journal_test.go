package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riboost-Studio/perfect-menu-print-labels/internal/model"
)

func TestJournal_RecordAndRecent(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	at := time.UnixMilli(1760000000000)
	require.NoError(t, j.Record(ctx, model.CommandPrintTwoProductLabel, "Zebra LP2824", model.Outcome{
		Seq: 1, State: model.StateFailure, Message: "Print failed: device offline", At: at,
	}))
	require.NoError(t, j.Record(ctx, model.CommandPrintTwoProductLabel, "Zebra LP2824", model.Outcome{
		Seq: 2, State: model.StateSuccess, Message: "Printed successfully: OK", At: at.Add(time.Second),
	}))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, uint64(2), entries[0].Seq)
	assert.Equal(t, model.StateSuccess, entries[0].State)
	assert.Equal(t, "Print failed: device offline", entries[1].Message)
	assert.Equal(t, model.CommandPrintTwoProductLabel, entries[1].Command)
	assert.True(t, at.Equal(entries[1].At))
}

func TestJournal_RecentLimit(t *testing.T) {
	j, err := Open(":memory:")
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, j.Record(ctx, model.CommandPrintLabel, "p", model.Outcome{Seq: uint64(i), State: model.StateSuccess}))
	}
	entries, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(3), entries[0].Seq)
}

func TestJournal_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "journal.db")
	ctx := context.Background()

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, model.CommandPrintLabel, "p", model.Outcome{Seq: 7, State: model.StateSuccess}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(7), entries[0].Seq)
}
