package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.ndjson")
	j := Open(path)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	require.NoError(t, j.Append(Entry{Kind: KindCommit, RowID: "api_1", RecordID: "1", Key: "pais", Value: "AR"}))
	require.NoError(t, j.Append(Entry{Kind: KindDispatch, SpreadsheetID: "s1", Error: "HTTP 500"}))

	// garbage lines are skipped on read
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, _ = f.WriteString("not json\n")
	require.NoError(t, f.Close())

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, fixed, got[0].Time.UTC())
	assert.Equal(t, "pais", got[0].Key)
	assert.True(t, got[0].OK())
	assert.False(t, got[1].OK())
}

func TestReadAllMissingFile(t *testing.T) {
	got, err := ReadAll(filepath.Join(t.TempDir(), "none.ndjson"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDisabledJournalDiscards(t *testing.T) {
	var j *Journal
	assert.NoError(t, j.Append(Entry{Kind: KindRemove}))
	assert.NoError(t, Open("").Append(Entry{Kind: KindRemove}))
}

func TestFollowStreamsNewEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.ndjson")
	j := Open(path)
	require.NoError(t, j.Append(Entry{Kind: KindCreate, RowID: "old"}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	entries, _ := Follow(ctx, path)

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case e, ok := <-entries:
			require.True(t, ok, "follow closed early")
			assert.Equal(t, "new", e.RowID)
			return
		case <-tick.C:
			require.NoError(t, j.Append(Entry{Kind: KindCreate, RowID: "new"}))
		case <-ctx.Done():
			t.Fatal("no entry followed")
		}
	}
}
