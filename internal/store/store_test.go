package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospectsheet/internal/model"
)

type fakeUpdater struct {
	calls []model.Payload
	ids   []string
	err   error
}

func (f *fakeUpdater) Update(_ context.Context, recordID string, p model.Payload) (model.Record, error) {
	f.calls = append(f.calls, p)
	f.ids = append(f.ids, recordID)
	if f.err != nil {
		return nil, f.err
	}
	return model.Record{"id": recordID}, nil
}

func loaded(t *testing.T) *Store {
	t.Helper()
	recs := []model.Record{
		{"id": "1", "sdr": "Ana", "pais": "AR"},
		{"id": "2", "sdr": "Luis", "pais": "CL"},
		{"id": "3", "sdr": "Eva", "pais": "MX"},
	}
	rows := make([]model.Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, model.MapRemoteToRow(r))
	}
	s := New()
	require.True(t, s.Loading())
	s.Load(rows)
	return s
}

func TestLoadSeedsSnapshotOnce(t *testing.T) {
	s := loaded(t)
	assert.False(t, s.Loading())
	require.Equal(t, 3, s.Len())
	assert.Equal(t, 3*len(model.Columns), s.SnapshotLen())
	assert.Equal(t, 27, s.SnapshotLen())

	ids := map[string]bool{}
	for _, r := range s.Rows() {
		ids[r.ID] = true
	}
	assert.Len(t, ids, 3)

	// A local edit followed by a data replacement without a fetch keeps the baseline.
	s.SetField("api_1", "sdr", "Ana María")
	s.Load(s.Rows())
	saved, ok := s.Saved("api_1", "sdr")
	require.True(t, ok)
	assert.Equal(t, "Ana", saved)
}

func TestCommitSameValueIsNoop(t *testing.T) {
	s := loaded(t)
	u := &fakeUpdater{}
	s.SetField("api_1", "sdr", "Anita")
	s.SetField("api_1", "sdr", "Ana")
	res, err := s.CommitField(context.Background(), u, "api_1", "sdr", "Ana")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res.Outcome)
	assert.Empty(t, u.calls)
}

func TestCommitNewValueWritesOnce(t *testing.T) {
	s := loaded(t)
	u := &fakeUpdater{}
	s.SetField("api_2", "pais", "PE")
	res, err := s.CommitField(context.Background(), u, "api_2", "pais", "PE")
	require.NoError(t, err)
	assert.Equal(t, Written, res.Outcome)
	require.Len(t, u.calls, 1)
	assert.Equal(t, model.Payload{"pais": "PE"}, u.calls[0])
	assert.Equal(t, "2", u.ids[0])
	saved, _ := s.Saved("api_2", "pais")
	assert.Equal(t, "PE", saved)

	// Repeated blur with the same value does not write again.
	res, err = s.CommitField(context.Background(), u, "api_2", "pais", "PE")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res.Outcome)
	assert.Len(t, u.calls, 1)
	assert.False(t, s.IsPending("api_2", "pais"))
}

func TestCommitFailureKeepsSnapshotStale(t *testing.T) {
	s := loaded(t)
	u := &fakeUpdater{err: errors.New("boom")}
	s.SetField("api_3", "sdr", "Eve")
	res, err := s.CommitField(context.Background(), u, "api_3", "sdr", "Eve")
	require.Error(t, err)
	assert.Equal(t, Failed, res.Outcome)
	assert.False(t, s.IsPending("api_3", "sdr"))
	saved, _ := s.Saved("api_3", "sdr")
	assert.Equal(t, "Eva", saved)
	row, _ := s.Row("api_3")
	assert.Equal(t, "Eve", row.SDR, "local value is not rolled back")

	// The identical edit is retried.
	u.err = nil
	res, err = s.CommitField(context.Background(), u, "api_3", "sdr", "Eve")
	require.NoError(t, err)
	assert.Equal(t, Written, res.Outcome)
	assert.Len(t, u.calls, 2)
}

func TestBeginCommitMarksPending(t *testing.T) {
	s := loaded(t)
	c, need := s.BeginCommit("api_1", "pais", "UY")
	require.True(t, need)
	assert.True(t, s.IsPending("api_1", "pais"))
	assert.Equal(t, 1, s.PendingCount())
	res := s.FinishCommit(c, nil)
	assert.Equal(t, Written, res.Outcome)
	assert.Equal(t, 0, s.PendingCount())
}

func TestOverlappingWritesKeepLatest(t *testing.T) {
	s := loaded(t)
	first, need := s.BeginCommit("api_1", "pais", "UY")
	require.True(t, need)
	second, need := s.BeginCommit("api_1", "pais", "PE")
	require.True(t, need)

	// Replies arrive out of order.
	res := s.FinishCommit(second, nil)
	assert.False(t, res.Superseded)
	assert.False(t, s.IsPending("api_1", "pais"))
	saved, _ := s.Saved("api_1", "pais")
	assert.Equal(t, "PE", saved)

	res = s.FinishCommit(first, nil)
	assert.True(t, res.Superseded)
	assert.Equal(t, Written, res.Outcome)
	saved, _ = s.Saved("api_1", "pais")
	assert.Equal(t, "PE", saved)

	// Going back to the older value still needs a write.
	_, need = s.BeginCommit("api_1", "pais", "UY")
	assert.True(t, need)
}

func TestEarlierWriteSettlingKeepsCellPending(t *testing.T) {
	s := loaded(t)
	first, _ := s.BeginCommit("api_2", "sdr", "Lu")
	second, _ := s.BeginCommit("api_2", "sdr", "Lucho")

	s.FinishCommit(first, nil)
	assert.True(t, s.IsPending("api_2", "sdr"), "second write still in flight")
	saved, _ := s.Saved("api_2", "sdr")
	assert.Equal(t, "Luis", saved)

	res := s.FinishCommit(second, errors.New("boom"))
	assert.Equal(t, Failed, res.Outcome)
	assert.False(t, s.IsPending("api_2", "sdr"))
}

func TestNumericNormalization(t *testing.T) {
	s := New()
	s.Load([]model.Row{model.MapRemoteToRow(model.Record{"id": "9", "margen_min": "15"})})
	s.SetField("api_9", "margen_min", "15.0")
	row, _ := s.Row("api_9")
	assert.Equal(t, "15", row.MargenMin)
	// margen_min is not a tracked column, so the first commit writes.
	u := &fakeUpdater{}
	_, err := s.CommitField(context.Background(), u, "api_9", "margen_min", "15.0")
	require.NoError(t, err)
	require.Len(t, u.calls, 1)
	assert.Equal(t, model.Payload{"margen_min": 15.0}, u.calls[0])
	res, _ := s.CommitField(context.Background(), u, "api_9", "margen_min", "15")
	assert.Equal(t, Unchanged, res.Outcome)

	assert.Equal(t, "", Normalize("margen_min", "  "))
	assert.Equal(t, "x", Normalize("sdr", "x"))
}

func TestPrependAndRemoveAreLocal(t *testing.T) {
	s := loaded(t)
	s.Prepend(model.MapRemoteToRow(model.Record{"id": "10", "sdr": "Nuevo"}))
	require.Equal(t, 4, s.Len())
	assert.Equal(t, "api_10", s.Rows()[0].ID)
	assert.Equal(t, 4*len(model.Columns), s.SnapshotLen())

	n := s.Remove(map[string]bool{"api_10": true, "api_2": true})
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())
	_, ok := s.Row("api_2")
	assert.False(t, ok)
}

func TestReloadRebaselinesLoadedRows(t *testing.T) {
	s := loaded(t)
	s.BeginLoad()
	assert.True(t, s.Loading())
	s.Load([]model.Row{model.MapRemoteToRow(model.Record{"id": "1", "sdr": "Ana B"})})
	saved, _ := s.Saved("api_1", "sdr")
	assert.Equal(t, "Ana B", saved)
	assert.Equal(t, 1, s.Len())

	s.BeginLoad()
	s.AbortLoad()
	assert.False(t, s.Loading())
	assert.Equal(t, 1, s.Len())
}
