package store

import (
	"context"

	"prospectsheet/internal/model"
	"prospectsheet/internal/util/logx"
)

// Updater writes one record's fields remotely.
type Updater interface {
	Update(ctx context.Context, recordID string, p model.Payload) (model.Record, error)
}

type Outcome int

const (
	Unchanged Outcome = iota
	Written
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Failed:
		return "failed"
	}
	return "unchanged"
}

type Result struct {
	RowID   string
	Key     string
	Outcome Outcome
	// Superseded is set when a later write to the same cell started before
	// this one settled; the snapshot and pending mark belong to that write.
	Superseded bool
}

type cellKey struct {
	row string
	key string
}

// Commit is an in-flight field write started by BeginCommit.
type Commit struct {
	RowID    string
	Key      string
	RecordID string
	Payload  model.Payload
	norm     string
	seq      uint64
}

// Store is the in-memory row collection plus the last-persisted snapshot and
// the set of cells awaiting a write. It is owned by one goroutine and does
// no locking.
type Store struct {
	rows     []model.Row
	snapshot map[cellKey]string
	pending  map[cellKey]uint64
	seq      uint64
	loading  bool
	seeded   bool
}

func New() *Store {
	return &Store{
		snapshot: map[cellKey]string{},
		pending:  map[cellKey]uint64{},
		loading:  true,
	}
}

func (s *Store) Loading() bool { return s.loading }

// BeginLoad marks a (re)fetch in progress.
func (s *Store) BeginLoad() { s.loading = true }

// Load replaces the rows with a fresh fetch and ends loading. The first load
// initialises the snapshot; later loads only re-baseline the rows they carry.
func (s *Store) Load(rows []model.Row) {
	wasLoading := s.loading
	s.rows = make([]model.Row, len(rows))
	copy(s.rows, rows)
	s.loading = false
	if !wasLoading {
		return
	}
	if !s.seeded {
		s.snapshot = make(map[cellKey]string, len(rows)*len(model.Columns))
		s.seeded = true
	}
	for _, r := range s.rows {
		s.seed(r)
	}
	logx.Debugf("snapshot: %d entries after load of %d rows", len(s.snapshot), len(rows))
}

// AbortLoad ends a failed fetch and keeps the current rows and snapshot.
func (s *Store) AbortLoad() { s.loading = false }

func (s *Store) seed(r model.Row) {
	for _, c := range model.Columns {
		s.snapshot[cellKey{r.ID, c.Key}] = Normalize(c.Key, r.Get(c.Key))
	}
}

// Rows returns the rows in insertion order. Callers must not mutate them.
func (s *Store) Rows() []model.Row { return s.rows }

func (s *Store) Len() int { return len(s.rows) }

func (s *Store) index(id string) int {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return i
		}
	}
	return -1
}

// Row returns a copy of the row with the given local id.
func (s *Store) Row(id string) (model.Row, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Row{}, false
	}
	return s.rows[i].Clone(), true
}

// SetField is the local, per-keystroke mutation. Only the numeric field is
// coerced.
func (s *Store) SetField(rowID, key, value string) bool {
	i := s.index(rowID)
	if i < 0 {
		return false
	}
	if model.IsNumeric(key) {
		value = model.CoerceNumeric(value)
	}
	s.rows[i].Set(key, value)
	return true
}

// BeginCommit decides whether value needs a remote write. When it does, the
// cell is marked pending and the returned Commit must be passed to
// FinishCommit once the write settles.
func (s *Store) BeginCommit(rowID, key, value string) (Commit, bool) {
	ck := cellKey{rowID, key}
	norm := Normalize(key, value)
	if saved, ok := s.snapshot[ck]; ok && saved == norm {
		return Commit{}, false
	}
	c := Commit{RowID: rowID, Key: key, Payload: model.FieldPayload(key, value), norm: norm}
	if i := s.index(rowID); i >= 0 {
		c.RecordID = s.rows[i].RecordID
	}
	s.seq++
	c.seq = s.seq
	s.pending[ck] = c.seq
	return c, true
}

// FinishCommit clears the pending mark. The snapshot advances only on
// success, so a failed value is retried by the next identical edit. Only the
// latest write started for a cell touches its pending mark and snapshot.
func (s *Store) FinishCommit(c Commit, err error) Result {
	ck := cellKey{c.RowID, c.Key}
	res := Result{RowID: c.RowID, Key: c.Key, Outcome: Written}
	if err != nil {
		res.Outcome = Failed
	}
	if s.pending[ck] != c.seq {
		res.Superseded = true
		return res
	}
	delete(s.pending, ck)
	if err == nil {
		s.snapshot[ck] = c.norm
	}
	return res
}

// CommitField runs BeginCommit, the remote update and FinishCommit in one go.
func (s *Store) CommitField(ctx context.Context, u Updater, rowID, key, value string) (Result, error) {
	c, need := s.BeginCommit(rowID, key, value)
	if !need {
		return Result{RowID: rowID, Key: key, Outcome: Unchanged}, nil
	}
	_, err := u.Update(ctx, c.RecordID, c.Payload)
	return s.FinishCommit(c, err), err
}

func (s *Store) IsPending(rowID, key string) bool {
	_, ok := s.pending[cellKey{rowID, key}]
	return ok
}

func (s *Store) PendingCount() int { return len(s.pending) }

func (s *Store) SnapshotLen() int { return len(s.snapshot) }

// Saved returns the last persisted value of a cell.
func (s *Store) Saved(rowID, key string) (string, bool) {
	v, ok := s.snapshot[cellKey{rowID, key}]
	return v, ok
}

// Prepend adds a freshly created row on top and baselines its snapshot.
func (s *Store) Prepend(r model.Row) {
	s.rows = append([]model.Row{r}, s.rows...)
	s.seed(r)
}

// Remove drops rows from local state only; nothing is deleted remotely.
func (s *Store) Remove(ids map[string]bool) int {
	kept := make([]model.Row, 0, len(s.rows))
	removed := 0
	for _, r := range s.rows {
		if ids[r.ID] {
			removed++
			for _, c := range model.Columns {
				delete(s.snapshot, cellKey{r.ID, c.Key})
			}
			continue
		}
		kept = append(kept, r)
	}
	s.rows = kept
	return removed
}

// Normalize is the comparison form of a cell value.
func Normalize(key, v string) string {
	if model.IsNumeric(key) {
		return model.CoerceNumeric(v)
	}
	return v
}
