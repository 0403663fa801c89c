package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nxadm/tail"
)

type Kind string

const (
	KindCommit   Kind = "commit"
	KindCreate   Kind = "create"
	KindRemove   Kind = "remove"
	KindDispatch Kind = "dispatch"
)

// Entry is one journal line.
type Entry struct {
	Time          time.Time `json:"ts"`
	Kind          Kind      `json:"kind"`
	RowID         string    `json:"row_id,omitempty"`
	RecordID      string    `json:"record_id,omitempty"`
	Key           string    `json:"key,omitempty"`
	Value         string    `json:"value,omitempty"`
	SpreadsheetID string    `json:"spreadsheet_id,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// OK reports whether the journaled action succeeded.
func (e Entry) OK() bool { return e.Error == "" }

// Journal appends entries as NDJSON. A Journal with an empty path discards
// everything.
type Journal struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func Open(path string) *Journal {
	return &Journal{path: path, now: time.Now}
}

func (j *Journal) Path() string { return j.path }

// Append stamps e (when unset) and writes it as one line.
func (j *Journal) Append(e Entry) error {
	if j == nil || j.path == "" {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = j.now()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadAll decodes every entry in the journal. Undecodable lines are skipped.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var out []Entry
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// Follow streams entries appended to the journal after the call, like tail -f.
// Both channels close when ctx ends or the tail stops.
func Follow(ctx context.Context, path string) (<-chan Entry, <-chan error) {
	out := make(chan Entry, 64)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		t, err := tail.TailFile(path, tail.Config{
			Follow:    true,
			ReOpen:    true,
			MustExist: false,
			Logger:    tail.DiscardingLogger,
			Poll:      true,
			Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		})
		if err != nil {
			errs <- err
			return
		}
		defer t.Cleanup()
		for {
			select {
			case <-ctx.Done():
				_ = t.Stop()
				return
			case l, ok := <-t.Lines:
				if !ok {
					return
				}
				if l.Err != nil {
					select {
					case errs <- l.Err:
					default:
					}
					continue
				}
				var e Entry
				if err := json.Unmarshal([]byte(l.Text), &e); err != nil {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					_ = t.Stop()
					return
				}
			}
		}
	}()
	return out, errs
}
