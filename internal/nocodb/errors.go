package nocodb

import (
	"errors"
	"fmt"
)

// ErrPageLimit means the table has more pages than the client will read.
var ErrPageLimit = errors.New("page limit reached")

// RemoteWriteError is a create or update rejected with a non-2xx status.
type RemoteWriteError struct {
	Op     string
	Status int
	Body   string
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s failed HTTP %d", e.Op, e.Status)
}

// RemoteReadError is a failed fetch or an undecodable response while loading.
type RemoteReadError struct {
	Status int
	Err    error
}

func (e *RemoteReadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("load failed HTTP %d", e.Status)
	}
	return fmt.Sprintf("load failed: %v", e.Err)
}

func (e *RemoteReadError) Unwrap() error { return e.Err }

// ValidationGap is a local precondition failure caught before any request.
type ValidationGap struct {
	Missing string
}

func (e *ValidationGap) Error() string { return "missing " + e.Missing }
