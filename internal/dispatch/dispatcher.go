package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"prospectsheet/internal/util/logx"
)

// DefaultInterval is the wait before every webhook call.
const DefaultInterval = 5 * time.Second

// ErrBusy is returned while a batch is still running.
var ErrBusy = errors.New("dispatch already in progress")

// Item is one selected row captured at start time.
type Item struct {
	RowID         string
	SpreadsheetID string
}

// Result reports one attempted item. Err is nil on success.
type Result struct {
	Item  Item
	Index int
	Total int
	Err   error
}

// Message is the operator-facing notification for the result.
func (r Result) Message() string {
	if r.Err != nil {
		return fmt.Sprintf("Error al iniciar (%s): %v", r.Item.SpreadsheetID, r.Err)
	}
	return fmt.Sprintf("Inicio manual enviado (%s)", r.Item.SpreadsheetID)
}

// Dispatcher walks a batch strictly in order, pausing before each call.
// A failed item is reported and the batch goes on.
type Dispatcher struct {
	trig     Triggerer
	clock    Sleeper
	interval time.Duration
	busy     atomic.Bool
}

func New(trig Triggerer, clock Sleeper, interval time.Duration) *Dispatcher {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Dispatcher{trig: trig, clock: clock, interval: interval}
}

// Busy reports whether a batch is running.
func (d *Dispatcher) Busy() bool { return d.busy.Load() }

// Run processes items synchronously and calls report after each one. It
// returns early only when ctx ends.
func (d *Dispatcher) Run(ctx context.Context, items []Item, report func(Result)) error {
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer d.busy.Store(false)
	return d.run(ctx, snapshot(items), report)
}

// Start runs the batch on its own goroutine. Results arrive on the returned
// channel, which is closed when the batch ends.
func (d *Dispatcher) Start(ctx context.Context, items []Item) (<-chan Result, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	batch := snapshot(items)
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		defer d.busy.Store(false)
		err := d.run(ctx, batch, func(r Result) {
			select {
			case ch <- r:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logx.Warnf("dispatch: batch stopped: %v", err)
		}
	}()
	return ch, nil
}

func (d *Dispatcher) run(ctx context.Context, items []Item, report func(Result)) error {
	logx.Infof("dispatch: starting batch of %d", len(items))
	for i, it := range items {
		logx.Debugf("dispatch: %d/%d spreadsheet_id=%s", i+1, len(items), it.SpreadsheetID)
		if err := d.clock.Sleep(ctx, d.interval); err != nil {
			return err
		}
		err := d.trig.Trigger(ctx, it.SpreadsheetID)
		if err != nil {
			logx.Warnf("dispatch: %s: %v", it.SpreadsheetID, err)
		}
		report(Result{Item: it, Index: i, Total: len(items), Err: err})
	}
	logx.Infof("dispatch: batch of %d done", len(items))
	return nil
}

func snapshot(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
