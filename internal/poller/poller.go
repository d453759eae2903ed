// Package poller drives an order to a terminal status by polling on a fixed period.
package poller

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/model"
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultInterval     = 5 * time.Second
	DefaultExpiryWindow = 600 * time.Second
)

type Result struct {
	Status            model.OrderStatus
	DeliveredAccounts []string
}

type Settler interface {
	PollOrder(ctx context.Context, externalOrderID string) (*Result, error)
}

type SettlerFunc func(ctx context.Context, externalOrderID string) (*Result, error)

func (f SettlerFunc) PollOrder(ctx context.Context, externalOrderID string) (*Result, error) {
	return f(ctx, externalOrderID)
}

// Tick is reported after every poll. Remaining is display state only; reaching zero
// does not expire the order.
type Tick struct {
	Status    model.OrderStatus
	Remaining time.Duration
	Err       error
}

type Options struct {
	Interval     time.Duration
	ExpiryWindow time.Duration
	// CreatedAt anchors the countdown; zero means now.
	CreatedAt time.Time
	OnTick    func(Tick)
}

type Task struct {
	externalOrderID string
	settler         Settler
	opts            Options
	deadline        time.Time

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result *Result
	err    error
}

// Start polls immediately and then every Interval until the order settles or expires,
// a fatal error occurs, ctx ends or Cancel is called.
func Start(ctx context.Context, settler Settler, externalOrderID string, opts Options) *Task {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.ExpiryWindow <= 0 {
		opts.ExpiryWindow = DefaultExpiryWindow
	}
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		externalOrderID: externalOrderID,
		settler:         settler,
		opts:            opts,
		deadline:        opts.CreatedAt.Add(opts.ExpiryWindow),
		cancel:          cancel,
		done:            make(chan struct{}),
	}

	go t.run(ctx)
	return t
}

func (t *Task) Cancel() {
	t.cancel()
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result is the terminal outcome. It is nil until Done is closed.
func (t *Task) Result() (*Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// Remaining is the local countdown, never below zero.
func (t *Task) Remaining() time.Duration {
	remaining := time.Until(t.deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (t *Task) run(ctx context.Context) {
	defer close(t.done)
	defer t.cancel()

	ticker := time.NewTicker(t.opts.Interval)
	defer ticker.Stop()

	for {
		if t.poll(ctx) {
			return
		}

		select {
		case <-ctx.Done():
			t.finish(nil, ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

// poll reports whether the task is finished.
func (t *Task) poll(ctx context.Context) bool {
	result, err := t.settler.PollOrder(ctx, t.externalOrderID)

	tick := Tick{Status: model.OrderPending, Remaining: t.Remaining(), Err: err}
	if err == nil && result != nil {
		tick.Status = result.Status
	}
	if t.opts.OnTick != nil {
		t.opts.OnTick(tick)
	}

	switch {
	case err != nil && ctx.Err() != nil:
		t.finish(nil, ctx.Err())
		return true
	case err != nil && isFatal(err):
		t.finish(nil, err)
		return true
	case err != nil:
		return false
	case result != nil && result.Status.IsTerminal():
		t.finish(result, nil)
		return true
	default:
		return false
	}
}

func (t *Task) finish(result *Result, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = result
	t.err = err
}

// isFatal reports errors that another poll cannot fix.
func isFatal(err error) bool {
	return errors.Is(err, apperr.ErrSettlementFailure) ||
		errors.Is(err, apperr.ErrOrderNotFound) ||
		errors.Is(err, apperr.ErrUnauthorized)
}
