package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fredbi/symptoms/internal/pkg/store"
)

// ErrStopped is returned when sending to a stopped [Driver].
var ErrStopped = errors.New("app: driver stopped")

// Driver runs the update loop of an [App].
//
// Events are applied one at a time, in arrival order. Effects are carried out by the driver:
// snapshots go through a [store.Throttle], measurements run in the background and come back
// as events.
type Driver struct {
	driverOptions

	app         *App
	persistence store.Persistence
	throttle    *store.Throttle

	events   chan Event
	feedback chan Event
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.RWMutex
	state State

	l *slog.Logger
}

// NewDriver prepares the update loop of app, starting from the initial state.
func NewDriver(app *App, persistence store.Persistence, initial State, opts ...DriverOption) *Driver {
	o := driverOptionsWithDefaults(opts)
	d := &Driver{
		driverOptions: o,
		app:           app,
		persistence:   persistence,
		events:        make(chan Event, o.buffer),
		feedback:      make(chan Event, o.buffer),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		state:         initial,
		l:             o.logger.With(slog.String("module", "driver")),
	}

	d.throttle = store.NewThrottle(persistence.Save, o.interval,
		store.WithErrorHandler(func(err error) { go d.post(PersistFailed{Err: err}) }),
		store.WithThrottleLogger(d.l),
	)

	return d
}

// Run loads the persisted snapshot then applies events until the context is done or the
// driver is closed. The last snapshot is written before Run returns.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.done)

	blob, err := d.persistence.Load(ctx)
	if err != nil {
		d.fail(fmt.Errorf("loading snapshot: %w", err))
	} else {
		d.apply(ctx, Loaded{Blob: blob})
	}

	for {
		select {
		case <-ctx.Done():
			return d.shutdown(ctx)
		case <-d.stop:
			d.drain(ctx)

			return d.shutdown(ctx)
		case e := <-d.events:
			d.apply(ctx, e)
		case e := <-d.feedback:
			d.apply(ctx, e)
		}
	}
}

// Send queues an event.
func (d *Driver) Send(ctx context.Context, e Event) error {
	select {
	case <-d.stop:
		return ErrStopped
	default:
	}

	select {
	case d.events <- e:
		return nil
	case <-d.stop:
		return ErrStopped
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop once the queued events are applied.
func (d *Driver) Close() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Done is closed when [Driver.Run] returns.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// State returns the current state.
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.state
}

func (d *Driver) apply(ctx context.Context, e Event) {
	next, effects := d.app.Update(d.State(), e)

	d.mu.Lock()
	d.state = next
	d.mu.Unlock()

	for _, effect := range effects {
		switch effect := effect.(type) {
		case Persist:
			if err := d.throttle.Submit(effect.Blob); err != nil {
				d.report(fmt.Errorf("persisting snapshot: %w", err))
			}
		case Measure:
			d.measure(ctx)
		case ReportError:
			d.report(effect.Err)
		default:
			panic(fmt.Sprintf("unhandled app effect %T", effect))
		}
	}
}

func (d *Driver) measure(ctx context.Context) {
	if d.measurer == nil {
		return
	}

	go func() {
		width, err := d.measurer.Measure(ctx)
		if err != nil {
			d.post(MeasureFailed{Err: err})

			return
		}

		d.post(Measured{Width: width})
	}()
}

// post feeds back an event from a background task.
func (d *Driver) post(e Event) {
	select {
	case d.feedback <- e:
	case <-d.done:
	}
}

func (d *Driver) drain(ctx context.Context) {
	for {
		select {
		case e := <-d.events:
			d.apply(ctx, e)
		default:
			return
		}
	}
}

func (d *Driver) fail(err error) {
	d.mu.Lock()
	d.state.Fatal = err
	d.mu.Unlock()

	d.report(err)
}

func (d *Driver) report(err error) {
	d.l.Warn("application error", slog.String("error", err.Error()))
	d.onError(err)
}

func (d *Driver) shutdown(ctx context.Context) error {
	if err := d.throttle.Close(context.WithoutCancel(ctx)); err != nil {
		d.l.Error("final snapshot not written", slog.String("error", err.Error()))

		return err
	}

	return nil
}
