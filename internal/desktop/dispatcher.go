package desktop

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrDispatcherClosed is returned for work submitted before Start or after Stop.
var ErrDispatcherClosed = errors.New("ui dispatcher not running")

// Dispatcher is the single UI execution context. Tray events and every command that
// touches the tray or the window run on its goroutine one at a time.
type Dispatcher struct {
	tasks     chan func()
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	running   atomic.Bool
	log       zerolog.Logger
}

// NewDispatcher returns a stopped dispatcher; call Start before posting.
func NewDispatcher(buffer int, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Start launches the dispatch goroutine. Extra calls are ignored.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.running.Store(true)
		go d.loop()
	})
}

// Stop ends the loop once the task in flight returns; queued tasks are dropped.
// It does not wait, so a task may call it (a tray quit ends in shutdown).
func (d *Dispatcher) Stop() {
	d.startOnce.Do(func() {})
	d.stopOnce.Do(func() {
		d.running.Store(false)
		close(d.done)
	})
}

// Post queues fn without waiting. It reports false when the dispatcher is not running.
func (d *Dispatcher) Post(fn func()) bool {
	if !d.running.Load() {
		return false
	}
	select {
	case d.tasks <- fn:
		return true
	case <-d.done:
		return false
	}
}

// Do runs fn on the dispatcher and returns its error.
// It must not be called from the dispatcher goroutine itself.
func (d *Dispatcher) Do(fn func() error) error {
	result := make(chan error, 1)
	task := func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("ui task panicked: %v", r)
			}
			result <- err
		}()
		err = fn()
	}
	if !d.Post(task) {
		return ErrDispatcherClosed
	}
	select {
	case err := <-result:
		return err
	case <-d.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrDispatcherClosed
		}
	}
}

func (d *Dispatcher) loop() {
	for {
		select {
		case fn := <-d.tasks:
			d.run(fn)
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Str("panic", fmt.Sprint(r)).Msg("ui task panicked")
		}
	}()
	fn()
}
