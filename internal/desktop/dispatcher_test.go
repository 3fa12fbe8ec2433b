package desktop

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func newRunningDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d := NewDispatcher(16, zerolog.Nop())
	d.Start()
	t.Cleanup(d.Stop)
	return d
}

func TestDispatcherDoReturnsError(t *testing.T) {
	d := newRunningDispatcher(t)
	boom := errors.New("boom")
	if err := d.Do(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want %v", err, boom)
	}
	if err := d.Do(func() error { return nil }); err != nil {
		t.Errorf("Do() error = %v, want nil", err)
	}
}

func TestDispatcherSerializesTasks(t *testing.T) {
	d := newRunningDispatcher(t)

	var (
		active, maxActive int
		mu                sync.Mutex
		wg                sync.WaitGroup
	)
	for _i := 0; _i < 50; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Do(func() error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	if maxActive != 1 {
		t.Errorf("max concurrent tasks = %d, want 1", maxActive)
	}
}

func TestDispatcherRecoversPanics(t *testing.T) {
	d := newRunningDispatcher(t)
	err := d.Do(func() error { panic("bad handler") })
	if err == nil {
		t.Fatal("Do() error = nil after panic")
	}
	// The loop survives the panic.
	if err := d.Do(func() error { return nil }); err != nil {
		t.Errorf("Do() after panic error = %v", err)
	}
	done := make(chan struct{})
	if !d.Post(func() { panic("posted") }) {
		t.Fatal("Post() = false on running dispatcher")
	}
	d.Post(func() { close(done) })
	<-done
}

func TestDispatcherNotRunning(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	if d.Post(func() {}) {
		t.Error("Post() before Start = true")
	}
	if err := d.Do(func() error { return nil }); !errors.Is(err, ErrDispatcherClosed) {
		t.Errorf("Do() before Start error = %v, want ErrDispatcherClosed", err)
	}

	d.Start()
	d.Stop()
	d.Stop()
	if d.Post(func() {}) {
		t.Error("Post() after Stop = true")
	}
	if err := d.Do(func() error { return nil }); !errors.Is(err, ErrDispatcherClosed) {
		t.Errorf("Do() after Stop error = %v, want ErrDispatcherClosed", err)
	}
}

func TestDispatcherStopWithoutStart(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	d.Stop()
	d.Start()
	if d.Post(func() {}) {
		t.Error("Post() after Stop then Start = true")
	}
}
