package desktop

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// recordingWindow records the window actions tray events trigger.
type recordingWindow struct {
	mu    sync.Mutex
	calls []string
}

func (w *recordingWindow) Show() { w.add("show") }
func (w *recordingWindow) Hide() { w.add("hide") }
func (w *recordingWindow) Quit() { w.add("quit") }

func (w *recordingWindow) add(call string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, call)
}

func (w *recordingWindow) log() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

func newTestTray(host TrayHost, caps Capabilities) (*TrayController, *recordingWindow) {
	w := &recordingWindow{}
	c := NewTrayController(TrayOptions{
		Host:    host,
		Window:  w,
		Caps:    caps,
		Tooltip: "Konnyaku Translator",
		Image:   []byte{1, 2, 3},
		Log:     zerolog.Nop(),
	})
	return c, w
}

var withStatusArea = Capabilities{StatusArea: true}

func TestTraySingleIconAcrossToggles(t *testing.T) {
	sequences := [][]bool{
		{true},
		{true, true},
		{true, false, true},
		{false, true, false, true, true, false},
		{true, false, false, true, false, true},
	}

	for _, seq := range sequences {
		host := newFakeTrayHost()
		c, _ := newTestTray(host, withStatusArea)
		for _, v := range seq {
			if err := c.SetVisible(v); err != nil {
				t.Fatalf("%v: SetVisible(%v) error = %v", seq, v, err)
			}
		}
		if got := host.liveCount(TrayID); got != 1 {
			t.Errorf("%v: live icons = %d, want 1", seq, got)
		}
		if got := host.buildCount(); got != 1 {
			t.Errorf("%v: builds = %d, want 1", seq, got)
		}
		want := seq[len(seq)-1]
		if got := host.last().isVisible(); got != want {
			t.Errorf("%v: visible = %v, want %v", seq, got, want)
		}
	}
}

func TestTrayConcurrentShowBuildsOnce(t *testing.T) {
	host := newFakeTrayHost()
	c, _ := newTestTray(host, withStatusArea)

	var wg sync.WaitGroup
	for _i := 0; _i < 20; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.SetVisible(true); err != nil {
				t.Errorf("SetVisible(true) error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := host.buildCount(); got != 1 {
		t.Errorf("builds = %d, want 1", got)
	}
	if got := host.liveCount(TrayID); got != 1 {
		t.Errorf("live icons = %d, want 1", got)
	}
}

func TestTrayHideWithoutIcon(t *testing.T) {
	host := newFakeTrayHost()
	c, _ := newTestTray(host, withStatusArea)
	for _i := 0; _i < 2; _i++ {
		if err := c.SetVisible(false); err != nil {
			t.Fatalf("SetVisible(false) error = %v", err)
		}
	}
	if host.buildCount() != 0 || c.Exists() {
		t.Error("hiding a missing icon built one")
	}
}

func TestTrayBuildSpec(t *testing.T) {
	host := newFakeTrayHost()
	c, _ := newTestTray(host, withStatusArea)
	if err := c.SetVisible(true); err != nil {
		t.Fatal(err)
	}
	ic := host.last()
	if ic.spec.ID != TrayID {
		t.Errorf("id = %q, want %q", ic.spec.ID, TrayID)
	}
	if ic.spec.Tooltip != "Konnyaku Translator" {
		t.Errorf("tooltip = %q", ic.spec.Tooltip)
	}
	if !slices.Equal(ic.spec.Menu, StandardMenu()) {
		t.Errorf("menu = %v, want standard menu", ic.spec.Menu)
	}
	if ic.showMenuOnLeft {
		t.Error("menu opens on left click")
	}
}

func TestTrayReshowReattachesMenu(t *testing.T) {
	host := newFakeTrayHost()
	c, _ := newTestTray(host, withStatusArea)
	for _, v := range []bool{true, false, true, true} {
		if err := c.SetVisible(v); err != nil {
			t.Fatal(err)
		}
	}
	ic := host.last()
	if ic.menuAttaches != 2 {
		t.Errorf("menu attaches = %d, want 2", ic.menuAttaches)
	}
	if !slices.Equal(ic.menu, StandardMenu()) {
		t.Errorf("menu = %v, want standard menu", ic.menu)
	}
}

func TestTrayBuildFailures(t *testing.T) {
	t.Run("host error", func(t *testing.T) {
		host := newFakeTrayHost()
		host.buildErr = errOS
		c, _ := newTestTray(host, withStatusArea)

		err := c.SetVisible(true)
		if !errors.Is(err, ErrTrayBuild) || !errors.Is(err, errOS) {
			t.Fatalf("error = %v, want ErrTrayBuild wrapping %v", err, errOS)
		}
		if c.Exists() {
			t.Error("icon stored after failed build")
		}

		// The next request retries the build from scratch.
		host.buildErr = nil
		if err := c.SetVisible(true); err != nil {
			t.Fatalf("retry error = %v", err)
		}
		if host.liveCount(TrayID) != 1 {
			t.Errorf("live icons = %d, want 1", host.liveCount(TrayID))
		}
	})

	t.Run("visibility error disposes", func(t *testing.T) {
		host := newFakeTrayHost()
		host.failVisible = errOS
		c, _ := newTestTray(host, withStatusArea)

		err := c.SetVisible(true)
		if !errors.Is(err, ErrTrayBuild) {
			t.Fatalf("error = %v, want ErrTrayBuild", err)
		}
		if !host.last().disposed {
			t.Error("partial icon not disposed")
		}
		if host.liveCount(TrayID) != 0 || c.Exists() {
			t.Error("failed build left an icon registered")
		}
	})

	t.Run("hide error keeps icon", func(t *testing.T) {
		host := newFakeTrayHost()
		c, _ := newTestTray(host, withStatusArea)
		if err := c.SetVisible(true); err != nil {
			t.Fatal(err)
		}
		host.last().failVisible = errOS
		if err := c.SetVisible(false); !errors.Is(err, errOS) {
			t.Fatalf("error = %v, want %v", err, errOS)
		}
		if !c.Exists() {
			t.Error("icon dropped after hide failure")
		}
	})
}

func TestTrayUnsupported(t *testing.T) {
	host := newFakeTrayHost()
	c, _ := newTestTray(host, Capabilities{Dock: true})
	for _, v := range []bool{true, false, true} {
		if err := c.SetVisible(v); err != nil {
			t.Fatalf("SetVisible(%v) error = %v", v, err)
		}
	}
	if host.buildCount() != 0 {
		t.Error("icon built without status-area support")
	}

	nilHost, _ := newTestTray(nil, withStatusArea)
	if err := nilHost.SetVisible(true); err != nil {
		t.Errorf("nil host error = %v", err)
	}
}

func TestTrayClickFiltering(t *testing.T) {
	tests := []struct {
		name string
		ev   ClickEvent
		want []string
	}{
		{"primary released", ClickEvent{ButtonPrimary, ButtonReleased}, []string{"show"}},
		{"primary pressed", ClickEvent{ButtonPrimary, ButtonPressed}, nil},
		{"secondary released", ClickEvent{ButtonSecondary, ButtonReleased}, nil},
		{"middle released", ClickEvent{ButtonMiddle, ButtonReleased}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeTrayHost()
			c, w := newTestTray(host, withStatusArea)
			if err := c.SetVisible(true); err != nil {
				t.Fatal(err)
			}
			host.last().click(tt.ev)
			if got := w.log(); !slices.Equal(got, tt.want) {
				t.Errorf("actions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrayMenuDispatch(t *testing.T) {
	tests := []struct {
		id   MenuItemID
		want []string
	}{
		{MenuShow, []string{"show"}},
		{MenuHide, []string{"hide"}},
		{MenuQuit, []string{"quit"}},
		{MenuItemID("tray_unknown"), nil},
		{MenuItemID(""), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			host := newFakeTrayHost()
			c, w := newTestTray(host, withStatusArea)
			if err := c.SetVisible(true); err != nil {
				t.Fatal(err)
			}
			host.last().selectItem(tt.id)
			if got := w.log(); !slices.Equal(got, tt.want) {
				t.Errorf("actions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrayEventsArePosted(t *testing.T) {
	host := newFakeTrayHost()
	w := &recordingWindow{}
	var queued []func()
	c := NewTrayController(TrayOptions{
		Host:   host,
		Window: w,
		Caps:   withStatusArea,
		Post:   func(fn func()) { queued = append(queued, fn) },
		Log:    zerolog.Nop(),
	})
	if err := c.SetVisible(true); err != nil {
		t.Fatal(err)
	}

	host.last().selectItem(MenuHide)
	if len(w.log()) != 0 {
		t.Fatal("menu action ran before it was dispatched")
	}
	for _, fn := range queued {
		fn()
	}
	if got := w.log(); !slices.Equal(got, []string{"hide"}) {
		t.Errorf("actions = %v, want [hide]", got)
	}
}

func TestStandardMenuLayout(t *testing.T) {
	m := StandardMenu()
	if len(m) != 4 {
		t.Fatalf("entries = %d, want 4", len(m))
	}
	want := []MenuItemID{MenuShow, MenuHide, "", MenuQuit}
	for i, e := range m {
		if e.ID != want[i] {
			t.Errorf("entry %d id = %q, want %q", i, e.ID, want[i])
		}
	}
	if !m[2].Separator {
		t.Error("entry 2 is not a separator")
	}
}
