package desktop

import (
	"errors"
	"sync"

	"github.com/konnyaku-app/konnyaku/internal/domain"
)

// fakeSettings is an in-memory settings repository.
type fakeSettings struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{data: make(map[string]string)}
}

func (f *fakeSettings) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeSettings) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeSettings) GetAll() ([]*domain.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.Setting
	for k, v := range f.data {
		list = append(list, &domain.Setting{Key: k, Value: v})
	}
	return list, nil
}

func (f *fakeSettings) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeSettings) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// fakeWindow records window operations. Quit marks the process as exited instead of
// terminating the test binary.
type fakeWindow struct {
	mu       sync.Mutex
	absent   bool
	visible  bool
	focused  bool
	devtools bool
	exited   bool
	calls    []string
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{visible: true}
}

func (w *fakeWindow) record(call string) {
	w.calls = append(w.calls, call)
}

func (w *fakeWindow) Exists() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.absent
}

func (w *fakeWindow) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("show")
	w.visible = true
}

func (w *fakeWindow) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("hide")
	w.visible = false
	w.focused = false
}

func (w *fakeWindow) Focus() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("focus")
	w.focused = true
}

func (w *fakeWindow) SetDevtools(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("devtools")
	w.devtools = enabled
}

func (w *fakeWindow) Quit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.record("quit")
	w.exited = true
}

type windowSnapshot struct {
	visible, focused, devtools, exited bool
}

func (w *fakeWindow) snapshot() windowSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return windowSnapshot{w.visible, w.focused, w.devtools, w.exited}
}

func (w *fakeWindow) callLog() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

// fakeDock records activation policy changes.
type fakeDock struct {
	mu       sync.Mutex
	regular  []bool
	failWith error
}

func (d *fakeDock) SetActivationPolicy(regular bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	d.regular = append(d.regular, regular)
	return nil
}

// fakeTrayHost builds fakeTrayIcons and counts live icons per id.
type fakeTrayHost struct {
	mu       sync.Mutex
	builds   int
	live     map[string]int
	icons    []*fakeTrayIcon
	buildErr error
	// failVisible makes the next built icon fail its first SetVisible call.
	failVisible error
}

func newFakeTrayHost() *fakeTrayHost {
	return &fakeTrayHost{live: make(map[string]int)}
}

func (h *fakeTrayHost) Build(spec TrayIconSpec) (TrayIcon, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.builds++
	if h.buildErr != nil {
		return nil, h.buildErr
	}
	ic := &fakeTrayIcon{host: h, spec: spec, menu: spec.Menu, showMenuOnLeft: true, failVisible: h.failVisible}
	h.failVisible = nil
	h.live[spec.ID]++
	h.icons = append(h.icons, ic)
	return ic, nil
}

func (h *fakeTrayHost) liveCount(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live[id]
}

func (h *fakeTrayHost) buildCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.builds
}

func (h *fakeTrayHost) last() *fakeTrayIcon {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.icons) == 0 {
		return nil
	}
	return h.icons[len(h.icons)-1]
}

type fakeTrayIcon struct {
	host *fakeTrayHost
	spec TrayIconSpec

	mu             sync.Mutex
	visible        bool
	disposed       bool
	menu           Menu
	menuAttaches   int
	showMenuOnLeft bool
	failVisible    error
	failMenu       error
}

func (i *fakeTrayIcon) SetVisible(visible bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.failVisible != nil {
		err := i.failVisible
		i.failVisible = nil
		return err
	}
	i.visible = visible
	return nil
}

func (i *fakeTrayIcon) SetMenu(menu Menu) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.failMenu != nil {
		return i.failMenu
	}
	i.menu = menu
	i.menuAttaches++
	return nil
}

func (i *fakeTrayIcon) SetShowMenuOnLeftClick(enabled bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.showMenuOnLeft = enabled
	return nil
}

func (i *fakeTrayIcon) Dispose() error {
	i.mu.Lock()
	i.disposed = true
	i.visible = false
	i.mu.Unlock()

	i.host.mu.Lock()
	defer i.host.mu.Unlock()
	i.host.live[i.spec.ID]--
	return nil
}

func (i *fakeTrayIcon) isVisible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}

func (i *fakeTrayIcon) click(ev ClickEvent) {
	i.spec.Events.OnClick(ev)
}

func (i *fakeTrayIcon) selectItem(id MenuItemID) {
	i.spec.Events.OnMenu(id)
}

var errOS = errors.New("Shell_NotifyIcon failed")
