package driver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Gaurav-Gosain/dwindle/internal/config"
	"github.com/Gaurav-Gosain/dwindle/internal/layout"
)

// Manager keeps one TilingDriver per desktop and pushes their layouts to
// the host. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	cfg      config.UserConfig
	base     layout.EngineConfig
	host     Host
	drivers  map[string]*TilingDriver
	desktops map[string]Desktop

	timersMu sync.Mutex
	timers   map[string]*debouncer

	building atomic.Bool
}

// NewManager returns a Manager using cfg for every new desktop. A nil cfg
// means the defaults.
func NewManager(cfg *config.UserConfig, host Host) (*Manager, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	base, err := cfg.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid layout config: %w", err)
	}
	return &Manager{
		cfg:      *cfg,
		base:     base,
		host:     host,
		drivers:  make(map[string]*TilingDriver),
		desktops: make(map[string]Desktop),
		timers:   make(map[string]*debouncer),
	}, nil
}

// defaultEngineConfig flips the base axis on portrait outputs when
// auto rotation is enabled.
func (m *Manager) defaultEngineConfig(d Desktop) layout.EngineConfig {
	cfg := m.base
	if m.cfg.Layout.AutoRotateLayout && d.portrait() {
		logger.Debug("Auto rotate layout for desktop", "desktop", d)
		cfg.RotateLayout = !cfg.RotateLayout
	}
	return cfg
}

// SyncDesktops makes the set of drivers match desktops: new desktops get a
// fresh driver, known ones keep theirs with the geometry updated, and
// vanished ones are dropped.
func (m *Manager) SyncDesktops(desktops []Desktop) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stale := make(map[string]bool, len(m.drivers))
	for key := range m.drivers {
		stale[key] = true
	}

	for _, d := range desktops {
		key := d.String()
		m.desktops[key] = d
		if stale[key] {
			delete(stale, key)
			continue
		}
		if _, ok := m.drivers[key]; ok {
			continue
		}
		logger.Debug("Creating new engine for desktop", "desktop", key)
		m.drivers[key] = newTilingDriver(m.defaultEngineConfig(d))

		m.timersMu.Lock()
		m.timers[key] = newDebouncer(m.cfg.TimerDelay(), func() { m.layoutModifiedCallback(key) })
		m.timersMu.Unlock()
	}

	for key := range stale {
		logger.Debug("Removing engine for desktop", "desktop", key)
		delete(m.drivers, key)
		delete(m.desktops, key)
		m.timersMu.Lock()
		if t, ok := m.timers[key]; ok {
			t.Stop()
			delete(m.timers, key)
		}
		m.timersMu.Unlock()
	}
}

// Desktops returns the registered desktops ordered by key.
func (m *Manager) Desktops() []Desktop {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Desktop, 0, len(m.desktops))
	for _, d := range m.desktops {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Desktop) int { return strings.Compare(a.String(), b.String()) })
	return out
}

// Driver returns the driver of a desktop. The driver is not synchronised;
// callers that mutate it must not race with the Manager.
func (m *Manager) Driver(d Desktop) (*TilingDriver, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.drivers[d.String()]
	return drv, ok
}

func (m *Manager) forEach(desktops []Desktop, fn func(*TilingDriver)) error {
	var errs []error
	for _, d := range desktops {
		drv, ok := m.drivers[d.String()]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrNoDriver, d))
			continue
		}
		fn(drv)
	}
	return errors.Join(errs...)
}

// AddWindow tiles w on every given desktop.
func (m *Manager) AddWindow(w Window, desktops ...Desktop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	logger.Debug("Adding window", "class", w.ResourceClass(), "desktops", desktops)
	return m.forEach(desktops, func(d *TilingDriver) { d.AddWindow(w) })
}

// RemoveWindow forgets w on every given desktop.
func (m *Manager) RemoveWindow(w Window, desktops ...Desktop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	logger.Debug("Removing window", "class", w.ResourceClass(), "desktops", desktops)
	return m.forEach(desktops, func(d *TilingDriver) { d.RemoveWindow(w) })
}

// UntileWindow takes w out of the layout on every given desktop.
func (m *Manager) UntileWindow(w Window, desktops ...Desktop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	logger.Debug("Untiling window", "class", w.ResourceClass(), "desktops", desktops)
	return m.forEach(desktops, func(d *TilingDriver) { d.UntileWindow(w) })
}

// PutWindowInTile moves w next to the window shown in tile.
func (m *Manager) PutWindowInTile(d Desktop, w Window, tile layout.Tile, dir layout.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.drivers[d.String()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDriver, d)
	}
	logger.Debug("Putting window in tile", "class", w.ResourceClass(), "direction", dir, "desktop", d)
	drv.PutWindowInTile(w, tile, dir)
	return nil
}

// RebuildLayout recomputes and applies the layout of the given desktops, or
// of every desktop when none are given.
func (m *Manager) RebuildLayout(desktops ...Desktop) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(desktops) == 0 {
		for _, d := range m.desktops {
			desktops = append(desktops, d)
		}
		slices.SortFunc(desktops, func(a, b Desktop) int { return strings.Compare(a.String(), b.String()) })
	}

	var errs []error
	for _, d := range desktops {
		if err := m.rebuildLocked(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) rebuildLocked(d Desktop) error {
	key := d.String()
	drv, ok := m.drivers[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDriver, d)
	}
	if known, ok := m.desktops[key]; ok {
		d = known
	}

	m.building.Store(true)
	defer m.building.Store(false)

	placements := drv.BuildLayout(d.Output.Geometry)
	if root := drv.RootTile(); root != nil {
		root.SetOnModified(func() { m.LayoutModified(d) })
	}
	logger.Debug("Rebuilt layout", "desktop", key, "windows", len(placements))

	maximize := m.cfg.Driver.MaximizeSingle && len(placements) == 1
	placed := make(map[string]bool, len(placements))
	for _, p := range placements {
		p.Maximized = maximize
		placed[p.Window.ID()] = true
		if m.host != nil {
			m.host.Place(p.Window, p.Rect, p.Maximized)
		}
	}

	released := make([]string, 0, len(drv.untiled))
	for id := range drv.untiled {
		if drv.placed[id] {
			released = append(released, id)
		}
	}
	slices.Sort(released)
	for _, id := range released {
		if m.host != nil {
			m.host.Unplace(drv.untiled[id])
		}
	}
	drv.placed = placed
	return nil
}

// LayoutModified schedules a regeneration of the desktop's engine from its
// live tile sizes. Calls made while a layout is being built are ignored.
func (m *Manager) LayoutModified(d Desktop) {
	if m.building.Load() {
		return
	}
	m.timersMu.Lock()
	t, ok := m.timers[d.String()]
	m.timersMu.Unlock()
	if !ok {
		logger.Error("Callback not registered for desktop", "desktop", d)
		return
	}
	t.Trigger()
}

func (m *Manager) layoutModifiedCallback(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.drivers[key]
	if !ok {
		logger.Error("No driver for desktop", "desktop", key)
		return
	}
	logger.Debug("Layout modified", "desktop", key)
	drv.RegenerateLayout()
	if err := m.rebuildLocked(m.desktops[key]); err != nil {
		logger.Error("Rebuild after resize failed", "err", err)
	}
}

// Flush runs every pending regeneration now.
func (m *Manager) Flush() {
	m.timersMu.Lock()
	pending := make([]*debouncer, 0, len(m.timers))
	for _, t := range m.timers {
		pending = append(pending, t)
	}
	m.timersMu.Unlock()
	for _, t := range pending {
		t.Flush()
	}
}

// EngineConfig returns the engine policy of a desktop.
func (m *Manager) EngineConfig(d Desktop) (layout.EngineConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.drivers[d.String()]
	if !ok {
		return layout.EngineConfig{}, fmt.Errorf("%w: %s", ErrNoDriver, d)
	}
	return drv.EngineConfig(), nil
}

// SetEngineConfig replaces the engine policy of a desktop and rebuilds it.
func (m *Manager) SetEngineConfig(d Desktop, cfg layout.EngineConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setEngineConfigLocked(d, cfg)
}

func (m *Manager) setEngineConfigLocked(d Desktop, cfg layout.EngineConfig) error {
	drv, ok := m.drivers[d.String()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDriver, d)
	}
	logger.Debug("Setting engine config for desktop", "desktop", d)
	drv.SetEngineConfig(cfg)
	return m.rebuildLocked(d)
}

// ResetEngineConfig restores the configured policy of a desktop.
func (m *Manager) ResetEngineConfig(d Desktop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if known, ok := m.desktops[d.String()]; ok {
		d = known
	}
	return m.setEngineConfigLocked(d, m.defaultEngineConfig(d))
}

// SetConfig replaces the configuration. Every desktop gets the new engine
// policy and is rebuilt.
func (m *Manager) SetConfig(cfg *config.UserConfig) error {
	base, err := cfg.EngineConfig()
	if err != nil {
		return fmt.Errorf("invalid layout config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = *cfg
	m.base = base

	m.timersMu.Lock()
	for _, t := range m.timers {
		t.SetDelay(cfg.TimerDelay())
	}
	m.timersMu.Unlock()

	keys := make([]string, 0, len(m.desktops))
	for key := range m.desktops {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		d := m.desktops[key]
		if err := m.setEngineConfigLocked(d, m.defaultEngineConfig(d)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Snapshot returns a copy of the desktop's partition tree.
func (m *Manager) Snapshot(d Desktop) (*layout.NodeView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.drivers[d.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDriver, d)
	}
	return drv.Engine().Snapshot(), nil
}

// Windows returns the tiled windows of a desktop in traversal order.
func (m *Manager) Windows(d Desktop) ([]Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	drv, ok := m.drivers[d.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDriver, d)
	}
	return drv.Windows(), nil
}

// Close stops all pending timers.
func (m *Manager) Close() {
	m.timersMu.Lock()
	defer m.timersMu.Unlock()
	for key, t := range m.timers {
		t.Stop()
		delete(m.timers, key)
	}
}
