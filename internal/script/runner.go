package script

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Gaurav-Gosain/dwindle/internal/config"
	"github.com/Gaurav-Gosain/dwindle/internal/driver"
	"github.com/Gaurav-Gosain/dwindle/internal/layout"
)

var (
	// ErrNoScreen is returned for commands that run before any Screen.
	ErrNoScreen = errors.New("no screen defined")
	// ErrNoFocus is returned when a command omits its window id and no
	// window has focus.
	ErrNoFocus = errors.New("no focused window")
)

// ScreenState is the layout of one screen.
type ScreenState struct {
	Desktop    driver.Desktop
	Placements []driver.Placement
	Tree       *layout.NodeView
}

// Frame is the state captured by a Print command.
type Frame struct {
	Line int
	ScreenState
}

// Result is the outcome of a script run.
type Result struct {
	// Screens holds the final layout of every screen, in definition order.
	Screens []ScreenState
	// Focus is the id of the focused window, if any.
	Focus  string
	Frames []Frame
	// Skipped lists commands that had nothing to act on.
	Skipped []Command
}

// Runner executes scripts against a headless driver.Manager.
type Runner struct {
	cfg     config.UserConfig
	host    *RecordingHost
	manager *driver.Manager

	screens      []driver.Desktop
	current      int
	windows      map[string]*window
	windowScreen map[string]int
	focus        string
	result       *Result
}

// NewRunner returns a Runner starting from cfg. A nil cfg means the defaults.
func NewRunner(cfg *config.UserConfig) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Runner{cfg: *cfg}
}

// Run executes cmds in order and returns the final state. It stops at the
// first failing command.
func (r *Runner) Run(ctx context.Context, cmds []Command) (*Result, error) {
	r.host = NewRecordingHost()
	m, err := driver.NewManager(&r.cfg, r.host)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	r.manager = m
	r.screens = nil
	r.current = -1
	r.windows = make(map[string]*window)
	r.windowScreen = make(map[string]int)
	r.focus = ""
	r.result = &Result{}

	for i := range cmds {
		cmd := &cmds[i]
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		logger.Debug("Executing", "line", cmd.Line, "command", cmd.String())
		if err := r.exec(ctx, cmd); err != nil {
			return r.result, fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Type, err)
		}
		m.Flush()
	}

	for i := range r.screens {
		state, err := r.state(r.screens[i])
		if err != nil {
			return r.result, err
		}
		r.result.Screens = append(r.result.Screens, state)
	}
	r.result.Focus = r.focus
	return r.result, nil
}

func (r *Runner) skip(cmd *Command) {
	logger.Info("Command had no effect", "line", cmd.Line, "command", cmd.String())
	r.result.Skipped = append(r.result.Skipped, *cmd)
}

func (r *Runner) screen() (driver.Desktop, error) {
	if r.current < 0 {
		return driver.Desktop{}, ErrNoScreen
	}
	return r.screens[r.current], nil
}

// target resolves a window id, defaulting to the focused window, together
// with the screen it was opened on.
func (r *Runner) target(id string) (*window, driver.Desktop, error) {
	if id == "" {
		if r.focus == "" {
			return nil, driver.Desktop{}, ErrNoFocus
		}
		id = r.focus
	}
	w, ok := r.windows[id]
	if !ok {
		return nil, driver.Desktop{}, fmt.Errorf("%w: %s", driver.ErrUnknownWindow, id)
	}
	return w, r.screens[r.windowScreen[id]], nil
}

func (r *Runner) exec(ctx context.Context, cmd *Command) error {
	m := r.manager

	switch cmd.Type {
	case CommandType_Screen:
		return r.execScreen(cmd)

	case CommandType_Set:
		if err := config.ApplyOverrides(&r.cfg, map[string]string{cmd.Arg(0): cmd.Arg(1)}); err != nil {
			return err
		}
		return m.SetConfig(&r.cfg)

	case CommandType_Open:
		d, err := r.screen()
		if err != nil {
			return err
		}
		id := cmd.Arg(0)
		if _, ok := r.windows[id]; ok {
			return fmt.Errorf("window %q is already open", id)
		}
		w := &window{id: id, class: cmd.Arg(1)}
		if err := m.AddWindow(w, d); err != nil {
			return err
		}
		r.windows[id] = w
		r.windowScreen[id] = r.current
		r.focus = id
		return m.RebuildLayout(d)

	case CommandType_Close:
		w, d, err := r.target(cmd.Arg(0))
		if err != nil {
			return err
		}
		if err := m.RemoveWindow(w, d); err != nil {
			return err
		}
		delete(r.windows, w.id)
		delete(r.windowScreen, w.id)
		if err := m.RebuildLayout(d); err != nil {
			return err
		}
		if r.focus == w.id {
			r.focus = ""
			if rest, err := m.Windows(d); err == nil && len(rest) > 0 {
				r.focus = rest[0].ID()
			}
		}
		return nil

	case CommandType_Rotate:
		d, err := r.screen()
		if err != nil {
			return err
		}
		if !m.RotateLayout(d) {
			r.skip(cmd)
		}
		return nil

	case CommandType_Sleep:
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cmd.Delay):
		}
		return nil

	case CommandType_Print:
		d, err := r.screen()
		if err != nil {
			return err
		}
		state, err := r.state(d)
		if err != nil {
			return err
		}
		r.result.Frames = append(r.result.Frames, Frame{Line: cmd.Line, ScreenState: state})
		return nil
	}

	return r.execWindow(cmd)
}

func (r *Runner) execScreen(cmd *Command) error {
	width, _ := strconv.Atoi(cmd.Arg(1))
	height, _ := strconv.Atoi(cmd.Arg(2))
	d := driver.Desktop{
		Desktop:  cmd.Arg(0),
		Activity: "default",
		Output: driver.Output{
			Name:     cmd.Arg(0),
			Geometry: layout.Rect{Width: width, Height: height},
		},
	}

	r.current = -1
	for i, s := range r.screens {
		if s.String() == d.String() {
			r.screens[i] = d
			r.current = i
		}
	}
	if r.current < 0 {
		r.screens = append(r.screens, d)
		r.current = len(r.screens) - 1
	}

	r.manager.SyncDesktops(r.screens)
	return r.manager.RebuildLayout(d)
}

// execWindow runs the commands acting on one window.
func (r *Runner) execWindow(cmd *Command) error {
	m := r.manager
	w, d, err := r.target(cmd.Arg(0))
	if err != nil {
		return err
	}

	var dir driver.Direction
	switch cmd.Type {
	case CommandType_Insert, CommandType_Resize, CommandType_Swap, CommandType_Focus:
		if dir, err = driver.ParseDirection(cmd.Arg(1)); err != nil {
			return err
		}
	}

	var ok bool
	switch cmd.Type {
	case CommandType_Retile:
		ok = m.Retile(d, w)
	case CommandType_Insert:
		ok = m.Insert(d, w, dir)
	case CommandType_Resize:
		ok = m.Resize(d, w, dir)
	case CommandType_Swap:
		ok = m.SwapInDirection(d, w, dir)
	case CommandType_SwapSibling:
		ok = m.SwapWithSibling(d, w)
	case CommandType_SwapHalves:
		ok = m.SwapHalves(d, w)
	case CommandType_ToggleSplit:
		ok = m.ToggleSplit(d, w)
	case CommandType_Drag:
		ratio, err := strconv.ParseFloat(cmd.Arg(1), 64)
		if err != nil {
			return err
		}
		ok = m.SetTileRatio(d, w, ratio)
	case CommandType_Focus, CommandType_Next, CommandType_Prev:
		var next driver.Window
		switch cmd.Type {
		case CommandType_Focus:
			next, ok = m.Focus(d, w, dir)
		case CommandType_Next:
			next, ok = m.Cycle(d, w, false)
		default:
			next, ok = m.Cycle(d, w, true)
		}
		if ok {
			r.focus = next.ID()
		}
	default:
		return fmt.Errorf("unsupported command %q", cmd.Type)
	}

	if !ok {
		r.skip(cmd)
	}
	return nil
}

// state captures the current layout of a screen.
func (r *Runner) state(d driver.Desktop) (ScreenState, error) {
	windows, err := r.manager.Windows(d)
	if err != nil {
		return ScreenState{}, err
	}
	tree, err := r.manager.Snapshot(d)
	if err != nil {
		return ScreenState{}, err
	}

	state := ScreenState{Desktop: d, Tree: tree}
	for _, w := range windows {
		if p, ok := r.host.Placement(w.ID()); ok {
			state.Placements = append(state.Placements, p)
		}
	}
	return state, nil
}
