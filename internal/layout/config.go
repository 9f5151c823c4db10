package layout

import "fmt"

// InsertionPoint selects the side of the tree new clients descend into.
type InsertionPoint uint8

const (
	InsertLeft InsertionPoint = iota
	InsertRight
)

func (p InsertionPoint) String() string {
	if p == InsertRight {
		return "right"
	}
	return "left"
}

// ParseInsertionPoint accepts "left" or "right".
func ParseInsertionPoint(s string) (InsertionPoint, error) {
	switch s {
	case "left", "Left", "":
		return InsertLeft, nil
	case "right", "Right":
		return InsertRight, nil
	}
	return InsertLeft, fmt.Errorf("invalid insertion point %q", s)
}

// ForceSplit pins the axis of every split.
type ForceSplit uint8

const (
	// ForceSplitDisabled alternates axes by depth.
	ForceSplitDisabled ForceSplit = iota
	// ForceSplitLeftTop always splits vertically.
	ForceSplitLeftTop
	// ForceSplitRightBottom always splits horizontally.
	ForceSplitRightBottom
)

func (f ForceSplit) String() string {
	switch f {
	case ForceSplitLeftTop:
		return "left_top"
	case ForceSplitRightBottom:
		return "right_bottom"
	default:
		return "disabled"
	}
}

// ParseForceSplit accepts "disabled", "left_top" or "right_bottom".
func ParseForceSplit(s string) (ForceSplit, error) {
	switch s {
	case "disabled", "":
		return ForceSplitDisabled, nil
	case "left_top":
		return ForceSplitLeftTop, nil
	case "right_bottom":
		return ForceSplitRightBottom, nil
	}
	return ForceSplitDisabled, fmt.Errorf("invalid force split %q", s)
}

// direction returns the axis a forced split uses.
func (f ForceSplit) direction() LayoutDirection {
	if f == ForceSplitLeftTop {
		return Vertical
	}
	return Horizontal
}

// EngineConfig holds the policy knobs read by the engine at build and insert
// time.
type EngineConfig struct {
	InsertionPoint InsertionPoint
	// RotateLayout makes the root split vertical instead of horizontal.
	RotateLayout  bool
	PreserveSplit bool
	ForceSplit    ForceSplit
	// DefaultSplitRatio is the first child's share for nodes that were never
	// resized.
	DefaultSplitRatio float64
}

// DefaultEngineConfig returns the stock policy: left insertion, horizontal
// base axis, dwindle alternation and even splits.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		InsertionPoint:    InsertLeft,
		ForceSplit:        ForceSplitDisabled,
		DefaultSplitRatio: defaultRatio,
	}
}

func (c EngineConfig) baseDirection() LayoutDirection {
	if c.RotateLayout {
		return Vertical
	}
	return Horizontal
}

func (c EngineConfig) splitRatio() float64 {
	if c.DefaultSplitRatio <= 0 || c.DefaultSplitRatio >= 1 {
		return defaultRatio
	}
	return c.DefaultSplitRatio
}
