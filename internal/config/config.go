// Package config loads and writes the dwindle configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Gaurav-Gosain/dwindle/internal/layout"
	"github.com/adrg/xdg"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownOption is returned by ApplyOverrides for keys that do not name a
// configuration option.
var ErrUnknownOption = errors.New("unknown option")

const (
	minSplitPercent = 10
	maxSplitPercent = 90
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Layout LayoutConfig `toml:"layout"`
	Driver DriverConfig `toml:"driver"`
}

// LayoutConfig holds the tiling policy shared by every desktop.
type LayoutConfig struct {
	InsertionPoint    string `toml:"insertion_point" comment:"Side new windows are inserted on: left or right"`
	RotateLayout      bool   `toml:"rotate_layout" comment:"Split the screen top/bottom first instead of left/right"`
	AutoRotateLayout  bool   `toml:"auto_rotate_layout" comment:"Rotate automatically on outputs taller than wide"`
	PreserveSplit     bool   `toml:"preserve_split" comment:"Keep the split axis of a container when the tree changes"`
	ForceSplit        string `toml:"force_split" comment:"Axis of every split: disabled, left_top or right_bottom"`
	DefaultSplitRatio int    `toml:"default_split_ratio" comment:"Share of the first half in percent (10-90)"`
}

// DriverConfig controls how layouts are pushed to windows.
type DriverConfig struct {
	TimerDelayMS   int  `toml:"timer_delay_ms" comment:"Delay before applying a manual resize, in milliseconds"`
	ResizeAmount   int  `toml:"resize_amount" comment:"Pixels moved by one resize action"`
	MaximizeSingle bool `toml:"maximize_single" comment:"Maximize a window that is alone on its desktop"`
	Debug          bool `toml:"debug"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Layout: LayoutConfig{
			InsertionPoint:    layout.InsertLeft.String(),
			ForceSplit:        layout.ForceSplitDisabled.String(),
			DefaultSplitRatio: 50,
		},
		Driver: DriverConfig{
			TimerDelayMS: 10,
			ResizeAmount: 10,
		},
	}
}

// GetConfigPath returns the path of the user configuration file, creating
// its directory if needed.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("dwindle", "config.toml"))
}

// LoadUserConfig reads the user configuration, writing a default file first
// when none exists.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := WriteDefault(path); err != nil {
			return nil, err
		}
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a configuration file. Options missing from the file keep
// their default values.
func LoadFile(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteDefault writes the default configuration, with a short header, to path.
func WriteDefault(path string) error {
	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# dwindle configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n\n")
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every invalid option.
func (c *UserConfig) Validate() error {
	var errs []error
	if _, err := c.EngineConfig(); err != nil {
		errs = append(errs, err)
	}
	if c.Driver.TimerDelayMS < 0 {
		errs = append(errs, fmt.Errorf("timer_delay_ms must not be negative, got %d", c.Driver.TimerDelayMS))
	}
	if c.Driver.ResizeAmount <= 0 {
		errs = append(errs, fmt.Errorf("resize_amount must be positive, got %d", c.Driver.ResizeAmount))
	}
	return errors.Join(errs...)
}

// EngineConfig converts the layout section into the engine's policy.
func (c *UserConfig) EngineConfig() (layout.EngineConfig, error) {
	var errs []error

	ip, err := layout.ParseInsertionPoint(c.Layout.InsertionPoint)
	if err != nil {
		errs = append(errs, err)
	}
	fs, err := layout.ParseForceSplit(c.Layout.ForceSplit)
	if err != nil {
		errs = append(errs, err)
	}
	ratio := c.Layout.DefaultSplitRatio
	if ratio < minSplitPercent || ratio > maxSplitPercent {
		errs = append(errs, fmt.Errorf("default_split_ratio must be between %d and %d, got %d",
			minSplitPercent, maxSplitPercent, ratio))
	}
	if len(errs) > 0 {
		return layout.EngineConfig{}, errors.Join(errs...)
	}

	return layout.EngineConfig{
		InsertionPoint:    ip,
		RotateLayout:      c.Layout.RotateLayout,
		PreserveSplit:     c.Layout.PreserveSplit,
		ForceSplit:        fs,
		DefaultSplitRatio: float64(ratio) / 100,
	}, nil
}

// TimerDelay returns the resize debounce interval.
func (c *UserConfig) TimerDelay() time.Duration {
	return time.Duration(c.Driver.TimerDelayMS) * time.Millisecond
}

// ApplyOverrides sets options from "section.key" = value pairs, as given on
// the command line. Values are converted to the option's type. Nothing is
// changed when any key is unknown or any value fails to convert.
func ApplyOverrides(cfg *UserConfig, overrides map[string]string) error {
	if len(overrides) == 0 {
		return nil
	}

	input := map[string]any{}
	for key, value := range overrides {
		section, name, ok := strings.Cut(key, ".")
		if !ok || section == "" || name == "" {
			return fmt.Errorf("%w: %q (expected section.key)", ErrUnknownOption, key)
		}
		m, _ := input[section].(map[string]any)
		if m == nil {
			m = map[string]any{}
			input[section] = m
		}
		m[name] = value
	}

	next := *cfg
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		TagName:          "toml",
		WeaklyTypedInput: true,
		Metadata:         &md,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	if len(md.Unused) > 0 {
		slices.Sort(md.Unused)
		return fmt.Errorf("%w: %s", ErrUnknownOption, strings.Join(md.Unused, ", "))
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*cfg = next
	return nil
}

// ParseOverrides splits "key=value" arguments into a map.
func ParseOverrides(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q (expected key=value)", arg)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
