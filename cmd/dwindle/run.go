package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"charm.land/lipgloss/v2/tree"
	"charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/fsnotify/fsnotify"

	"github.com/Gaurav-Gosain/dwindle/internal/config"
	"github.com/Gaurav-Gosain/dwindle/internal/export"
	"github.com/Gaurav-Gosain/dwindle/internal/layout"
	"github.com/Gaurav-Gosain/dwindle/internal/script"
)

type runOptions struct {
	sets       []string
	configPath string
	svg        string
	watch      bool
	tree       bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// loadConfig resolves the configuration for a run: the given file or the
// user config, followed by --set overrides.
func loadConfig(opts runOptions) (*config.UserConfig, error) {
	var (
		cfg *config.UserConfig
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.LoadUserConfig()
		if err != nil {
			log.Warn("Failed to load config, using defaults", "err", err)
			cfg = config.DefaultConfig()
		}
	}

	overrides, err := config.ParseOverrides(opts.sets)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyOverrides(cfg, overrides); err != nil {
		return nil, err
	}
	if cfg.Driver.Debug {
		enableDebug()
	}
	return cfg, nil
}

// parseScriptFile reads and parses a script, joining any syntax errors.
func parseScriptFile(path string) ([]script.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read script: %w", err)
	}
	cmds, errs := script.ParseFile(string(data))
	if len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = fmt.Errorf("%s: %s", path, e)
		}
		return nil, errors.Join(joined...)
	}
	return cmds, nil
}

func checkScript(path string) error {
	cmds, err := parseScriptFile(path)
	if err != nil {
		return err
	}
	out := colorprofile.NewWriter(os.Stdout, os.Environ())
	fmt.Fprintf(out, "%s %d commands\n", titleStyle.Render(path), len(cmds))
	return nil
}

func runScript(ctx context.Context, path string, opts runOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	cmds, err := parseScriptFile(path)
	if err != nil {
		return err
	}

	out := colorprofile.NewWriter(os.Stdout, os.Environ())
	res, runErr := script.NewRunner(cfg).Run(ctx, cmds)
	if res != nil {
		printResult(out, res, opts.tree)
	}
	if runErr != nil {
		return runErr
	}

	if opts.svg != "" {
		return writeSVGs(ctx, opts.svg, res.Screens)
	}
	return nil
}

// watchScript runs the script, then again whenever it or the config file
// changes, until interrupted.
func watchScript(ctx context.Context, path string, opts runOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not start watcher: %w", err)
	}
	defer watcher.Close()

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath, _ = config.GetConfigPath()
	}

	// Editors often replace files on save, so watch the directories.
	watched := make(map[string]bool)
	for _, p := range []string{path, cfgPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("could not watch %s: %w", p, err)
		}
	}

	rerun := func() {
		fmt.Print("\033[H\033[2J")
		if err := runScript(ctx, path, opts); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
		fmt.Println(dimStyle.Render("Watching for changes, press Ctrl+C to stop"))
	}
	rerun()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			if !watched[abs] || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug("File changed", "file", ev.Name, "op", ev.Op)
			debounce = time.After(100 * time.Millisecond)
		case <-debounce:
			debounce = nil
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error", "err", err)
		}
	}
}

func printResult(out io.Writer, res *script.Result, showTree bool) {
	for _, f := range res.Frames {
		title := fmt.Sprintf("%s (line %d)", f.Desktop.Output.Name, f.Line)
		printScreen(out, title, f.ScreenState, showTree)
	}
	for _, s := range res.Screens {
		printScreen(out, s.Desktop.Output.Name, s, showTree)
	}
	if res.Focus != "" {
		fmt.Fprintln(out, dimStyle.Render("focus: "+res.Focus))
	}
	for _, cmd := range res.Skipped {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("line %d: no effect: %s", cmd.Line, cmd.String())))
	}
}

func printScreen(out io.Writer, title string, s script.ScreenState, showTree bool) {
	g := s.Desktop.Output.Geometry
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s %dx%d", title, g.Width, g.Height)))

	if len(s.Placements) == 0 {
		fmt.Fprintln(out, dimStyle.Render("no tiled windows"))
		fmt.Fprintln(out)
		return
	}

	rows := make([][]string, 0, len(s.Placements))
	for _, p := range s.Placements {
		maximized := ""
		if p.Maximized {
			maximized = "yes"
		}
		rows = append(rows, []string{
			p.Window.ID(),
			p.Window.ResourceClass(),
			strconv.Itoa(p.Rect.X),
			strconv.Itoa(p.Rect.Y),
			strconv.Itoa(p.Rect.Width),
			strconv.Itoa(p.Rect.Height),
			maximized,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Window", "Class", "X", "Y", "Width", "Height", "Max").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(out, t.Render())

	if showTree && s.Tree != nil {
		fmt.Fprintln(out, renderTree(s.Tree).String())
	}
	fmt.Fprintln(out)
}

func renderTree(v *layout.NodeView) *tree.Tree {
	t := tree.Root(nodeLabel(v)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(dimStyle)
	for _, c := range v.Children {
		if c.IsLeaf() {
			t.Child(nodeLabel(c))
		} else {
			t.Child(renderTree(c))
		}
	}
	return t
}

func nodeLabel(v *layout.NodeView) string {
	switch {
	case !v.IsLeaf():
		return dimStyle.Render(fmt.Sprintf("%s %.2f", v.SplitDirection, v.SizeRatio))
	case v.Client == nil:
		return dimStyle.Render("(empty)")
	default:
		return v.Client.Name
	}
}

// writeSVGs renders each screen's tree. With several screens the screen name
// is added to the file name.
func writeSVGs(ctx context.Context, path string, screens []script.ScreenState) error {
	for _, s := range screens {
		target := path
		if len(screens) > 1 {
			ext := filepath.Ext(path)
			target = strings.TrimSuffix(path, ext) + "-" + s.Desktop.Output.Name + ext
		}
		svg, err := export.RenderSVG(ctx, export.ToDOT(s.Tree))
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, svg, 0o644); err != nil {
			return fmt.Errorf("failed to write SVG: %w", err)
		}
		log.Info("Wrote layout tree", "file", target)
	}
	return nil
}
