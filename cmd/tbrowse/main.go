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

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/tbrowse"
	"pkt.systems/tbrowse/internal/config"
	"pkt.systems/tbrowse/internal/pager"
	"pkt.systems/tbrowse/internal/watch"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("pkt.systems/tbrowse")
}

// app carries the process surroundings so tests can swap them.
type app struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	getenv     func(string) string
	isTerminal func(io.Writer) bool
	newScreen  func() (tcell.Screen, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := app{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		getenv:     os.Getenv,
		isTerminal: isTerminal,
		newScreen:  tcell.NewScreen,
	}
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

type cliFlags struct {
	configPath string
	listThemes bool
	showVer    bool
	outPath    string
	boring     bool
}

func (a app) run(ctx context.Context, args []string) int {
	var (
		cli cliFlags
		cfg = config.Default()
	)
	flags := pflag.NewFlagSet("tbrowse", pflag.ContinueOnError)
	flags.SetOutput(a.stderr)
	flags.StringVarP(&cfg.Theme, "theme", "t", cfg.Theme, "Theme name")
	flags.IntVarP(&cfg.Width, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&cfg.OSC8, "osc8", "8", cfg.OSC8, "OSC8 hyperlinks: auto|on|off")
	flags.StringVarP(&cfg.Pager, "pager", "p", cfg.Pager, "Interactive pager: auto|on|off")
	flags.BoolVarP(&cfg.ExpandDetails, "expand", "x", false, "Expand every details element")
	flags.BoolVar(&cfg.KeepScripts, "keep-scripts", false, "Keep script, style, meta and link markup")
	flags.BoolVar(&cfg.ASCIIOnly, "ascii", false, "Replace non-ASCII characters with '?'")
	flags.BoolVar(&cfg.LegacyBreaks, "legacy-breaks", false, "Start a new row after every text run")
	flags.BoolVar(&cfg.Watch, "watch", false, "Reload the pager when a local file changes")
	flags.IntVar(&cfg.MaxRows, "max-rows", 0, fmt.Sprintf("Row capacity of the rendered page (0 uses %d)", tbrowse.DefaultMaxRows))
	flags.StringVar(&cfg.UserAgent, "user-agent", tbrowse.DefaultUserAgent, "HTTP User-Agent")
	timeout := flags.Duration("timeout", tbrowse.DefaultTimeout, "HTTP fetch timeout")
	flags.StringVar(&cfg.LogFile, "log-file", "", "Write structured logs to this file")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	flags.StringVarP(&cli.configPath, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	flags.BoolVar(&cli.listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&cli.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&cli.boring, "boring", "b", false, "Generate non-ANSI output")
	flags.BoolVar(&cli.showVer, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(a.stderr, version.Module(), version.Current())
		fmt.Fprintf(a.stderr, "Usage: tbrowse [flags] <url|file|test>\n")
		fmt.Fprintln(a.stderr, "\nIf no input is provided, HTML is read from stdin.")
		fmt.Fprintln(a.stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if cli.showVer {
		fmt.Fprintln(a.stdout, version.Module(), version.Current())
		return 0
	}
	if cli.listThemes {
		printThemes(a.stdout)
		return 0
	}
	if flags.NArg() > 1 {
		fmt.Fprintf(a.stderr, "expected at most one source, got %d\n", flags.NArg())
		return 2
	}

	cfg, err := a.resolveConfig(flags, cli.configPath, cfg, *timeout)
	if err != nil {
		fmt.Fprintf(a.stderr, "config: %v\n", err)
		return 2
	}

	theme, ok := tbrowse.ThemeByName(cfg.Theme)
	if !ok {
		fmt.Fprintf(a.stderr, "unknown theme %q\n\n", cfg.Theme)
		printThemes(a.stderr)
		return 2
	}
	if cli.boring {
		theme = tbrowse.PlainTheme()
	} else if len(cfg.Colors) > 0 {
		theme, err = tbrowse.OverrideColors(theme, themeColors(cfg.Colors))
		if err != nil {
			fmt.Fprintf(a.stderr, "colors: %v\n", err)
			return 2
		}
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "log: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	source := ""
	if flags.NArg() == 1 {
		source = flags.Arg(0)
	}
	load, err := a.loader(source, cfg)
	if err != nil {
		fmt.Fprintf(a.stderr, "open input: %v\n", err)
		return 1
	}

	osc8, err := resolveOSC8(cfg.OSC8, a.getenv)
	if err != nil {
		fmt.Fprintf(a.stderr, "invalid osc8 %q: %v\n", cfg.OSC8, err)
		return 2
	}
	opts := renderOptions(cfg, osc8)

	writer, closeOut, err := resolveOutput(cli.outPath, a.stdout)
	if err != nil {
		fmt.Fprintf(a.stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	doc, err := load(ctx)
	if err != nil {
		fmt.Fprintf(a.stderr, "load: %v\n", err)
		return 1
	}
	logger.Info().Str("source", displaySource(source)).Int("nodes", doc.Len()).Msg("loaded")

	usePager, err := resolvePager(cfg.Pager, cli.outPath == "" && a.isTerminal(a.stdout))
	if err != nil {
		fmt.Fprintf(a.stderr, "invalid pager %q: %v\n", cfg.Pager, err)
		return 2
	}
	if !usePager {
		width := resolveWidth(cfg.Width, a.stdout, a.getenv)
		if err := tbrowse.RenderDocument(writer, doc, width, theme, opts...); err != nil {
			fmt.Fprintf(a.stderr, "render: %v\n", err)
			return 1
		}
		return 0
	}

	screen, err := a.newScreen()
	if err != nil {
		fmt.Fprintf(a.stderr, "pager: %v\n", err)
		return 1
	}
	p := pager.New(screen, doc, pager.Options{
		Source:        displaySource(source),
		Theme:         theme,
		Load:          load,
		RenderOptions: opts,
		Logger:        logger,
	})
	if cfg.Watch {
		stopWatch := startWatch(source, p, logger, a.stderr)
		defer stopWatch()
	}
	if err := p.Run(ctx); err != nil {
		fmt.Fprintf(a.stderr, "pager: %v\n", err)
		return 1
	}
	return 0
}

// resolveConfig layers the config file, TBROWSE_* variables and the flags
// that were set explicitly.
func (a app) resolveConfig(flags *pflag.FlagSet, path string, fromFlags config.Config, timeout time.Duration) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(tbrowse.ExpandPath(path))
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(a.getenv); err != nil {
		return cfg, err
	}
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("theme", func() { cfg.Theme = fromFlags.Theme })
	set("width", func() { cfg.Width = fromFlags.Width })
	set("osc8", func() { cfg.OSC8 = fromFlags.OSC8 })
	set("pager", func() { cfg.Pager = fromFlags.Pager })
	set("expand", func() { cfg.ExpandDetails = fromFlags.ExpandDetails })
	set("keep-scripts", func() { cfg.KeepScripts = fromFlags.KeepScripts })
	set("ascii", func() { cfg.ASCIIOnly = fromFlags.ASCIIOnly })
	set("legacy-breaks", func() { cfg.LegacyBreaks = fromFlags.LegacyBreaks })
	set("watch", func() { cfg.Watch = fromFlags.Watch })
	set("max-rows", func() { cfg.MaxRows = fromFlags.MaxRows })
	set("user-agent", func() { cfg.UserAgent = fromFlags.UserAgent })
	set("timeout", func() { cfg.Timeout = config.Duration(timeout) })
	set("log-file", func() { cfg.LogFile = fromFlags.LogFile })
	set("log-level", func() { cfg.LogLevel = fromFlags.LogLevel })
	return cfg, cfg.Validate()
}

// loader returns the function that produces the document, both for the
// first render and for pager reloads. Stdin is read once and re-parsed.
func (a app) loader(source string, cfg config.Config) (pager.LoadFunc, error) {
	build := []tbrowse.BuildOption{tbrowse.WithExpandedDetails(cfg.ExpandDetails)}
	if source == "" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return func(context.Context) (*tbrowse.Document, error) {
			return tbrowse.Parse(tbrowse.ParseRequest{
				Source:      data,
				ASCIIOnly:   cfg.ASCIIOnly,
				KeepScripts: cfg.KeepScripts,
				Options:     build,
			})
		}, nil
	}
	req := tbrowse.LoadRequest{
		Fetch: tbrowse.FetchRequest{
			Source:    source,
			UserAgent: cfg.UserAgent,
			Timeout:   time.Duration(cfg.Timeout),
		},
		ASCIIOnly:   cfg.ASCIIOnly,
		KeepScripts: cfg.KeepScripts,
		Options:     build,
	}
	return func(ctx context.Context) (*tbrowse.Document, error) {
		return tbrowse.Load(ctx, req)
	}, nil
}

func startWatch(source string, p *pager.Pager, logger zerolog.Logger, stderr io.Writer) func() {
	path, ok := tbrowse.IsLocalSource(source)
	if !ok {
		logger.Warn().Str("source", displaySource(source)).Msg("watch ignored for non-file source")
		return func() {}
	}
	w, err := watch.New(path, watch.DefaultDelay, logger, p.Reload)
	if err != nil {
		fmt.Fprintf(stderr, "watch: %v\n", err)
		return func() {}
	}
	return func() { _ = w.Close() }
}

func renderOptions(cfg config.Config, osc8 bool) []tbrowse.RenderOption {
	opts := []tbrowse.RenderOption{
		tbrowse.WithOSC8(osc8),
		tbrowse.WithLegacyLineBreaks(cfg.LegacyBreaks),
	}
	if cfg.MaxRows > 0 {
		opts = append(opts, tbrowse.WithMaxRows(cfg.MaxRows))
	}
	return opts
}

func themeColors(in map[string]config.Pair) map[string]tbrowse.Colors {
	out := make(map[string]tbrowse.Colors, len(in))
	for slot, pair := range in {
		out[slot] = tbrowse.Colors{FG: pair.FG, BG: pair.BG}
	}
	return out
}

func newLogger(cfg config.Config) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }
	if strings.TrimSpace(cfg.LogFile) == "" {
		return zerolog.Nop(), noop, nil
	}
	level, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), noop, err
	}
	path := tbrowse.ExpandPath(cfg.LogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), noop, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), noop, err
	}
	logger := zerolog.New(f).Level(level).With().Timestamp().Str("app", "tbrowse").Logger()
	return logger, f.Close, nil
}

func displaySource(source string) string {
	if source == "" {
		return "stdin"
	}
	return source
}

func printThemes(w io.Writer) {
	for _, name := range tbrowse.AvailableThemes() {
		fmt.Fprintln(w, name)
	}
}

func resolveWidth(width int, out io.Writer, getenv func(string) string) int {
	if width > 0 {
		return width
	}
	return terminalWidth(out, getenv, defaultWidth)
}

func terminalWidth(out io.Writer, getenv func(string) string, fallback int) int {
	if f, ok := out.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			if w, _, err := term.GetSize(fd); err == nil && w > 0 {
				return w
			}
		}
	}
	if value := getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string, getenv func(string) string) (bool, error) {
	on, auto, err := parseSwitch(mode)
	if err != nil {
		return false, err
	}
	if auto {
		return tbrowse.DetectOSC8SupportEnv(getenv), nil
	}
	return on, nil
}

func resolvePager(mode string, terminal bool) (bool, error) {
	on, auto, err := parseSwitch(mode)
	if err != nil {
		return false, err
	}
	if auto {
		return terminal, nil
	}
	return on, nil
}

func parseSwitch(mode string) (on, auto bool, err error) {
	switch config.Switch(mode) {
	case "auto":
		return false, true, nil
	case "on":
		return true, false, nil
	case "off":
		return false, false, nil
	default:
		return false, false, fmt.Errorf("expected auto|on|off")
	}
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := tbrowse.ExpandPath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
