package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/satsim/internal/automation"
	"github.com/san-kum/satsim/internal/command"
	"github.com/san-kum/satsim/internal/config"
	"github.com/san-kum/satsim/internal/console"
	"github.com/san-kum/satsim/internal/export"
	"github.com/san-kum/satsim/internal/logging"
	"github.com/san-kum/satsim/internal/observability"
	"github.com/san-kum/satsim/internal/satellite"
	"github.com/san-kum/satsim/internal/store"
	"github.com/san-kum/satsim/internal/tui"
	"github.com/san-kum/satsim/internal/viz"
)

var (
	configFile  string
	dataDir     string
	logLevel    string
	logFormat   string
	logFile     string
	metricsAddr string
	menuMode    string
	noInitial   bool
	theme       string
	preset      string
	saveRun     bool
	plotRun     bool
	svgPath     string

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

// main wires the cobra command tree. With no subcommand satsim reads
// commands from stdin until exit or end of input.
func main() {
	if err := runRoot(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// runRoot executes the command tree and releases the log file on every
// path. cobra skips post-run hooks when RunE fails.
func runRoot(rootCmd *cobra.Command) error {
	defer closeLog()
	return rootCmd.Execute()
}

func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close log: %v\n", err)
	}
	logCloser = nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "satsim",
		Short:             "single satellite command simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runREPL,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "run transcript directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format: text or json")
	pf.StringVar(&logFile, "log-file", "", "write logs to a rotated file instead of stderr")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	rootCmd.Flags().StringVar(&menuMode, "menu", config.MenuAuto, "show the command menu: auto, always or never")
	rootCmd.Flags().BoolVar(&noInitial, "no-initial", false, "do not print the initial state")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "read commands from stdin",
		Args:  cobra.NoArgs,
		RunE:  runREPL,
	}
	replCmd.Flags().StringVar(&menuMode, "menu", config.MenuAuto, "show the command menu: auto, always or never")
	replCmd.Flags().BoolVar(&noInitial, "no-initial", false, "do not print the initial state")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "full-screen command console",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", viz.ThemeMission.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "run a built-in scenario instead of a file")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save the transcript to the data directory")
	runCmd.Flags().BoolVar(&plotRun, "plot", false, "plot data collected per step")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot data collected over a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSavedRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the plot to an SVG file")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return store.New(cfg.DataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(out, "  %-8s %s\n", name, p.Description)
			}
			return nil
		},
	}

	configInitCmd := &cobra.Command{
		Use:   "config-init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(replCmd, tuiCmd, runCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, configInitCmd)
	return rootCmd
}

// setup loads the config file, applies explicitly set flags over it and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	if flags.Changed("menu") {
		cfg.Console.Menu = menuMode
	}
	if flags.Changed("no-initial") {
		cfg.Console.ShowInitialState = !noInitial
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	logger, logCloser, err = logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger = logger.With("cli", cmd.Name())
	logger.Debug("config loaded", "file", configFile, "data_dir", cfg.DataDir)
	return nil
}

// interpreterOptions wires logging and, when configured, the metrics
// endpoint. The returned stop function shuts the endpoint down.
func interpreterOptions() ([]command.Option, func(), error) {
	opts := []command.Option{command.WithLogger(logger)}
	if cfg.Metrics.Addr == "" {
		return opts, func() {}, nil
	}

	collector, err := observability.NewCommandCollector(prometheus.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	srv, err := observability.Serve(cfg.Metrics.Addr, collector.Handler(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics endpoint: %w", err)
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics endpoint shutdown", "error", err)
		}
	}
	return append(opts, command.WithRecorder(collector)), stop, nil
}

func runREPL(cmd *cobra.Command, args []string) error {
	mode, err := console.ParseMenuMode(cfg.Console.Menu)
	if err != nil {
		return err
	}
	opts, stop, err := interpreterOptions()
	if err != nil {
		return err
	}
	defer stop()

	out := cmd.OutOrStdout()
	session := &console.Session{
		In:          cmd.InOrStdin(),
		Out:         out,
		Interp:      command.New(satellite.New(), command.WriterEmitter{W: out}, opts...),
		Menu:        mode,
		ShowInitial: cfg.Console.ShowInitialState,
		Logger:      logger,
	}
	return session.Run(cmd.Context())
}

func runTUI(cmd *cobra.Command, args []string) error {
	th, err := viz.GetTheme(theme)
	if err != nil {
		return err
	}
	opts, stop, err := interpreterOptions()
	if err != nil {
		return err
	}
	defer stop()

	final, err := tui.Run(satellite.New(), th, opts...)
	if err != nil {
		return err
	}
	logger.Info("console closed", "data_collected", final.DataCollected)
	return nil
}

func loadScenario(args []string) (*automation.Scenario, error) {
	switch {
	case preset != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a scenario file or --preset, not both")
	case preset != "":
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return automation.FromPreset(preset, p), nil
	case len(args) == 1:
		sc, err := automation.LoadScenario(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		return sc, nil
	default:
		return nil, fmt.Errorf("a scenario file or --preset is required")
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args)
	if err != nil {
		return err
	}
	opts, stop, err := interpreterOptions()
	if err != nil {
		return err
	}
	defer stop()

	out := cmd.OutOrStdout()
	interp := command.New(satellite.New(), nil, opts...)

	fmt.Fprintf(out, "running scenario %s (%d commands)\n", sc.Name, len(sc.Commands))
	steps, err := automation.Run(cmd.Context(), sc, interp)
	if err != nil {
		return err
	}

	for _, st := range steps {
		fmt.Fprintf(out, "[%d] %s\n", st.Index, st.Input)
		for _, line := range st.Lines {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}

	final := interp.Snapshot()
	fmt.Fprintln(out, "\nfinal state:")
	for _, line := range final.Lines() {
		fmt.Fprintf(out, "  %s\n", line)
	}

	if plotRun {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.DataPlot(automation.DataSeries(steps), "data collected per step"))
	}

	if saveRun {
		st := store.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sc, steps)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintf(out, "\nrun id: %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSTEPS\tERRORS\tDATA\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.Scenario, r.Steps, r.Errors, r.Final.DataCollected, r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotSavedRun(cmd *cobra.Command, args []string) error {
	st := store.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	steps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scenario: %s\n", meta.Scenario)
	fmt.Fprintf(out, "steps: %d\n\n", len(steps))
	series := automation.DataSeries(steps)
	fmt.Fprintln(out, viz.DataPlot(series, "data collected per step"))

	if svgPath != "" {
		svg := export.SeriesToSVG(series, 640, 240, "#00ff88")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		fmt.Fprintf(out, "wrote %s\n", svgPath)
	}
	return nil
}
