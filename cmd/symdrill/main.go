// Package main provides the CLI entrypoint for symdrill.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/symdrill/internal/config"
	"github.com/verte-zerg/symdrill/internal/errmodel"
	"github.com/verte-zerg/symdrill/internal/generator"
	"github.com/verte-zerg/symdrill/internal/logging"
	"github.com/verte-zerg/symdrill/internal/model"
	"github.com/verte-zerg/symdrill/internal/practice"
	"github.com/verte-zerg/symdrill/internal/stats"
	"github.com/verte-zerg/symdrill/internal/statsui"
	"github.com/verte-zerg/symdrill/internal/store"
	"github.com/verte-zerg/symdrill/internal/tui"
)

const (
	defaultPairsShown  = 0
	defaultCurveWindow = 20
	defaultTopScores   = 20
	defaultLogLevel    = "info"
	defaultPlainWidth  = 80
)

var (
	dbPath   string
	logLevel string
	logFile  string

	practiceSeed       int64
	practicePairsShown int

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "symdrill",
		Short:         "Adaptive symbol typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")

	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "random seed for prompts (0 picks one)")
	rootCmd.Flags().IntVar(&practicePairsShown, "pairs-shown", defaultPairsShown, "max error pairs shown below the prompt (0 shows all)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// env bundles what every subcommand needs once config and flags are merged.
type env struct {
	fileCfg config.FileConfig
	logger  *zap.Logger
	store   *store.Store
}

func openEnv(cmd *cobra.Command) (*env, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DB)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	logger, err := logging.New(logging.Config{Level: logLevel, File: logFile})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Info("started", zap.String("command", cmd.Name()), zap.String("db", dbPath))
	return &env{fileCfg: fileCfg, logger: logger, store: st}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
		e.logger.Error("failed to close db", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	applyInt64Config(cmd, "seed", &practiceSeed, e.fileCfg.Practice.Seed)
	applyIntConfig(cmd, "pairs-shown", &practicePairsShown, e.fileCfg.Practice.PairsShown)
	cfg := model.Config{
		Seed:       practiceSeed,
		PairsShown: practicePairsShown,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	errs := errmodel.Load(cmd.Context(), e.store, errmodel.DefaultParams(), e.logger)
	tracker := errmodel.NewTracker(errs, e.store, e.logger)
	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	}
	engine := practice.NewEngine(tracker, gen, practice.WithLogger(e.logger))

	m := tui.NewModel(cfg, engine, tracker, e.store, e.logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	final := tracker.Snapshot()
	e.logger.Info("practice ended",
		zap.Int("pairs", len(final.RankedPairs())),
		zap.Any("top_scores", final.TopScores(5)))
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented template unless a file exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultTopScores, "number of error scores and pairs to show")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print stats instead of opening the stats TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(cmd.Context(), e.store, cfg, e.logger)
		if err != nil {
			return fmt.Errorf("failed to build stats: %w", err)
		}
		return renderPlainStats(cmd.OutOrStdout(), report, cfg, terminalWidth())
	}

	m := statsui.NewModel(e.store, cfg, e.logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		TopScores:   statsTop,
	}
	if cfg.Last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return cfg, fmt.Errorf("--curve-window must be > 0")
	}
	if cfg.TopScores <= 0 {
		return cfg, fmt.Errorf("--top must be > 0")
	}
	return cfg, nil
}

func renderPlainStats(w io.Writer, report stats.Report, cfg model.StatsConfig, width int) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	// Leave room for the curve label and range.
	if err := stats.RenderCurves(w, report.Sessions, cfg.CurveWindow, width-30); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Sessions) > 0 {
		if err := stats.RenderCharTable(w, report.CharAggsWindow, report.Errors); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	var pairs []errmodel.PairStat
	if report.Errors != nil {
		pairs = report.Errors.RankedPairs()
	}
	if err := stats.RenderPairTable(w, pairs, cfg.TopScores); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultPlainWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultPlainWidth
	}
	return width
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the saved error model as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	errs := errmodel.Load(cmd.Context(), e.store, errmodel.DefaultParams(), e.logger)
	return exportModel(cmd.OutOrStdout(), errs)
}

func exportModel(w io.Writer, errs *errmodel.Model) error {
	data, err := json.MarshalIndent(errs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode error model: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# symdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# seed = 0                # Random seed for prompts (0 picks one per run)
# pairs-shown = %d         # Max error pairs shown below the prompt (0 shows all)

[storage]
# db = %q

[log]
# level = %q          # debug, info, warn, error or off
# file = %q
`,
		defaultPairsShown,
		config.DefaultDBPath(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.PairsShown < 0 {
		return fmt.Errorf("--pairs-shown must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
