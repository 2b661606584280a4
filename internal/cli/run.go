package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"asynclog/internal/config"
	"asynclog/internal/logger"
	"asynclog/internal/monitoring"
	"asynclog/internal/producer"
	"asynclog/internal/ui"

	"github.com/spf13/cobra"
)

var (
	// Run command flags
	runProducers   int
	runMessages    int
	runRate        float64
	runBurst       int
	runLogFile     string
	runConsole     string
	runLevel       string
	runUseZap      bool
	runShowMetrics bool
	skipConfirm    bool
)

// confirmThreshold is the message count above which run asks before starting.
const confirmThreshold = 1_000_000

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Push synthetic traffic through the log sink",
	Long: `Start the background writer, push sequenced messages from concurrent
producers, then stop the writer and close the log file.

Every message is written to the console stream first and then appended to
the log file. Stop drains everything that was queued, so the log file holds
all pushed messages once the command returns. Use "verify" afterwards to
check ordering.

Examples:
  # Four producers, 1000 messages each, console output discarded
  asynclog run --producers 4 --messages 1000 --console discard

  # Throttle all producers together to 200 messages per second
  asynclog run --rate 200 --burst 10

  # Format lines through zap before they are queued
  asynclog run --zap --level info --metrics`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	conf, err := config.LoadWithEnv(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyRunFlags(cmd, conf)

	validation := conf.ValidateComplete()
	if validation.HasErrors() {
		fmt.Fprintln(cmd.ErrOrStderr(), "❌ Configuration validation failed:")
		for _, err := range validation.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", err.Error())
		}
		return fmt.Errorf("configuration has %d validation error(s)", len(validation.Errors))
	}

	status := cmd.ErrOrStderr()
	diag := diagnostics(status)

	plan := ui.RunPlan{
		Producers:     conf.Producers,
		MessagesEach:  conf.Messages,
		RatePerSecond: conf.RatePerSecond,
		Burst:         conf.Burst,
		LogFile:       conf.LogFile,
		Console:       conf.Console,
	}
	if conf.RatePerSecond > 0 {
		plan.EstimatedSeconds = int(float64(plan.Total()) / conf.RatePerSecond)
	}
	if !skipConfirm && plan.Total() > confirmThreshold && !ui.ConfirmExecution(plan, cmd.InOrStdin(), status) {
		fmt.Fprintln(status, "❌ Operation cancelled by user")
		return nil
	}

	file, err := logger.Open(conf.LogFile)
	if err != nil {
		return err
	}

	metrics := monitoring.NewMetrics()
	l := logger.New(
		logger.Sinks{Console: consoleWriter(cmd, conf.Console), File: file},
		logger.WithDiagnostics(diag),
		logger.WithObserver(metrics),
	)
	metrics.TrackQueue(l)

	emit := func(runID string, p, seq int) {
		l.Push(producer.Format(runID, p, seq) + "\n")
	}
	if runUseZap {
		zl, err := logger.NewZap(l, conf.LogLevel)
		if err != nil {
			_ = l.CloseOutputs()
			return fmt.Errorf("invalid log level %q: %w", conf.LogLevel, err)
		}
		emit = func(runID string, p, seq int) {
			zl.Info(producer.Format(runID, p, seq))
		}
	}

	diag.Printf("🚀 Starting writer for %s", conf.LogFile)
	fmt.Fprintf(status, "🚀 Pushing %d messages from %d producers...\n", plan.Total(), conf.Producers)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w := l.Start()
	res, runErr := producer.Run(ctx, producer.Plan{
		Producers:     conf.Producers,
		Messages:      conf.Messages,
		RatePerSecond: conf.RatePerSecond,
		Burst:         conf.Burst,
	}, emit)

	// Everything pushed so far is drained before the file is closed.
	l.Stop(w)
	closeErr := l.CloseOutputs()
	diag.Printf("🛑 Writer stopped after %s", res.Duration)

	stats := l.Stats()
	ui.RenderSummary(status, ui.Summary{
		RunID:          res.RunID,
		Duration:       res.Duration.Round(time.Millisecond).String(),
		Pushed:         stats.Pushed,
		ConsoleWritten: stats.ConsoleWritten,
		FileWritten:    stats.FileWritten,
		ConsoleFailed:  stats.ConsoleFailed,
		FileFailed:     stats.FileFailed,
		SkippedEmpty:   stats.SkippedEmpty,
		Pending:        stats.Pending,
	})
	if runShowMetrics {
		snapshot, err := metrics.Snapshot()
		if err != nil {
			diag.Printf("⚠️  Failed to gather metrics: %v", err)
		} else {
			ui.RenderMetrics(status, snapshot)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("producers failed: %w", runErr)
	}
	if closeErr != nil {
		return closeErr
	}
	if runErr != nil {
		fmt.Fprintf(status, "⚠️  Interrupted after %d messages; all of them were written\n", res.Pushed)
		return nil
	}
	fmt.Fprintf(status, "✅ %d messages delivered to %s\n", stats.FileWritten, conf.LogFile)
	return nil
}

func applyRunFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("producers") {
		conf.Producers = runProducers
	}
	if flags.Changed("messages") {
		conf.Messages = runMessages
	}
	if flags.Changed("rate") {
		conf.RatePerSecond = runRate
	}
	if flags.Changed("burst") {
		conf.Burst = runBurst
	}
	if flags.Changed("log-file") {
		conf.LogFile = runLogFile
	}
	if flags.Changed("console") {
		conf.Console = runConsole
	}
	if flags.Changed("level") {
		conf.LogLevel = runLevel
	}
}

func consoleWriter(cmd *cobra.Command, name string) io.Writer {
	switch name {
	case "stderr":
		return cmd.ErrOrStderr()
	case "discard":
		return io.Discard
	default:
		return cmd.OutOrStdout()
	}
}

func init() {
	runCmd.Flags().IntVarP(&runProducers, "producers", "p", 0, "number of concurrent producers")
	runCmd.Flags().IntVarP(&runMessages, "messages", "n", 0, "messages per producer")
	runCmd.Flags().Float64Var(&runRate, "rate", 0, "shared rate limit in messages/second (0 = unlimited)")
	runCmd.Flags().IntVar(&runBurst, "burst", 1, "rate limiter burst")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "log file path")
	runCmd.Flags().StringVar(&runConsole, "console", "", "console sink (stdout, stderr, discard)")
	runCmd.Flags().StringVar(&runLevel, "level", "", "zap level used with --zap")
	runCmd.Flags().BoolVar(&runUseZap, "zap", false, "format lines with zap before queueing")
	runCmd.Flags().BoolVar(&runShowMetrics, "metrics", false, "print the metrics snapshot after the run")
	runCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip confirmation prompt")
}
