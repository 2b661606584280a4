package cli

import (
	"fmt"

	"asynclog/internal/config"
	"asynclog/internal/producer"
	"asynclog/internal/storage"

	"github.com/spf13/cobra"
)

var verifyMessages int

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [log-file]",
	Short: "Check a delivered log file for per-producer ordering",
	Long: `Read a log file written by "run" and check that every producer's
messages appear in the order they were pushed, with no gap or duplicate.

Messages missing from the end of a stream can only be detected when the
per-producer count is given with --messages.

Lines that do not carry a sequenced message are ignored, so the file may
also contain other traffic.

Examples:
  # Verify the configured log file
  asynclog verify

  # Verify a specific file, expecting 1000 messages per producer
  asynclog verify logs/app.log --messages 1000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	path, err := logFileArg(args)
	if err != nil {
		return err
	}

	lines, err := storage.ReadLines(path)
	if err != nil {
		return err
	}
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}

	rep := producer.VerifyOrder(texts)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔍 %s: %d lines, %d sequenced messages, %d producer streams\n",
		path, rep.Lines, rep.Matched, rep.Streams)

	problems := rep.OutOfOrder
	if verifyMessages > 0 {
		problems = append(problems, rep.ShortStreams(verifyMessages)...)
	}
	if len(problems) > 0 {
		for _, problem := range problems {
			fmt.Fprintf(out, "   ❌ %s\n", problem)
		}
		return fmt.Errorf("%d delivery problem(s) found", len(problems))
	}
	if verifyMessages > 0 {
		fmt.Fprintf(out, "✅ Every producer stream holds %d messages in order\n", verifyMessages)
	} else {
		fmt.Fprintln(out, "✅ Every producer stream is in order")
	}
	return nil
}

// logFileArg returns the first argument or the configured log file.
func logFileArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	conf, err := config.LoadWithEnv(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	return conf.LogFile, nil
}

func init() {
	verifyCmd.Flags().IntVarP(&verifyMessages, "messages", "n", 0, "expected messages per producer (0 = do not check stream length)")
}
