package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName        = "asynclog"
	appDescription = "An asynchronous many-producer, single-writer log sink"
	version        = "1.0.0"
)

var (
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Drive and inspect an asynchronous console+file log sink",
	Long: fmt.Sprintf(`%s - %s

Producers push ready-made lines from any goroutine; one background worker
writes them, in push order, to a console stream and an append-only log file.
Shutdown drains every queued line before the file is closed.

Commands:
• run      - push synthetic traffic from concurrent producers
• verify   - check a delivered log file for per-producer ordering
• archive  - import a delivered log file into DuckDB, SQLite, JSON or CSV
• validate - check configuration and output locations
• storage  - describe the archive backends

Configuration is read from a YAML file, then ASYNCLOG_* environment
variables (a .env file is honoured), then command line flags.`, appName, appDescription),
	Version:      version,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// diagnostics returns the logger used for the tool's own messages. Log lines
// themselves never go through it.
func diagnostics(w io.Writer) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, " ", log.LstdFlags|log.Lshortfile)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(storageCmd)
}
