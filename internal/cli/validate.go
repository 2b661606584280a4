package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"asynclog/internal/config"
	"asynclog/internal/storage"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and output locations",
	Long: `Validate your configuration and check that the outputs can be used.

This command performs the following checks:
- Validates configuration file format and field values
- Applies ASYNCLOG_* environment overrides the same way "run" does
- Checks the log file can be opened for appending
- Checks the archive backend can be initialized

Examples:
  # Validate default config file
  asynclog validate

  # Validate specific config file
  asynclog validate --config my-config.yaml`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔍 Validating: %s\n\n", configFile)

	conf, err := config.LoadWithEnv(configFile)
	if err != nil {
		return fmt.Errorf("❌ Config file error: %w", err)
	}

	showFieldValidationReport(out, conf)

	validation := conf.ValidateComplete()
	if validation.HasErrors() {
		fmt.Fprintln(out, "\n❌ VALIDATION ERRORS:")
		for _, err := range validation.Errors {
			fmt.Fprintf(out, "   • %s\n", err.Error())
		}
		return fmt.Errorf("please fix the above errors and try again")
	}

	fmt.Fprintln(out, "🔄 Testing components...")

	if err := testLogFile(conf); err != nil {
		fmt.Fprintf(out, "   ❌ Log file: %v\n", err)
		return fmt.Errorf("log file test failed")
	}
	fmt.Fprintln(out, "   ✅ Log file: Writable")

	if err := testArchive(conf, log.New(io.Discard, "", 0)); err != nil {
		fmt.Fprintf(out, "   ❌ Archive: %v\n", err)
		return fmt.Errorf("archive test failed")
	}
	fmt.Fprintln(out, "   ✅ Archive: Ready")

	fmt.Fprintln(out, "\n🎉 All validations passed!")
	return nil
}

func showFieldValidationReport(out io.Writer, conf *config.Config) {
	fmt.Fprintln(out, "📋 Configuration Check:")

	checkField(out, "Log File", conf.LogFile != "", conf.LogFile)
	checkField(out, "Console", isOneOf(conf.Console, "stdout", "stderr", "discard"), conf.Console)
	checkField(out, "Log Level", isOneOf(conf.LogLevel, "debug", "info", "warn", "error"), conf.LogLevel)
	checkField(out, "Producers", conf.Producers > 0, conf.Producers)
	checkField(out, "Messages", conf.Messages >= 0, conf.Messages)

	rate := "unlimited"
	if conf.RatePerSecond > 0 {
		rate = fmt.Sprintf("%g/s, burst %d", conf.RatePerSecond, conf.Burst)
	}
	checkField(out, "Rate", conf.RatePerSecond >= 0 && (conf.RatePerSecond == 0 || conf.Burst > 0), rate)

	archiveType := conf.ArchiveType
	if archiveType == "" {
		archiveType = "duckdb (default)"
	}
	checkField(out, "Archive Type", conf.ArchiveType == "" || isOneOf(conf.ArchiveType, "duckdb", "sqlite", "json", "csv"), archiveType)
}

func checkField(out io.Writer, name string, isValid bool, value interface{}) {
	status := "❌"
	if isValid {
		status = "✅"
	}

	displayValue := fmt.Sprintf("%v", value)
	if displayValue == "" {
		displayValue = "missing"
	}

	fmt.Fprintf(out, "   %s %-15s %s\n", status, name+":", displayValue)
}

func testLogFile(conf *config.Config) error {
	_, statErr := os.Stat(conf.LogFile)
	existed := statErr == nil

	f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("cannot open for appending")
	}
	f.Close()
	if !existed {
		os.Remove(conf.LogFile)
	}
	return nil
}

func testArchive(conf *config.Config, logger *log.Logger) error {
	storageType, storagePath := storage.Resolve(conf.ArchiveType, conf.ArchivePath)

	store, err := storage.NewStore(storageType, storagePath, logger)
	if err != nil {
		return fmt.Errorf("initialization failed")
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return fmt.Errorf("setup failed")
	}
	return nil
}

func isOneOf(v string, valid ...string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}
