package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// storageCmd represents the storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Information about archive backends",
	Long: `Display information about available archive backends and their use cases.

This command helps you choose where "archive" should put delivered log lines.`,
	RunE: runStorage,
}

func runStorage(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📦 Available Archive Backends")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	fmt.Fprintln(out, "\n🚀 DuckDB (default)")
	fmt.Fprintln(out, "  - Best for: Ad-hoc analytical queries over large logs")
	fmt.Fprintln(out, "  - Format: Single database file (.duckdb), table log_lines")
	fmt.Fprintln(out, "  - Example: archive_type: \"duckdb\", archive_path: \"logs.duckdb\"")

	fmt.Fprintln(out, "\n💾 SQLite")
	fmt.Fprintln(out, "  - Best for: Universal compatibility, small to medium logs")
	fmt.Fprintln(out, "  - Format: Single database file (.sqlite), table log_lines")
	fmt.Fprintln(out, "  - Example: archive_type: \"sqlite\", archive_path: \"logs.sqlite\"")

	fmt.Fprintln(out, "\n📄 JSON")
	fmt.Fprintln(out, "  - Best for: Inspection and tooling that reads JSON")
	fmt.Fprintln(out, "  - Format: One JSON array per archived log file")
	fmt.Fprintln(out, "  - Example: archive_type: \"json\", archive_path: \"./archive/json/\"")

	fmt.Fprintln(out, "\n📊 CSV")
	fmt.Fprintln(out, "  - Best for: Spreadsheets and data analysis tools")
	fmt.Fprintln(out, "  - Format: One CSV file per archived log file")
	fmt.Fprintln(out, "  - Example: archive_type: \"csv\", archive_path: \"./archive/csv/\"")

	return nil
}
