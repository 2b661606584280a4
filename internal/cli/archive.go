package cli

import (
	"fmt"

	"asynclog/internal/config"
	"asynclog/internal/storage"

	"github.com/spf13/cobra"
)

var (
	archiveType string
	archivePath string
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive [log-file]",
	Short: "Import a delivered log file into an archive store",
	Long: `Copy the lines of a finished log file into an archive backend for
querying. The log file itself is left untouched.

Run this only on a file whose writer has stopped.

Examples:
  # Archive the configured log file into the configured store
  asynclog archive

  # Archive into SQLite
  asynclog archive logs/app.log --archive-type sqlite --archive-path logs.sqlite

  # One CSV file per archived log
  asynclog archive --archive-type csv --archive-path ./archive/csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArchive,
}

func runArchive(cmd *cobra.Command, args []string) error {
	conf, err := config.LoadWithEnv(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if archiveType != "" && archiveType != conf.ArchiveType {
		// A path configured for another backend does not carry over.
		conf.ArchiveType = archiveType
		conf.ArchivePath = ""
	}
	if archivePath != "" {
		conf.ArchivePath = archivePath
	}

	source := conf.LogFile
	if len(args) > 0 {
		source = args[0]
	}

	storeType, storePath := storage.Resolve(conf.ArchiveType, conf.ArchivePath)

	diag := diagnostics(cmd.ErrOrStderr())
	store, err := storage.NewStore(storeType, storePath, diag)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", storeType, err)
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", storeType, err)
	}

	lines, err := storage.ReadLines(source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📦 Using %s storage: %s\n", storeType, storePath)
	inserted, err := store.StoreLines(source, lines)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", source, err)
	}
	fmt.Fprintf(out, "✅ Archived %d/%d lines from %s\n", inserted, len(lines), source)
	return nil
}

func init() {
	archiveCmd.Flags().StringVar(&archiveType, "archive-type", "", "archive type (duckdb, sqlite, json, csv)")
	archiveCmd.Flags().StringVar(&archivePath, "archive-path", "", "archive path (file or directory)")
}
