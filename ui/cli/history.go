// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/toeirei/hostmaster/internal/db"
	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/model"
)

// historyCmd represents the 'history' command.
// It lists the provisioning journal, most recent entry first.
var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show the provisioning journal",
	Long:    `Lists every bootstrap task this tool has run against the configured journal database, most recent first.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := db.GetAllJournalEntries()
		if err != nil {
			log.Fatalf("%s", i18n.T("history.error_read", err))
		}
		if len(entries) == 0 {
			fmt.Println(i18n.T("history.empty"))
			return
		}
		for _, e := range entries {
			fmt.Printf("%s  %-20s %s\n", e.Timestamp, e.Action, e.Details)
		}
	},
}

// historyExportCmd dumps the journal into a zstd-compressed JSON file.
var historyExportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export the journal to a compressed (zstd) JSON file",
	Long: `Dumps the provisioning journal into a Zstandard-compressed JSON file.

If an output file is specified, '.zst' is appended when missing. Without
an argument a dated default like 'hostmaster-journal-2026-08-30.json.zst'
is used.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		var outputFile string
		if len(args) == 0 {
			outputFile = fmt.Sprintf("hostmaster-journal-%s.json.zst", time.Now().Format("2006-01-02"))
		} else {
			outputFile = args[0]
			if !strings.HasSuffix(outputFile, ".zst") {
				outputFile += ".zst"
			}
		}

		entries, err := db.GetAllJournalEntries()
		if err != nil {
			log.Fatalf("%s", i18n.T("history.error_read", err))
		}
		data := &model.BackupData{
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
			Entries:    entries,
		}
		if err := writeCompressedBackup(outputFile, data); err != nil {
			log.Fatalf("%s", i18n.T("history.error_export", err))
		}
		fmt.Println(i18n.T("history.export_success", outputFile, len(entries)))
	},
}

// historyImportCmd merges a previously exported journal into the database.
var historyImportCmd = &cobra.Command{
	Use:   "import <backup-file.zst>",
	Short: "Merge an exported journal into the database",
	Long: `Reads a Zstandard-compressed JSON journal export and merges it into the
configured database. Entries already present are skipped, so importing
the same file twice is harmless. Useful when consolidating journals from
several bootstrap machines into one database.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readCompressedBackup(args[0])
		if err != nil {
			log.Fatalf("%s", i18n.T("history.error_import", err))
		}
		added, err := db.ImportJournalEntries(data.Entries)
		if err != nil {
			log.Fatalf("%s", i18n.T("history.error_import", err))
		}
		fmt.Println(i18n.T("history.import_success", added, len(data.Entries)))
	},
}

func init() {
	historyCmd.AddCommand(historyExportCmd, historyImportCmd)
}

// readCompressedBackup handles reading and decoding a zstd-compressed JSON
// journal export.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}

	return &backupData, nil
}

// writeCompressedBackup streams the JSON encoding directly to the zstd
// writer for memory efficiency.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	defer func() { _ = zstdWriter.Close() }()

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ") // Pretty-print the JSON inside the compressed file

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}

	return nil
}
