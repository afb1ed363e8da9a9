package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/model"
	"github.com/pable/go-gameplan/internal/parser"
	"github.com/pable/go-gameplan/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <dir|file>...",
	Short: "Import game breakdown sheets into the play store",
	Long: `Read .xlsx, .csv, .csv.gz or .csv.zst game sheets, keep offensive snaps,
and store them. Directories are scanned for game files in name order, which
sets the game number. Files already imported (same content hash) are skipped.

File names are expected to look like "09 22 2023 Westview.xlsx"; the first
three space-separated tokens form the game date and the last token is the
opponent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := parser.ListGameFiles(arg)
		if err != nil {
			return fmt.Errorf("scan %s: %w", arg, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No game files found.")
		return nil
	}

	if !strings.Contains(dbPath, "://") && dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	runID := uuid.New().String()
	importedAt := time.Now().UTC().Format(time.RFC3339)
	var imported, skipped, plays int

	for _, path := range files {
		fmt.Fprintf(os.Stderr, "Reading %s...\n", filepath.Base(path))
		raw, err := parser.ParseFile(path, cfg)
		if err != nil {
			return err
		}

		exists, err := db.GameExists(raw.Hash)
		if err != nil {
			return fmt.Errorf("check game: %w", err)
		}
		if exists {
			fmt.Fprintf(os.Stderr, "  already stored as %s, skipping\n", raw.Hash[:12])
			skipped++
			continue
		}

		number, err := db.NextGameNumber()
		if err != nil {
			return fmt.Errorf("next game number: %w", err)
		}
		game := model.Game{
			Hash:       raw.Hash,
			GameNumber: number,
			Date:       raw.Date,
			Opponent:   raw.Opponent,
			SourceFile: raw.SourceFile,
			PlayCount:  len(raw.Plays),
			ImportID:   runID,
			ImportedAt: importedAt,
		}
		if err := db.InsertGame(game); err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
		if err := db.InsertPlays(raw.Plays); err != nil {
			return fmt.Errorf("insert plays: %w", err)
		}
		if raw.Skipped > 0 {
			fmt.Fprintf(os.Stderr, "  dropped %d offensive rows with no down\n", raw.Skipped)
		}
		fmt.Fprintf(os.Stdout, "Game %d  %-10s  %-16s  %3d plays  %s\n",
			number, raw.Date, raw.Opponent, len(raw.Plays), raw.Hash[:12])
		imported++
		plays += len(raw.Plays)
	}

	fmt.Fprintf(os.Stdout, "\nImported %d game(s), %d plays (run %s); %d already stored.\n",
		imported, plays, runID[:8], skipped)
	return nil
}
