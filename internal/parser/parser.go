// Package parser reads game-film spreadsheets and cleans them into plays.
package parser

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-gameplan/internal/model"
)

// Supported game file extensions, longest first so ".csv.gz" wins over ".gz".
var supportedExts = []string{".csv.zst", ".csv.gz", ".xlsx", ".csv"}

func gameExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range supportedExts {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ""
}

// ListGameFiles returns the supported game files in dir, sorted by name.
// Spreadsheet lock files ("~$...") are skipped.
func ListGameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") || gameExt(e.Name()) == "" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// ParseFile reads and cleans the game file at path.
func ParseFile(path string, cfg Config) (*model.RawGame, error) {
	ext := gameExt(path)
	if ext == "" {
		return nil, fmt.Errorf("unsupported game file %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game file: %w", err)
	}

	// Hash file for idempotency key.
	hash := fmt.Sprintf("%x", sha256.Sum256(data))

	rows, err := readTable(ext, data, cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	plays, skipped, err := Clean(rows, cfg)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", filepath.Base(path), err)
	}
	for i := range plays {
		plays[i].GameHash = hash
	}

	date, opponent := fileMeta(path)
	return &model.RawGame{
		Hash:       hash,
		SourceFile: filepath.Base(path),
		Date:       date,
		Opponent:   opponent,
		Plays:      plays,
		Skipped:    skipped,
	}, nil
}

func readTable(ext string, data []byte, sheet string) ([][]string, error) {
	switch ext {
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		return rows, nil
	case ".csv":
		return readCSV(bytes.NewReader(data))
	case ".csv.gz":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		return readCSV(zr)
	case ".csv.zst":
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		return readCSV(dec)
	}
	return nil, fmt.Errorf("unsupported extension %s", ext)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// columnIndex holds the position of each allow-listed column in the header.
type columnIndex struct {
	odk, down, distance, formation, backfield, playCall, playType, routes int
}

func indexHeader(header []string, c Columns) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	idx := columnIndex{
		odk:       lookup(c.ODK),
		down:      lookup(c.Down),
		distance:  lookup(c.Distance),
		formation: lookup(c.Formation),
		backfield: lookup(c.Backfield),
		playCall:  lookup(c.PlayCall),
		playType:  lookup(c.PlayType),
		routes:    lookup(c.Routes),
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Clean keeps offensive rows, selects the configured columns and normalizes
// route names. The first row must be the header. Offensive rows without a
// down are dropped and counted in skipped.
func Clean(rows [][]string, cfg Config) (plays []model.Play, skipped int, err error) {
	if len(rows) == 0 {
		return nil, 0, nil
	}
	idx, err := indexHeader(rows[0], cfg.Columns)
	if err != nil {
		return nil, 0, err
	}

	for n, row := range rows[1:] {
		line := n + 2 // 1-based, after header
		if cell(row, idx.odk) != cfg.OffenseMarker {
			continue
		}
		downStr := cell(row, idx.down)
		if downStr == "" {
			skipped++
			continue
		}
		down, err := parseInt(downStr)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: down: %w", line, err)
		}
		if down < 1 || down > 4 {
			return nil, 0, fmt.Errorf("row %d: down %d out of range", line, down)
		}
		distance, err := parseInt(cell(row, idx.distance))
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: distance: %w", line, err)
		}
		if distance < 0 {
			return nil, 0, fmt.Errorf("row %d: negative distance %d", line, distance)
		}

		p := model.Play{
			PlayIndex: len(plays),
			Down:      down,
			Distance:  distance,
			Formation: cell(row, idx.formation),
			Backfield: cell(row, idx.backfield),
			PlayCall:  cell(row, idx.playCall),
			PlayType:  model.ParsePlayType(cell(row, idx.playType)),
		}
		if r := cell(row, idx.routes); r != "" {
			p.Routes = sql.NullString{String: strings.ReplaceAll(r, "/", "-"), Valid: true}
		}
		plays = append(plays, p)
	}
	return plays, skipped, nil
}

// parseInt accepts "3" as well as spreadsheet-formatted "3.0".
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

// fileMeta derives the game date and opponent from a name like
// "09 22 2023 Westview.xlsx": the first three tokens are the date and the
// last token is the opponent.
func fileMeta(path string) (date, opponent string) {
	base := filepath.Base(path)
	base = base[:len(base)-len(gameExt(base))]
	tokens := strings.Fields(base)
	switch {
	case len(tokens) == 0:
		return "", ""
	case len(tokens) < 3:
		return "", tokens[len(tokens)-1]
	}
	date = strings.Join(tokens[:3], "-")
	if len(tokens) > 3 {
		opponent = tokens[len(tokens)-1]
	}
	return date, opponent
}
