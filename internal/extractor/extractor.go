// Package extractor walks a Laravel project tree and collects the source
// lines that look like they carry SQL, either as raw statements or through
// the query builder / Eloquent APIs.
package extractor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Line is one SQL-bearing source line with its location.
type Line struct {
	FilePath string `json:"file"`
	Number   int    `json:"line"` // 1-based
	Text     string `json:"text"`
}

// sqlPatterns are the Laravel SQL indicators, matched case-insensitively
// against each trimmed line.
var sqlPatterns = []string{
	"db::select", "db::statement", "db::raw", "db::table",
	"->where(", "->join(", "->leftjoin(", "->rightjoin(",
	"->select(", "->get()", "->first()", "->find(",
	"->with(", "->load(", "->paginate(", "->chunk(",
	"select ", "insert ", "update ", "delete ",
}

var skipDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
	"storage":      true,
	"bootstrap":    true,
}

type Extractor struct {
	scanSubdir string
	maxFiles   int
	logger     *zap.Logger
}

func New(scanSubdir string, maxFiles int, logger *zap.Logger) *Extractor {
	return &Extractor{
		scanSubdir: scanSubdir,
		maxFiles:   maxFiles,
		logger:     logger,
	}
}

// Scan walks projectPath and returns every SQL-bearing line in file order.
// Only the configured subdirectory (app/ for a stock Laravel layout) is
// scanned; when it does not exist the project root is scanned instead.
func (e *Extractor) Scan(ctx context.Context, projectPath string) ([]Line, error) {
	scanPath := filepath.Join(projectPath, e.scanSubdir)
	if _, err := os.Stat(scanPath); err != nil {
		e.logger.Warn("scan subdirectory missing, scanning project root",
			zap.String("subdir", scanPath))
		scanPath = projectPath
	}

	var files []string
	err := filepath.Walk(scanPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(info.Name(), ".php") && len(files) < e.maxFiles {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// Process files concurrently but keep the walk order, so snippet ids
	// stay reproducible across runs.
	perFile := make([][]Line, len(files))
	var wg sync.WaitGroup
	sem := make(chan struct{}, 4)

	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			lines, err := scanFile(path)
			if err != nil {
				e.logger.Warn("skipping unreadable file",
					zap.String("file", path), zap.Error(err))
				return
			}
			perFile[i] = lines
		}(i, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Line
	for _, lines := range perFile {
		out = append(out, lines...)
	}

	e.logger.Info("extraction complete",
		zap.Int("files", len(files)), zap.Int("sql_lines", len(out)))
	return out, nil
}

func scanFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []Line
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if matchesSQLPattern(text) {
			lines = append(lines, Line{FilePath: path, Number: num, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func matchesSQLPattern(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range sqlPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
