package extractor

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Window is the source surrounding a matched line. StartLine anchors the
// text in file coordinates so findings can point at real line numbers.
type Window struct {
	FilePath  string
	StartLine int
	Text      string
}

// Context reads the matched line plus up to window lines on each side.
// The security checker scans this text for validation idioms, so it must
// come from the file as written, not the trimmed snippet.
func (e *Extractor) Context(filePath string, line, window int) (Window, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Window{}, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	start := line - window
	if start < 1 {
		start = 1
	}
	end := line + window

	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++
		if num < start {
			continue
		}
		if num > end {
			break
		}
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return Window{}, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return Window{FilePath: filePath, StartLine: start, Text: sb.String()}, nil
}
