package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line is one newline-terminated message as it appears in a log file.
type Line struct {
	Number int    `json:"line"`
	Text   string `json:"message"`
}

// ReadLines splits the log file at path into numbered lines. Lines may be
// of any length; a trailing "\r" is dropped.
func ReadLines(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var lines []Line
	reader := bufio.NewReader(f)
	for n := 1; ; n++ {
		text, err := reader.ReadString('\n')
		if text != "" {
			text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
			lines = append(lines, Line{Number: n, Text: text})
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read log file: %w", err)
		}
	}
}
