// Package logging sets up the file-backed zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const logFilename = "promptdeck.log"

// maxLogSize caps the log file; an oversized file is rotated once to .old
// at setup.
const maxLogSize = 5 * 1024 * 1024

// Setup returns a logger writing to the log file under dir. With verbose a
// human-friendly console writer on stderr is added. Logging must never take
// the tool down: if the file cannot be opened the logger quietly degrades
// to the console writer (or discards).
func Setup(dir string, verbose bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var writers []io.Writer
	if verbose {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if file := openLogFile(dir); file != nil {
		writers = append(writers, file)
	}

	if len(writers) == 0 {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

func openLogFile(dir string) *os.File {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}

	path := filepath.Join(dir, logFilename)
	rotateIfOversized(path)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable: %v\n", err)
		return nil
	}
	return file
}

func rotateIfOversized(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < maxLogSize {
		return
	}
	// keep a single backup generation
	os.Rename(path, path+".old") //nolint:errcheck
}
