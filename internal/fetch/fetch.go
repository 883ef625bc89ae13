// Package fetch obtains the raw output of the WOD scraper.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// ErrNoCommand is returned when a CommandFetcher has nothing to run.
var ErrNoCommand = errors.New("no fetch command configured")

// CommandFetcher runs the scraper and returns its stdout.
type CommandFetcher struct {
	args    []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewCommandFetcher creates a fetcher for args. A zero timeout means none.
func NewCommandFetcher(args []string, timeout time.Duration, logger *slog.Logger) *CommandFetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommandFetcher{args: args, timeout: timeout, logger: logger}
}

// Fetch runs the command. Stderr is logged, not returned.
func (f *CommandFetcher) Fetch(ctx context.Context) (string, error) {
	if len(f.args) == 0 {
		return "", ErrNoCommand
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.args[0], f.args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if stderr.Len() > 0 {
		f.logger.Debug("scraper stderr", "output", stderr.String())
	}
	if err != nil {
		return "", fmt.Errorf("run %s: %w", f.args[0], err)
	}
	f.logger.Info("scraper finished", "bytes", stdout.Len(), "elapsed", time.Since(start))
	return stdout.String(), nil
}

// ReaderFetcher returns everything read from an io.Reader, for example a
// file or stdin. It can be fetched once.
type ReaderFetcher struct {
	r io.Reader
}

// NewReaderFetcher wraps r.
func NewReaderFetcher(r io.Reader) *ReaderFetcher {
	return &ReaderFetcher{r: r}
}

// Fetch reads r to EOF.
func (f *ReaderFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(f.r)
	if err != nil {
		return "", fmt.Errorf("read scrape output: %w", err)
	}
	return string(data), nil
}

// FileFetcher reads the scrape output from a file on every call.
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a fetcher for path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

// Fetch reads the whole file.
func (f *FileFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read scrape file: %w", err)
	}
	return string(data), nil
}
