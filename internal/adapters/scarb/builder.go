package scarb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// Builder compiles the cairo project with scarb
type Builder struct {
	log         *slog.Logger
	projectRoot string
	binary      string
	debug       bool
	out         io.Writer
}

// NewBuilder creates a scarb builder for the project
func NewBuilder(cfg *config.RuntimeConfig, log *slog.Logger) *Builder {
	return &Builder{
		log:         log.With("component", "ScarbBuilder"),
		projectRoot: cfg.ProjectRoot,
		binary:      "scarb",
		debug:       cfg.Debug,
		out:         os.Stdout,
	}
}

// WithBinary overrides the scarb executable
func (b *Builder) WithBinary(binary string) *Builder {
	b.binary = binary
	return b
}

// Build runs scarb build. Output is streamed in debug mode and only shown on failure otherwise.
func (b *Builder) Build(ctx context.Context) error {
	start := time.Now()
	b.log.Debug("running scarb build", "dir", b.projectRoot)

	cmd := exec.CommandContext(ctx, b.binary, "build")
	cmd.Dir = b.projectRoot
	cmd.Env = os.Environ()

	// A pty keeps scarb's colored output
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", b.binary, err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var output bytes.Buffer
	var w io.Writer = &output
	if b.debug {
		w = io.MultiWriter(&output, b.out)
	}
	// Reading a pty whose child exited returns EIO
	if _, err := io.Copy(w, ptyFile); err != nil && !errors.Is(err, syscall.EIO) {
		b.log.Debug("reading scarb output", "error", err)
	}

	err = cmd.Wait()
	duration := time.Since(start)
	if err != nil {
		b.log.Error("scarb build failed", "error", err, "duration", duration)
		return fmt.Errorf("scarb build failed: %w\nOutput: %s", err, output.String())
	}

	b.log.Debug("scarb build completed", "duration", duration)
	return nil
}

var _ usecase.ContractBuilder = (*Builder)(nil)
