package dev

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/vango-dev/pagetree/internal/errors"
)

// BuilderConfig configures the Go builder.
type BuilderConfig struct {
	// ProjectPath is the directory holding the main package.
	ProjectPath string

	// BinaryPath is where to write the compiled binary.
	// Default: <ProjectPath>/.pagetree/app.
	BinaryPath string

	// Tags are build tags to pass to go build.
	Tags []string

	// Args are passed to the binary. Default: serve --dev.
	Args []string

	// Env are additional environment variables.
	Env []string
}

// BuildResult contains the result of a build.
type BuildResult struct {
	Duration time.Duration
	Output   string
	Error    error
}

// Builder compiles the application and manages its process.
type Builder struct {
	config BuilderConfig

	mu   sync.Mutex
	proc *processHandle
}

// NewBuilder creates a new builder.
func NewBuilder(config BuilderConfig) *Builder {
	if config.BinaryPath == "" {
		name := "app"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		config.BinaryPath = filepath.Join(config.ProjectPath, ".pagetree", name)
	}
	if config.Args == nil {
		config.Args = []string{"serve", "--dev"}
	}
	return &Builder{config: config}
}

// Build compiles the main package.
func (b *Builder) Build(ctx context.Context) BuildResult {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(b.config.BinaryPath), 0755); err != nil {
		return BuildResult{Duration: time.Since(start), Error: errors.New("E142").Wrap(err)}
	}

	args := []string{"build", "-o", b.config.BinaryPath}
	if len(b.config.Tags) > 0 {
		args = append(args, "-tags", strings.Join(b.config.Tags, ","))
	}
	args = append(args, ".")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.config.ProjectPath
	cmd.Env = append(os.Environ(), b.config.Env...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := BuildResult{Duration: time.Since(start), Output: out.String()}
	if err != nil {
		result.Error = errors.New("E142").WithDetail(strings.TrimSpace(result.Output)).Wrap(err)
	}
	return result
}

// Start runs the compiled binary, stopping any previous process.
func (b *Builder) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stopProcess(b.proc)
	b.proc = nil

	env := append(os.Environ(), b.config.Env...)
	proc, err := startProcess(ctx, b.config.BinaryPath, b.config.ProjectPath, b.config.Args, env)
	if err != nil {
		return errors.New("E142").WithDetail("start " + b.config.BinaryPath).Wrap(err)
	}
	b.proc = proc
	return nil
}

// Stop stops the running process.
func (b *Builder) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	stopProcess(b.proc)
	b.proc = nil
}

// IsRunning returns whether a process was started and not stopped.
func (b *Builder) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.proc != nil
}

// BinaryPath returns the path to the compiled binary.
func (b *Builder) BinaryPath() string {
	return b.config.BinaryPath
}
