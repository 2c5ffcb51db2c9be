package dev

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/vango-dev/pagetree/internal/codegen"
)

// Options configures a Runner.
type Options struct {
	// ProjectDir holds go.mod and the main package.
	ProjectDir string

	// Root is the application root, relative to ProjectDir.
	Root string

	// Args are passed to the application. Default: serve --dev.
	Args []string

	// Tags are build tags.
	Tags []string

	// Interval is the polling interval of the watcher.
	Interval time.Duration

	Logger *slog.Logger
}

// Runner regenerates, rebuilds and restarts the application on change.
type Runner struct {
	gen     *codegen.Generator
	builder *Builder
	watcher *Watcher
	logger  *slog.Logger
}

// NewRunner creates a runner. It fails when the application root is not
// inside a Go module.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	root := opts.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(opts.ProjectDir, root)
	}
	gen, err := codegen.New(root)
	if err != nil {
		return nil, err
	}

	return &Runner{
		gen: gen,
		builder: NewBuilder(BuilderConfig{
			ProjectPath: opts.ProjectDir,
			Tags:        opts.Tags,
			Args:        opts.Args,
		}),
		watcher: NewWatcher(WatcherConfig{
			Paths:    []string{opts.ProjectDir},
			Interval: opts.Interval,
		}),
		logger: opts.Logger,
	}, nil
}

// Action is what a batch of changes requires.
type Action struct {
	Regenerate bool
	Rebuild    bool
	Restart    bool
}

// Plan decides the work for a batch of changes.
func Plan(changes []Change) Action {
	var a Action
	for _, c := range changes {
		a.Restart = true
		if c.Type == ChangeGo {
			a.Rebuild = true
		}
		if c.CodeArtifact() {
			a.Regenerate = true
		}
	}
	return a
}

// Run builds and starts the application, then follows changes until ctx
// is done. Failed builds are logged and the previous process keeps
// running.
func (r *Runner) Run(ctx context.Context) error {
	defer r.builder.Stop()

	r.apply(ctx, Action{Regenerate: true, Rebuild: true, Restart: true})

	return r.watcher.Watch(ctx, func(changes []Change) {
		r.logger.Info("change detected", "files", len(changes), "first", changes[0].Path)
		r.apply(ctx, Plan(changes))
	})
}

func (r *Runner) apply(ctx context.Context, a Action) {
	if a.Regenerate {
		bindings, err := r.gen.Run("")
		if err != nil {
			r.logger.Error("catalog generation failed", "error", err)
			return
		}
		r.logger.Info("catalog generated", "bindings", len(bindings))
	}

	if a.Rebuild {
		res := r.builder.Build(ctx)
		if res.Error != nil {
			r.logger.Error("build failed", "duration", res.Duration, "error", res.Error)
			return
		}
		r.logger.Info("build succeeded", "duration", res.Duration)
	}

	if a.Restart {
		if err := r.builder.Start(ctx); err != nil {
			r.logger.Error("start failed", "error", err)
			return
		}
		r.logger.Info("application restarted", "binary", r.builder.BinaryPath())
	}
}
