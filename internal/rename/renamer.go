// Package rename replaces a template placeholder in directory names, file
// names and text file contents across a directory tree.
package rename

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Option customises a Renamer.
type Option func(*Renamer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renamer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers an observer for progress and actions.
func WithObserver(obs Observer) Option {
	return func(r *Renamer) {
		if obs != nil {
			r.observer = &lockedObserver{obs: obs}
		}
	}
}

// Renamer runs a placeholder replacement over one directory tree.
type Renamer struct {
	opts     Options
	repl     *Replacer
	logger   *slog.Logger
	observer *lockedObserver

	// renameMu makes the target check and the rename one step across
	// workers, since os.Rename replaces an existing target.
	renameMu sync.Mutex
}

// New validates opts and returns a Renamer.
func New(opts Options, options ...Option) (*Renamer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &Renamer{
		opts:     opts,
		repl:     NewReplacer(opts.Placeholder, opts.Replacement, opts.CaseVariants),
		logger:   slog.New(slog.DiscardHandler),
		observer: &lockedObserver{obs: nopObserver{}},
	}
	for _, o := range options {
		o(r)
	}
	return r, nil
}

// Options returns the validated options.
func (r *Renamer) Options() Options {
	return r.opts
}

// Run renames directories deepest first, then rewrites and renames files.
// Failures on individual paths are recorded in the report; only scan errors
// and cancellation abort the run.
func (r *Renamer) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:       uuid.NewString(),
		Root:        r.opts.Root,
		Placeholder: r.opts.Placeholder,
		Replacement: r.opts.Replacement,
		DryRun:      r.opts.DryRun,
		StartedAt:   time.Now(),
		Actions:     []Action{},
	}
	logger := r.logger.With("run_id", report.RunID)

	if r.repl.Identity() {
		logger.Warn("project name is the same as the placeholder, no changes will be made",
			"placeholder", r.opts.Placeholder)
		report.NoOp = true
		report.FinishedAt = time.Now()
		return report, nil
	}

	logger.Info("starting run",
		"root", r.opts.Root,
		"placeholder", r.opts.Placeholder,
		"replacement", r.opts.Replacement,
		"dry_run", r.opts.DryRun,
		"workers", r.opts.Workers)

	r.observer.Phase(PhaseScan, 0)
	dirs, files, err := Collect(ctx, r.opts.Root, r.opts.Ignore)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected paths", "dirs", len(dirs), "files", len(files))

	renamed, err := r.renameDirs(ctx, dirs, report)
	if err != nil {
		return nil, err
	}

	if renamed > 0 && !r.opts.DryRun {
		logger.Debug("rescanning after directory renames", "renamed", renamed)
		if _, files, err = Collect(ctx, r.opts.Root, r.opts.Ignore); err != nil {
			return nil, err
		}
	}

	r.observer.Phase(PhaseFiles, len(files))
	var results []fileResult
	if r.opts.DryRun {
		results, err = r.planFiles(ctx, files)
	} else {
		results, err = r.processFiles(ctx, files)
	}
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		report.addFile(res)
	}

	report.FinishedAt = time.Now()
	logger.Info("run finished",
		"dirs_renamed", report.Stats.DirsRenamed,
		"files_updated", report.Stats.FilesUpdated,
		"files_renamed", report.Stats.FilesRenamed,
		"files_skipped", report.Stats.FilesSkipped,
		"errors", report.Stats.Errors,
		"duration", report.Duration())
	return report, nil
}

func (r *Renamer) renameDirs(ctx context.Context, dirs []string, report *Report) (int, error) {
	r.observer.Phase(PhaseDirectories, len(dirs))
	renamed := 0
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return renamed, err
		}
		var actions []Action
		if a, ok := r.renamePath(KindRenameDir, dir); ok {
			actions = append(actions, a)
			if a.Status == StatusDone {
				renamed++
			}
			report.add(a)
		}
		r.observer.done(actions)
	}
	return renamed, nil
}

// renamePath renames p when its base name holds the placeholder. It reports
// false when the name does not need to change.
func (r *Renamer) renamePath(kind ActionKind, p string) (Action, bool) {
	newBase, changed := r.repl.ReplaceString(filepath.Base(p))
	if !changed {
		return Action{}, false
	}
	a := Action{Kind: kind, Path: p, Target: filepath.Join(filepath.Dir(p), newBase)}

	r.renameMu.Lock()
	defer r.renameMu.Unlock()

	if _, err := os.Lstat(a.Target); err == nil {
		a.Status = StatusSkipped
		a.Reason = "already exists"
		r.logger.Warn("rename target already exists", "path", p, "target", a.Target)
		return a, true
	} else if !errors.Is(err, fs.ErrNotExist) {
		a.Status = StatusError
		a.Reason = err.Error()
		return a, true
	}

	if r.opts.DryRun {
		a.Status = StatusPlanned
		return a, true
	}

	if err := os.Rename(p, a.Target); err != nil {
		a.Status = StatusError
		a.Reason = err.Error()
		r.logger.Error("rename failed", "path", p, "target", a.Target, "error", err)
		return a, true
	}
	a.Status = StatusDone
	r.logger.Debug("renamed", "kind", kind, "path", p, "target", a.Target)
	return a, true
}

func (r *Renamer) planFiles(ctx context.Context, files []string) ([]fileResult, error) {
	results := make([]fileResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := r.planFile(f)
		r.observer.done(res.actions)
		results = append(results, res)
	}
	return results, nil
}

func (r *Renamer) processFiles(ctx context.Context, files []string) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.processFile(f)
			r.observer.done(res.actions)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
