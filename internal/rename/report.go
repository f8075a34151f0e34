package rename

import (
	"fmt"
	"time"
)

// ActionKind identifies what an Action touches.
type ActionKind string

// Action kinds.
const (
	KindRenameDir     ActionKind = "rename_dir"
	KindUpdateContent ActionKind = "update_content"
	KindRenameFile    ActionKind = "rename_file"
	KindSkipFile      ActionKind = "skip_file"
)

// Status is the outcome of an Action.
type Status string

// Action statuses.
const (
	StatusDone    Status = "done"
	StatusPlanned Status = "planned"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Action records one change made, planned, skipped or failed during a run.
type Action struct {
	Kind   ActionKind `json:"kind" yaml:"kind"`
	Status Status     `json:"status" yaml:"status"`
	Path   string     `json:"path" yaml:"path"`
	Target string     `json:"target,omitempty" yaml:"target,omitempty"`
	Reason string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Message renders the action as a single human readable line.
func (a Action) Message() string {
	switch a.Kind {
	case KindRenameDir, KindRenameFile:
		noun := "directory"
		if a.Kind == KindRenameFile {
			noun = "file"
		}
		switch a.Status {
		case StatusDone:
			return fmt.Sprintf("Renamed %s: '%s' -> '%s'", noun, a.Path, a.Target)
		case StatusPlanned:
			return fmt.Sprintf("Would rename %s: '%s' -> '%s'", noun, a.Path, a.Target)
		case StatusSkipped:
			return fmt.Sprintf("Skipping %s rename: target '%s' %s", noun, a.Target, a.Reason)
		default:
			return fmt.Sprintf("Error renaming %s '%s' to '%s': %s", noun, a.Path, a.Target, a.Reason)
		}
	case KindUpdateContent:
		switch a.Status {
		case StatusDone:
			return fmt.Sprintf("Updated content in: '%s'", a.Path)
		case StatusPlanned:
			return fmt.Sprintf("Would update content in: '%s'", a.Path)
		default:
			return fmt.Sprintf("Error updating content in '%s': %s", a.Path, a.Reason)
		}
	default:
		if a.Status == StatusError {
			return fmt.Sprintf("Error processing '%s': %s", a.Path, a.Reason)
		}
		return fmt.Sprintf("Skipped (%s): %s", a.Reason, a.Path)
	}
}

// Stats summarises a run. In a dry run the counts describe what would happen.
type Stats struct {
	DirsRenamed    int `json:"dirs_renamed" yaml:"dirs_renamed"`
	FilesUpdated   int `json:"files_updated" yaml:"files_updated"`
	FilesRenamed   int `json:"files_renamed" yaml:"files_renamed"`
	FilesSkipped   int `json:"files_skipped" yaml:"files_skipped"`
	FilesUnchanged int `json:"files_unchanged" yaml:"files_unchanged"`
	Errors         int `json:"errors" yaml:"errors"`
}

// Report is the result of Renamer.Run.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Root        string    `json:"root" yaml:"root"`
	Placeholder string    `json:"placeholder" yaml:"placeholder"`
	Replacement string    `json:"replacement" yaml:"replacement"`
	DryRun      bool      `json:"dry_run" yaml:"dry_run"`
	NoOp        bool      `json:"no_op,omitempty" yaml:"no_op,omitempty"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Stats       Stats     `json:"stats" yaml:"stats"`
	Actions     []Action  `json:"actions" yaml:"actions"`
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) add(actions ...Action) {
	for _, a := range actions {
		if a.Status == StatusError {
			r.Stats.Errors++
		}
		if a.Kind == KindRenameDir && (a.Status == StatusDone || a.Status == StatusPlanned) {
			r.Stats.DirsRenamed++
		}
		r.Actions = append(r.Actions, a)
	}
}

// fileResult is the outcome of processing or planning one file.
type fileResult struct {
	actions []Action
	updated bool
	renamed bool
	skipped bool
}

func (r *Report) addFile(res fileResult) {
	r.add(res.actions...)
	switch {
	case res.updated || res.renamed:
		if res.updated {
			r.Stats.FilesUpdated++
		}
		if res.renamed {
			r.Stats.FilesRenamed++
		}
	case res.skipped:
		r.Stats.FilesSkipped++
	case len(res.actions) == 0:
		r.Stats.FilesUnchanged++
	}
}
