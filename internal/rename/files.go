package rename

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/renameio/v2"
)

// inspect applies the size and binary checks shared by planning and
// processing. It returns a terminal result when the file must not be read.
func (r *Renamer) inspect(path string) (fileResult, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return errorResult(KindSkipFile, path, err), true
	}
	if info.Size() > r.opts.MaxFileSize {
		reason := fmt.Sprintf("too large, %s", humanize.IBytes(uint64(info.Size())))
		return skipResult(path, reason), true
	}

	binary, err := IsBinary(path, DefaultSampleSize)
	if err != nil {
		return errorResult(KindSkipFile, path, err), true
	}
	if binary {
		return skipResult(path, "binary"), true
	}
	return fileResult{}, false
}

// planFile reports what processFile would do without touching the file.
func (r *Renamer) planFile(path string) fileResult {
	if res, stop := r.inspect(path); stop {
		return res
	}

	var res fileResult
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the walked tree
	if err != nil {
		return errorResult(KindUpdateContent, path, err)
	}
	if r.repl.ContainsBytes(data) {
		res.updated = true
		res.actions = append(res.actions, Action{Kind: KindUpdateContent, Status: StatusPlanned, Path: path})
	}
	r.appendRename(&res, path)
	return res
}

// processFile rewrites the contents of path and renames it when needed.
func (r *Renamer) processFile(path string) fileResult {
	if res, stop := r.inspect(path); stop {
		if res.skipped {
			r.logger.Debug("skipped file", "path", path, "reason", res.actions[0].Reason)
		}
		return res
	}

	var res fileResult
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the walked tree
	if err != nil {
		return errorResult(KindUpdateContent, path, err)
	}
	if updated, changed := r.repl.Replace(data); changed {
		if err := writeFileAtomic(path, updated); err != nil {
			r.logger.Error("content update failed", "path", path, "error", err)
			res.actions = append(res.actions, Action{
				Kind: KindUpdateContent, Status: StatusError, Path: path, Reason: err.Error(),
			})
		} else {
			res.updated = true
			res.actions = append(res.actions, Action{Kind: KindUpdateContent, Status: StatusDone, Path: path})
		}
	}
	r.appendRename(&res, path)
	return res
}

func (r *Renamer) appendRename(res *fileResult, path string) {
	a, ok := r.renamePath(KindRenameFile, path)
	if !ok {
		return
	}
	res.actions = append(res.actions, a)
	switch a.Status {
	case StatusDone, StatusPlanned:
		res.renamed = true
	case StatusSkipped:
		res.skipped = true
	}
}

// writeFileAtomic replaces path with data, keeping its permissions.
func writeFileAtomic(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

func skipResult(path, reason string) fileResult {
	return fileResult{
		skipped: true,
		actions: []Action{{Kind: KindSkipFile, Status: StatusSkipped, Path: path, Reason: reason}},
	}
}

func errorResult(kind ActionKind, path string, err error) fileResult {
	return fileResult{
		actions: []Action{{Kind: kind, Status: StatusError, Path: path, Reason: err.Error()}},
	}
}
