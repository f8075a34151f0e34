package rename

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/renamer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateTree() map[string]string {
	return map[string]string{
		"pyproject.toml":             "name = \"PROJECT\"\n",
		"README.md":                  "# PROJECT\n\nNothing else.\n",
		"LICENSE":                    "MIT\n",
		"src/PROJECT/__init__.py":    "from PROJECT.core import run\n",
		"src/PROJECT/core.py":        "def run(): pass\n",
		"src/PROJECT/PROJECT_cli.py": "import PROJECT\n",
		"tests/test_PROJECT.py":      "import PROJECT\n",
		".git/HEAD":                  "PROJECT\n",
	}
}

func newTestRenamer(t *testing.T, opts Options, extra ...Option) *Renamer {
	t.Helper()
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.Ignore.Dirs == nil && opts.Ignore.Files == nil {
		opts.Ignore = DefaultIgnore()
	}
	r, err := New(opts, append([]Option{WithLogger(testutil.NewTestLogger(t))}, extra...)...)
	require.NoError(t, err)
	return r
}

func TestRunRenamesTree(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, templateTree())

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme", Workers: 4})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"pyproject.toml":       "name = \"acme\"\n",
		"README.md":            "# acme\n\nNothing else.\n",
		"LICENSE":              "MIT\n",
		"src/acme/__init__.py": "from acme.core import run\n",
		"src/acme/core.py":     "def run(): pass\n",
		"src/acme/acme_cli.py": "import acme\n",
		"tests/test_acme.py":   "import acme\n",
		".git/HEAD":            "PROJECT\n",
	}, testutil.ReadTree(t, root))

	assert.Equal(t, Stats{
		DirsRenamed:    1,
		FilesUpdated:   5,
		FilesRenamed:   2,
		FilesUnchanged: 2,
	}, report.Stats)
	assert.False(t, report.DryRun)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, KindRenameDir, report.Actions[0].Kind)
	assert.Equal(t, filepath.Join(root, "src", "acme"), report.Actions[0].Target)
}

func TestRunDryRunLeavesTreeUntouched(t *testing.T) {
	root := t.TempDir()
	tree := templateTree()
	testutil.WriteTree(t, root, tree)

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme", DryRun: true})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, tree, testutil.ReadTree(t, root))
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Stats.DirsRenamed)
	assert.Equal(t, 5, report.Stats.FilesUpdated)
	assert.Equal(t, 2, report.Stats.FilesRenamed)
	for _, a := range report.Actions {
		assert.Equal(t, StatusPlanned, a.Status, a.Message())
		assert.True(t, strings.HasPrefix(a.Message(), "Would "), a.Message())
	}
}

func TestRunNestedDirectoriesDeepestFirst(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"PROJECT/PROJECT/PROJECT/file.txt": "PROJECT",
	})

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme"})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"acme/acme/acme/file.txt": "acme"}, testutil.ReadTree(t, root))
	assert.Equal(t, 3, report.Stats.DirsRenamed)
	assert.Zero(t, report.Stats.Errors)
}

func TestRunSkipsExistingTargets(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"PROJECT/a.txt":  "x",
		"acme/b.txt":     "y",
		"PROJECT.md":     "z",
		"acme.md":        "existing",
		"PROJECT_cfg.md": "PROJECT",
		"acme_cfg.md":    "existing",
	})

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme"})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	got := testutil.ReadTree(t, root)
	assert.Equal(t, "x", got["PROJECT/a.txt"])
	assert.Equal(t, "z", got["PROJECT.md"])
	assert.Equal(t, "acme", got["PROJECT_cfg.md"], "content is still updated")
	assert.Equal(t, "existing", got["acme_cfg.md"])

	assert.Zero(t, report.Stats.DirsRenamed)
	assert.Equal(t, 1, report.Stats.FilesUpdated)
	assert.Zero(t, report.Stats.FilesRenamed)
	assert.Equal(t, 1, report.Stats.FilesSkipped)

	var skipped int
	for _, a := range report.Actions {
		if a.Status == StatusSkipped {
			skipped++
			assert.Contains(t, a.Message(), "already exists")
		}
	}
	assert.Equal(t, 3, skipped)
}

func TestRunSkipsLargeAndBinaryFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"big.txt":    strings.Repeat("PROJECT ", 64),
		"blob.dat":   "PROJECT\x00PROJECT",
		"small.txt":  "PROJECT",
		"PROJECT.db": "\x00",
	})

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme", MaxFileSize: 100})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	got := testutil.ReadTree(t, root)
	assert.Equal(t, strings.Repeat("PROJECT ", 64), got["big.txt"])
	assert.Equal(t, "PROJECT\x00PROJECT", got["blob.dat"])
	assert.Equal(t, "acme", got["small.txt"])
	assert.Contains(t, got, "PROJECT.db", "binary files are not renamed")

	assert.Equal(t, 3, report.Stats.FilesSkipped)
	assert.Equal(t, 1, report.Stats.FilesUpdated)

	reasons := map[string]string{}
	for _, a := range report.Actions {
		if a.Kind == KindSkipFile {
			reasons[filepath.Base(a.Path)] = a.Reason
		}
	}
	assert.Contains(t, reasons["big.txt"], "too large")
	assert.Equal(t, "binary", reasons["blob.dat"])
	assert.Equal(t, "binary", reasons["PROJECT.db"])
}

func TestRunSamePlaceholderIsNoOp(t *testing.T) {
	root := t.TempDir()
	tree := templateTree()
	testutil.WriteTree(t, root, tree)

	r := newTestRenamer(t, Options{Root: root, Replacement: DefaultPlaceholder})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.NoOp)
	assert.Empty(t, report.Actions)
	assert.Equal(t, tree, testutil.ReadTree(t, root))
}

func TestRunCaseVariants(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"project/Project.py": "class Project: PROJECT = 'project'\n",
	})

	r := newTestRenamer(t, Options{Root: root, Replacement: "ACME", CaseVariants: true})
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"acme/Acme.py": "class Acme: ACME = 'acme'\n",
	}, testutil.ReadTree(t, root))
}

func TestRunCaseVariantsReplacementContainsPlaceholder(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"PROJECT/project.py": "import PROJECT\nclass Project: pass\n",
	})

	r := newTestRenamer(t, Options{Root: root, Replacement: "myproject", CaseVariants: true})
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"myproject/myproject.py": "import myproject\nclass Myproject: pass\n",
	}, testutil.ReadTree(t, root))
}

func TestRunConcurrentRenamesToSameTarget(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("needs a case-sensitive file system")
	}
	root := t.TempDir()
	tree := map[string]string{}
	for i := range 20 {
		tree[fmt.Sprintf("PROJECT%d.md", i)] = fmt.Sprintf("upper %d", i)
		tree[fmt.Sprintf("project%d.md", i)] = fmt.Sprintf("lower %d", i)
	}
	testutil.WriteTree(t, root, tree)

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme", CaseVariants: true, Workers: 8})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	got := testutil.ReadTree(t, root)
	require.Len(t, got, len(tree), "no file was overwritten")
	var want, have []string
	for _, v := range tree {
		want = append(want, v)
	}
	for _, v := range got {
		have = append(have, v)
	}
	assert.ElementsMatch(t, want, have)
	for i := range 20 {
		assert.Contains(t, got, fmt.Sprintf("acme%d.md", i))
	}

	assert.Equal(t, 20, report.Stats.FilesRenamed)
	assert.Equal(t, 20, report.Stats.FilesSkipped)
	assert.Zero(t, report.Stats.Errors)
}

func TestRunRecordsPathErrorsAndContinues(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not portable")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"locked/PROJECT.txt": "PROJECT",
		"ok.txt":             "PROJECT",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme", Workers: 2})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"locked/PROJECT.txt": "PROJECT",
		"ok.txt":             "acme",
	}, testutil.ReadTree(t, root))

	assert.Equal(t, 2, report.Stats.Errors)
	assert.Equal(t, 1, report.Stats.FilesUpdated)
	assert.Zero(t, report.Stats.FilesRenamed)

	var failed []ActionKind
	for _, a := range report.Actions {
		if a.Status == StatusError {
			assert.Equal(t, filepath.Join(locked, "PROJECT.txt"), a.Path)
			assert.NotEmpty(t, a.Reason)
			assert.True(t, strings.HasPrefix(a.Message(), "Error "), a.Message())
			failed = append(failed, a.Kind)
		}
	}
	assert.Equal(t, []ActionKind{KindUpdateContent, KindRenameFile}, failed)
}

func TestRunPreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not portable")
	}
	root := t.TempDir()
	p := filepath.Join(root, "run.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\necho PROJECT\n"), 0o700))

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme"})
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestRunEmptyFileIsUnchanged(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"empty.txt": "", "PROJECT.txt": ""})

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme"})
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"empty.txt": "", "acme.txt": ""}, testutil.ReadTree(t, root))
	assert.Zero(t, report.Stats.Errors)
	assert.Equal(t, 1, report.Stats.FilesUnchanged)
	assert.Equal(t, 1, report.Stats.FilesRenamed)
}

func TestRunCanceled(t *testing.T) {
	root := t.TempDir()
	tree := templateTree()
	testutil.WriteTree(t, root, tree)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRenamer(t, Options{Root: root, Replacement: "acme"})
	_, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, tree, testutil.ReadTree(t, root))
}

// cancelingObserver cancels the run once the first file is done.
type cancelingObserver struct {
	cancel context.CancelFunc
	phase  string
}

func (o *cancelingObserver) Phase(name string, _ int) { o.phase = name }
func (o *cancelingObserver) Action(Action)            {}

func (o *cancelingObserver) Advance(int) {
	if o.phase == PhaseFiles {
		o.cancel()
	}
}

func TestRunCanceledDuringFiles(t *testing.T) {
	root := t.TempDir()
	tree := map[string]string{}
	for i := range 20 {
		tree[fmt.Sprintf("f%02d.txt", i)] = "PROJECT"
	}
	testutil.WriteTree(t, root, tree)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs := &cancelingObserver{cancel: cancel}
	r := newTestRenamer(t, Options{Root: root, Replacement: "acme", Workers: 1}, WithObserver(obs))
	report, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)

	untouched := 0
	for _, content := range testutil.ReadTree(t, root) {
		if content == "PROJECT" {
			untouched++
		}
	}
	assert.GreaterOrEqual(t, untouched, 18, "workers stop picking up files after cancellation")
}

type recordingObserver struct {
	mu       sync.Mutex
	phases   map[string]int
	advanced map[string]int
	current  string
	actions  []Action
}

func (o *recordingObserver) Phase(name string, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases[name] = total
	o.current = name
}

func (o *recordingObserver) Advance(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.advanced[o.current] += n
}

func (o *recordingObserver) Action(a Action) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.actions = append(o.actions, a)
}

func TestRunNotifiesObserver(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, templateTree())

	obs := &recordingObserver{phases: map[string]int{}, advanced: map[string]int{}}
	r := newTestRenamer(t, Options{Root: root, Replacement: "acme", Workers: 3}, WithObserver(obs))
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{PhaseScan: 0, PhaseDirectories: 3, PhaseFiles: 7}, obs.phases)
	assert.Equal(t, map[string]int{PhaseDirectories: 3, PhaseFiles: 7}, obs.advanced)
	assert.ElementsMatch(t, report.Actions, obs.actions)
}

func TestNewValidatesOptions(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{name: "empty placeholder", opts: Options{Root: dir, Replacement: "acme"}, wantErr: ErrEmptyPlaceholder},
		{name: "empty replacement", opts: Options{Root: dir, Placeholder: "PROJECT"}, wantErr: ErrEmptyReplacement},
		{name: "slash", opts: Options{Root: dir, Placeholder: "PROJECT", Replacement: "a/b"}, wantErr: ErrInvalidReplacement},
		{name: "backslash", opts: Options{Root: dir, Placeholder: "PROJECT", Replacement: `a\b`}, wantErr: ErrInvalidReplacement},
		{name: "root is a file", opts: Options{Root: file, Placeholder: "PROJECT", Replacement: "acme"}, wantErr: ErrNotDirectory},
		{name: "missing root", opts: Options{Root: filepath.Join(dir, "nope"), Placeholder: "PROJECT", Replacement: "acme"}, wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	r, err := New(Options{Placeholder: "PROJECT", Replacement: "acme"})
	require.NoError(t, err)

	opts := r.Options()
	assert.True(t, filepath.IsAbs(opts.Root))
	assert.Equal(t, DefaultMaxFileSize, opts.MaxFileSize)
	assert.Equal(t, runtime.NumCPU(), opts.Workers)
}
