package rename

import "sync"

// Phases reported to an Observer.
const (
	PhaseScan        = "scan"
	PhaseDirectories = "directories"
	PhaseFiles       = "files"
)

// Observer receives progress from a run. Calls are serialized by the
// Renamer, so implementations need no locking of their own.
type Observer interface {
	// Phase starts a new phase covering total items.
	Phase(name string, total int)
	// Advance marks n items of the current phase as processed.
	Advance(n int)
	// Action reports a change as soon as it is known.
	Action(a Action)
}

type nopObserver struct{}

func (nopObserver) Phase(string, int) {}
func (nopObserver) Advance(int)       {}
func (nopObserver) Action(Action)     {}

type lockedObserver struct {
	mu  sync.Mutex
	obs Observer
}

func (l *lockedObserver) Phase(name string, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.obs.Phase(name, total)
}

func (l *lockedObserver) Advance(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.obs.Advance(n)
}

func (l *lockedObserver) Action(a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.obs.Action(a)
}

// done reports the actions of a finished item and advances progress in one
// critical section.
func (l *lockedObserver) done(actions []Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range actions {
		l.obs.Action(a)
	}
	l.obs.Advance(1)
}
