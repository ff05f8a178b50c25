// Package registry allocates task sequence numbers. Allocated numbers are
// persisted so a sequence is never reused, even after the task directory is
// archived or deleted.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// State is the persisted registry file. NextSeq is authoritative; Allocated
// keeps the history of handed-out identifiers for auditing.
type State struct {
	NextSeq   int               `json:"next_seq"`
	Allocated map[string]string `json:"allocated"` // NNNNNN -> task dir name
}

// Registry manages the on-disk sequence state under a workspace root.
type Registry struct {
	root string
	path string // relative path of the state file
}

// ErrLocked is returned when another process holds the registry lock. The
// caller decides whether to retry; the registry never spins.
var ErrLocked = errors.New("registry is locked by another process")

// New returns a registry persisting at path (relative to root).
func New(root, path string) *Registry {
	return &Registry{root: root, path: path}
}

func (r *Registry) statePath() string {
	return filepath.Join(r.root, filepath.FromSlash(r.path))
}

func (r *Registry) lockPath() string {
	return r.statePath() + ".lock"
}

// Load reads the persisted state. A missing file yields a fresh state with
// NextSeq 1.
func (r *Registry) Load() (*State, error) {
	data, err := os.ReadFile(r.statePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{NextSeq: 1, Allocated: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", r.path, err)
	}
	if state.NextSeq < 1 {
		state.NextSeq = 1
	}
	if state.Allocated == nil {
		state.Allocated = map[string]string{}
	}
	return &state, nil
}

// Allocate reserves the next sequence number and records it under the task
// dir name produced by naming it. The state file is re-read inside the lock,
// so concurrent allocations from separate processes never collide.
func (r *Registry) Allocate(naming func(seq int) string) (int, error) {
	unlock, err := r.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	state, err := r.Load()
	if err != nil {
		return 0, err
	}

	seq := state.NextSeq
	state.NextSeq = seq + 1
	state.Allocated[FormatSeq(seq)] = naming(seq)

	if err := r.save(state); err != nil {
		return 0, err
	}
	return seq, nil
}

// Reconcile bumps NextSeq past the highest sequence seen in existing task
// dir names, recording any that the registry missed. It never lowers the
// counter.
func (r *Registry) Reconcile(taskDirs []string, seqOf func(name string) (int, bool)) error {
	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	state, err := r.Load()
	if err != nil {
		return err
	}

	for _, name := range taskDirs {
		seq, ok := seqOf(name)
		if !ok {
			continue
		}
		state.Allocated[FormatSeq(seq)] = name
		if seq >= state.NextSeq {
			state.NextSeq = seq + 1
		}
	}
	return r.save(state)
}

// Sequences returns the allocated sequence keys in ascending order.
func (s *State) Sequences() []string {
	keys := make([]string, 0, len(s.Allocated))
	for k := range s.Allocated {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatSeq renders a sequence number as the zero-padded six-digit form used
// in task directory names.
func FormatSeq(seq int) string {
	return fmt.Sprintf("%06d", seq)
}

// lock acquires the registry lockfile with O_EXCL. An existing lockfile
// means another allocation is in flight and the call fails with ErrLocked.
func (r *Registry) lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(r.statePath()), 0755); err != nil {
		return nil, fmt.Errorf("creating registry dir: %w", err)
	}
	f, err := os.OpenFile(r.lockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w (remove %s if no other process is running)", ErrLocked, r.path+".lock")
		}
		return nil, fmt.Errorf("acquiring registry lock: %w", err)
	}
	f.Close()
	return func() { os.Remove(r.lockPath()) }, nil
}

// save writes the state atomically via a temp file rename.
func (r *Registry) save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	data = append(data, '\n')

	tmp := r.statePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmp, r.statePath()); err != nil {
		return fmt.Errorf("replacing registry: %w", err)
	}
	return nil
}
