package orchestrator

import (
	"slices"
	"sync"
)

// Strategy is how a file reaches storage
type Strategy string

const (
	StrategySimple    Strategy = "simple"
	StrategyMultipart Strategy = "multipart"
)

// Status is the client side status of a file
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusUploading Status = "UPLOADING"
	StatusCompleted Status = "COMPLETED"
	StatusError     Status = "ERROR"
)

// Terminal reports whether no further transition is allowed
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// FileState is the visible progress of one file
type FileState struct {
	ID       string
	Name     string
	Size     int64
	Strategy Strategy
	Status   Status
	Progress int
	Key      string
	Err      error

	run uint64
}

// stateStore owns the file states. Every mutation swaps in a new slice,
// readers never observe a half written entry.
// Each admitted file gets a run number so a resubmitted ID never receives
// updates from an older, removed run.
type stateStore struct {
	mu       sync.Mutex
	states   []FileState
	lastRun  uint64
	removed  map[uint64]struct{}
	onChange func(FileState)
}

func newStateStore(onChange func(FileState)) *stateStore {
	return &stateStore{removed: make(map[uint64]struct{}), onChange: onChange}
}

// admit registers st as PENDING and returns its run number. A terminal state
// with the same ID is replaced, an active one is a duplicate.
func (s *stateStore) admit(st FileState) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]FileState, 0, len(s.states)+1)
	for _, existing := range s.states {
		if existing.ID != st.ID {
			next = append(next, existing)
			continue
		}
		if !existing.Status.Terminal() {
			return 0, ErrDuplicateID
		}
	}

	s.lastRun++
	st.run = s.lastRun
	st.Status = StatusPending
	s.states = append(next, st)
	return st.run, nil
}

func (s *stateStore) snapshot() []FileState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.states)
}

func (s *stateStore) get(run uint64) (FileState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(run)
	if i < 0 {
		return FileState{}, false
	}
	return s.states[i], true
}

// update applies fn to a copy of the state of run. Progress never goes back,
// stays below 100 until completion and terminal states are frozen.
// It returns false when run is unknown or was removed.
func (s *stateStore) update(run uint64, fn func(*FileState)) bool {
	s.mu.Lock()
	i := s.index(run)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	prev := s.states[i]
	if prev.Status.Terminal() {
		s.mu.Unlock()
		return false
	}

	st := prev
	fn(&st)
	st.ID, st.run = prev.ID, prev.run
	if st.Progress < prev.Progress {
		st.Progress = prev.Progress
	}
	if st.Status == StatusCompleted {
		st.Progress = 100
	} else if st.Progress > 99 {
		st.Progress = 99
	}

	next := slices.Clone(s.states)
	next[i] = st
	s.states = next
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(st)
	}
	return true
}

func (s *stateStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.states, func(st FileState) bool { return st.ID == id })
	if i < 0 {
		return false
	}
	s.removed[s.states[i].run] = struct{}{}
	s.states = slices.Delete(slices.Clone(s.states), i, i+1)
	return true
}

func (s *stateStore) isRemoved(run uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.removed[run]
	return ok
}

func (s *stateStore) index(run uint64) int {
	return slices.IndexFunc(s.states, func(st FileState) bool { return st.run == run })
}
