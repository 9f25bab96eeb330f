package billing

import (
	"sync"

	"github.com/google/uuid"
)

// JobLocks serializes per-job read-modify-write sequences. Ledger
// recalculation, sync propagation, auto-fix, and chain generation all take
// the job's lock for their whole span, so two concurrent edits to the same
// job cannot interleave and lose updates. Locks for distinct jobs are
// independent.
type JobLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewJobLocks creates an empty lock registry
func NewJobLocks() *JobLocks {
	return &JobLocks{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Lock acquires the lock for a job and returns the unlock function
func (l *JobLocks) Lock(jobID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[jobID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[jobID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
