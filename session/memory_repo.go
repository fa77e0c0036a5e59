package session

import "sync"

var _ Repo = (*MemoryRepo)(nil)

// MemoryRepo keeps the snapshot in memory. Used in tests and anywhere
// persistence across restarts is not wanted.
type MemoryRepo struct {
	snapshot *Snapshot
	lock     sync.Mutex
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (mr *MemoryRepo) Load() (*Snapshot, error) {
	mr.lock.Lock()
	defer mr.lock.Unlock()
	if mr.snapshot == nil {
		return nil, nil
	}
	cp := *mr.snapshot
	return &cp, nil
}

func (mr *MemoryRepo) Save(snapshot *Snapshot) error {
	mr.lock.Lock()
	defer mr.lock.Unlock()
	cp := *snapshot
	mr.snapshot = &cp
	return nil
}

func (mr *MemoryRepo) Clear() error {
	mr.lock.Lock()
	defer mr.lock.Unlock()
	mr.snapshot = nil
	return nil
}
