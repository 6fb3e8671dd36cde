package target

import (
	"context"
	"sync"
)

// RepoMock is a memory based calorie target repository used in tests.
type RepoMock struct {
	mutex   sync.RWMutex
	Targets map[string]CalorieTarget
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		Targets: make(map[string]CalorieTarget),
	}
}

func (r *RepoMock) Get(_ context.Context, ownerUID string) (*CalorieTarget, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	t, ok := r.Targets[ownerUID]
	if !ok {
		return nil, ErrTargetNotFound
	}
	return &t, nil
}

func (r *RepoMock) Save(_ context.Context, t CalorieTarget) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Targets[t.OwnerUID] = t
	return nil
}
