package streak

import (
	"context"
	"fmt"
	"sync"

	"github.com/verudex/Momentum-sub000/internal/entries"
)

// RepoMock is a memory based streak state repository used in tests.
type RepoMock struct {
	mutex  sync.RWMutex
	States map[string]State
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		States: make(map[string]State),
	}
}

func stateKey(ownerUID string, category entries.Category) string {
	return fmt.Sprintf("%s||%s", ownerUID, category)
}

func (r *RepoMock) Get(_ context.Context, ownerUID string, category entries.Category) (*State, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	state, ok := r.States[stateKey(ownerUID, category)]
	if !ok {
		return nil, ErrStateNotFound
	}
	return &state, nil
}

func (r *RepoMock) Save(_ context.Context, state State) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.States[stateKey(state.OwnerUID, state.Category)] = state
	return nil
}
