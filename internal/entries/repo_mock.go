package entries

import (
	"context"
	"sort"
	"sync"
)

// RepoMock is a memory based entries repository used in tests.
type RepoMock struct {
	mutex       sync.RWMutex
	Workouts    map[int]Workout
	DietRecords map[int]DietRecord
	nextID      int
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		Workouts:    make(map[int]Workout),
		DietRecords: make(map[int]DietRecord),
		nextID:      1,
	}
}

func (r *RepoMock) AddWorkout(_ context.Context, workout Workout) (*Workout, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	workout.ID = r.nextID
	r.nextID++
	r.Workouts[workout.ID] = workout
	return &workout, nil
}

func (r *RepoMock) ListWorkouts(_ context.Context, params QueryParams) ([]Workout, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	limit, err := resolveLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	all := r.matchingWorkouts(params)
	if params.StartAfter != nil {
		cut := len(all)
		for i, w := range all {
			if w.ID == *params.StartAfter {
				cut = i + 1
				break
			}
		}
		all = all[cut:]
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *RepoMock) ListAllWorkouts(_ context.Context, params QueryParams) ([]Workout, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.matchingWorkouts(params), nil
}

func (r *RepoMock) matchingWorkouts(params QueryParams) []Workout {
	workouts := make([]Workout, 0, len(r.Workouts))
	for _, w := range r.Workouts {
		if params.OwnerUID != "" && w.OwnerUID != params.OwnerUID {
			continue
		}
		if params.Name != "" && w.Name != params.Name {
			continue
		}
		if params.Since != nil && w.CreatedAt.Before(*params.Since) {
			continue
		}
		workouts = append(workouts, w)
	}
	sort.Slice(workouts, func(i, j int) bool {
		if workouts[i].CreatedAt.Equal(workouts[j].CreatedAt) {
			return workouts[i].ID > workouts[j].ID
		}
		return workouts[i].CreatedAt.After(workouts[j].CreatedAt)
	})
	return workouts
}

func (r *RepoMock) GetWorkout(_ context.Context, ownerUID string, id int) (*Workout, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	workout, ok := r.Workouts[id]
	if !ok || workout.OwnerUID != ownerUID {
		return nil, ErrWorkoutNotFound
	}
	return &workout, nil
}

func (r *RepoMock) DeleteWorkout(_ context.Context, ownerUID string, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	workout, ok := r.Workouts[id]
	if !ok || workout.OwnerUID != ownerUID {
		return ErrWorkoutNotFound
	}
	delete(r.Workouts, id)
	return nil
}

func (r *RepoMock) AddDietRecord(_ context.Context, record DietRecord) (*DietRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	record.ID = r.nextID
	r.nextID++
	r.DietRecords[record.ID] = record
	return &record, nil
}

func (r *RepoMock) ListDietRecords(_ context.Context, params QueryParams) ([]DietRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	limit, err := resolveLimit(params.Limit)
	if err != nil {
		return nil, err
	}

	all := r.matchingDietRecords(params)
	if params.StartAfter != nil {
		cut := len(all)
		for i, rec := range all {
			if rec.ID == *params.StartAfter {
				cut = i + 1
				break
			}
		}
		all = all[cut:]
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *RepoMock) ListAllDietRecords(_ context.Context, params QueryParams) ([]DietRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.matchingDietRecords(params), nil
}

func (r *RepoMock) matchingDietRecords(params QueryParams) []DietRecord {
	records := make([]DietRecord, 0, len(r.DietRecords))
	for _, rec := range r.DietRecords {
		if params.OwnerUID != "" && rec.OwnerUID != params.OwnerUID {
			continue
		}
		if params.Name != "" && rec.Name != params.Name {
			continue
		}
		if params.Since != nil && rec.CreatedAt.Before(*params.Since) {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}

func (r *RepoMock) DeleteDietRecord(_ context.Context, ownerUID string, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	record, ok := r.DietRecords[id]
	if !ok || record.OwnerUID != ownerUID {
		return ErrDietRecordNotFound
	}
	delete(r.DietRecords, id)
	return nil
}
