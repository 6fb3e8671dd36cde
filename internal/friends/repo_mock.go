package friends

import (
	"context"
	"sort"
	"sync"
)

// RepoMock is a memory based user directory used in tests.
type RepoMock struct {
	mutex       sync.RWMutex
	Users       map[string]User
	Requests    map[[2]string]FriendRequest
	Friendships map[[2]string]struct{}
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		Users:       make(map[string]User),
		Requests:    make(map[[2]string]FriendRequest),
		Friendships: make(map[[2]string]struct{}),
	}
}

func (r *RepoMock) AddUser(_ context.Context, user User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, existing := range r.Users {
		if existing.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	r.Users[user.UID] = user
	return nil
}

func (r *RepoMock) GetUser(_ context.Context, uid string) (*User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	user, ok := r.Users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *RepoMock) GetUserByUsername(_ context.Context, username string) (*User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for _, user := range r.Users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *RepoMock) GetCredentials(_ context.Context, username string) (string, string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for _, user := range r.Users {
		if user.Username == username {
			return user.UID, user.PasswordHash, nil
		}
	}
	return "", "", ErrUserNotFound
}

func (r *RepoMock) FriendUIDs(_ context.Context, uid string) ([]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	uids := make([]string, 0)
	for pair := range r.Friendships {
		if pair[0] == uid {
			uids = append(uids, pair[1])
		}
	}
	sort.Strings(uids)
	return uids, nil
}

func (r *RepoMock) AddFriendRequest(_ context.Context, request FriendRequest) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	key := [2]string{request.FromUID, request.ToUID}
	if _, ok := r.Requests[key]; !ok {
		r.Requests[key] = request
	}
	return nil
}

func (r *RepoMock) DeleteFriendRequest(_ context.Context, fromUID, toUID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	key := [2]string{fromUID, toUID}
	if _, ok := r.Requests[key]; !ok {
		return ErrFriendRequestNotFound
	}
	delete(r.Requests, key)
	return nil
}

func (r *RepoMock) ReceivedRequests(_ context.Context, uid string) ([]FriendRequest, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	requests := make([]FriendRequest, 0)
	for _, request := range r.Requests {
		if request.ToUID == uid {
			requests = append(requests, request)
		}
	}
	sortRequests(requests)
	return requests, nil
}

func (r *RepoMock) SentRequests(_ context.Context, uid string) ([]FriendRequest, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	requests := make([]FriendRequest, 0)
	for _, request := range r.Requests {
		if request.FromUID == uid {
			requests = append(requests, request)
		}
	}
	sortRequests(requests)
	return requests, nil
}

func sortRequests(requests []FriendRequest) {
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

func (r *RepoMock) AddFriendship(_ context.Context, uidA, uidB string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Friendships[[2]string{uidA, uidB}] = struct{}{}
	r.Friendships[[2]string{uidB, uidA}] = struct{}{}
	return nil
}

func (r *RepoMock) RemoveFriendship(_ context.Context, uidA, uidB string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.Friendships, [2]string{uidA, uidB})
	delete(r.Friendships, [2]string{uidB, uidA})
	return nil
}
