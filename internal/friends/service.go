package friends

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"
	"github.com/verudex/Momentum-sub000/pkg"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	uidLength = 16

	displayNameCacheExpireSeconds = 60 * 60
)

type friendsRepo interface {
	AddUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, uid string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	FriendUIDs(ctx context.Context, uid string) ([]string, error)
	AddFriendRequest(ctx context.Context, request FriendRequest) error
	DeleteFriendRequest(ctx context.Context, fromUID, toUID string) error
	ReceivedRequests(ctx context.Context, uid string) ([]FriendRequest, error)
	SentRequests(ctx context.Context, uid string) ([]FriendRequest, error)
	AddFriendship(ctx context.Context, uidA, uidB string) error
	RemoveFriendship(ctx context.Context, uidA, uidB string) error
}

// Service is the user directory: profiles plus the request/accept
// friendship flow. Display names are cached, they are read on every
// leaderboard build and change rarely.
type Service struct {
	repo  friendsRepo
	cache *freecache.Cache
}

func NewService(repo friendsRepo) *Service {
	megabyte := 1024 * 1024
	return &Service{
		repo:  repo,
		cache: freecache.NewCache(10 * megabyte),
	}
}

func (s *Service) Register(ctx context.Context, username, password, displayName string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "friends.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if username == "" || password == "" {
		return nil, errors.New("username and password required")
	}
	if displayName == "" {
		displayName = username
	}

	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	uid, err := pkg.GenerateRandomString(uidLength)
	if err != nil {
		return nil, fmt.Errorf("generate uid: %w", err)
	}

	user := User{
		UID:          uid,
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.AddUser(ctx, user); err != nil {
		return nil, err
	}

	log.Debugf("new user registered: [%s] %s", user.UID, user.Username)
	return &user, nil
}

func (s *Service) Profile(ctx context.Context, uid string) (*User, error) {
	return s.repo.GetUser(ctx, uid)
}

// DisplayName resolves a user's display name, served from cache when warm.
func (s *Service) DisplayName(ctx context.Context, uid string) (string, error) {
	cacheKey := []byte("display-name::" + uid)
	if cached, err := s.cache.Get(cacheKey); err == nil {
		return string(cached), nil
	}

	user, err := s.repo.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(cacheKey, []byte(user.DisplayName), displayNameCacheExpireSeconds); err != nil {
		log.Errorf("failed to cache display name for [%s]: %s", uid, err)
	}
	return user.DisplayName, nil
}

func (s *Service) FriendUIDs(ctx context.Context, uid string) ([]string, error) {
	return s.repo.FriendUIDs(ctx, uid)
}

// Friends lists confirmed friends with their display names.
func (s *Service) Friends(ctx context.Context, uid string) (_ []Friend, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "friends.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	uids, err := s.repo.FriendUIDs(ctx, uid)
	if err != nil {
		return nil, err
	}

	listed := make([]Friend, 0, len(uids))
	for _, friendUID := range uids {
		displayName, err := s.DisplayName(ctx, friendUID)
		if err != nil {
			return nil, fmt.Errorf("display name of %s: %w", friendUID, err)
		}
		listed = append(listed, Friend{UID: friendUID, DisplayName: displayName})
	}
	return listed, nil
}

// SendRequest files a friend request towards the named user.
func (s *Service) SendRequest(ctx context.Context, fromUID, toUsername string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "friends.sendRequest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	toUser, err := s.repo.GetUserByUsername(ctx, toUsername)
	if err != nil {
		return err
	}
	if toUser.UID == fromUID {
		return errors.New("cannot befriend yourself")
	}

	return s.repo.AddFriendRequest(ctx, FriendRequest{
		FromUID:   fromUID,
		ToUID:     toUser.UID,
		CreatedAt: time.Now(),
	})
}

// AcceptRequest confirms a received request and establishes the friendship.
func (s *Service) AcceptRequest(ctx context.Context, toUID, fromUID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "friends.acceptRequest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.DeleteFriendRequest(ctx, fromUID, toUID); err != nil {
		return err
	}
	return s.repo.AddFriendship(ctx, toUID, fromUID)
}

func (s *Service) DeclineRequest(ctx context.Context, toUID, fromUID string) error {
	return s.repo.DeleteFriendRequest(ctx, fromUID, toUID)
}

func (s *Service) ReceivedRequests(ctx context.Context, uid string) ([]FriendRequest, error) {
	return s.repo.ReceivedRequests(ctx, uid)
}

func (s *Service) SentRequests(ctx context.Context, uid string) ([]FriendRequest, error) {
	return s.repo.SentRequests(ctx, uid)
}

func (s *Service) Unfriend(ctx context.Context, uid, friendUID string) error {
	return s.repo.RemoveFriendship(ctx, uid, friendUID)
}
