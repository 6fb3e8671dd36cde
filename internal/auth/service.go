package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verudex/Momentum-sub000/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "momentum-service-session||"
	tokensSetKey     = "momentum-service-sessions"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// credentialsRepo resolves a username to the stored account credentials.
// Implemented by the friends directory repo, which owns user records.
type credentialsRepo interface {
	GetCredentials(ctx context.Context, username string) (uid string, passwordHash string, err error)
}

type Service struct {
	redisClient *redis.Client
	credentials credentialsRepo
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(
	ttl time.Duration,
	redisClient *redis.Client,
	credentials credentialsRepo,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		credentials:    credentials,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login verifies the password and creates a new session token bound to the
// user's uid.
func (as *Service) Login(
	ctx context.Context,
	username, password string,
	createdAt time.Time,
) (string, error) {
	uid, passwordHash, err := as.credentials.GetCredentials(ctx, username)
	if err != nil {
		// unknown username answers the same as a wrong password
		log.Tracef("get credentials for %s: %s", username, err)
		return "", ErrInvalidCredentials
	}

	if !pkg.CheckPasswordHash(password, passwordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	sessionValue := sessionValue(uid, createdAt)
	cmdSet := as.redisClient.Set(ctx, sessionKey, sessionValue, 0)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		return err
	}

	cmdDel := as.redisClient.Del(ctx, sessionKey)
	if err := cmdDel.Err(); err != nil {
		return err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return err
	}

	return nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Warnln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Warnf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := as.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if time.Since(createdAt) > as.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		sessionKey := sessionKeyPrefix + token
		if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
			log.Errorf("=> auth service, clean session %s: %s", token, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, remove session token %s: %s", token, err)
		}
	}

	log.Warnf("=> auth service, scan and clean done, removed %d sessions", len(toRemove))
}

func sessionValue(uid string, createdAt time.Time) string {
	return fmt.Sprintf("%d|%s", createdAt.Unix(), uid)
}

func parseSessionValue(value string) (uid string, createdAt time.Time, err error) {
	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 {
		return "", time.Time{}, fmt.Errorf("malformed session value: %s", value)
	}

	createdAtUnix, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("malformed session timestamp: %w", err)
	}

	return parts[1], time.Unix(createdAtUnix, 0), nil
}
