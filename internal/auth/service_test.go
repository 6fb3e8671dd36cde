package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verudex/Momentum-sub000/pkg"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	m.Run()
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

type credentialsRepoStub struct {
	uid          string
	passwordHash string
	err          error
}

func (r *credentialsRepoStub) GetCredentials(_ context.Context, _ string) (string, string, error) {
	return r.uid, r.passwordHash, r.err
}

func TestService_Login(t *testing.T) {
	db, mock := redismock.NewClientMock()

	passwordHash, err := pkg.HashPassword("testpass")
	require.NoError(t, err)

	service := NewService(time.Hour, db, &credentialsRepoStub{
		uid:          "uid-1",
		passwordHash: passwordHash,
	})
	service.RandStringFunc = func(s int) (string, error) {
		return "not-really-random", nil
	}

	now := time.Now()
	sessionKey := sessionKeyPrefix + "not-really-random"
	mock.ExpectSet(sessionKey, sessionValue("uid-1", now), 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, "not-really-random").SetVal(1)

	token, err := service.Login(context.Background(), "testuser", "testpass", now)
	require.NoError(t, err)
	assert.Equal(t, "not-really-random", token)
}

func TestService_Login_WrongPassword(t *testing.T) {
	db, _ := redismock.NewClientMock()

	passwordHash, err := pkg.HashPassword("testpass")
	require.NoError(t, err)

	service := NewService(time.Hour, db, &credentialsRepoStub{
		uid:          "uid-1",
		passwordHash: passwordHash,
	})

	token, err := service.Login(context.Background(), "testuser", "wrong", time.Now())
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestService_Login_UnknownUser(t *testing.T) {
	db, _ := redismock.NewClientMock()

	service := NewService(time.Hour, db, &credentialsRepoStub{
		err: errors.New("user not found"),
	})

	token, err := service.Login(context.Background(), "whoever", "whatever", time.Now())
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()

	service := NewService(time.Hour, db, &credentialsRepoStub{})

	sessionKey := sessionKeyPrefix + "test-token"
	mock.ExpectGet(sessionKey).SetVal(sessionValue("uid-1", time.Now()))
	mock.ExpectDel(sessionKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, "test-token").SetVal(1)

	require.NoError(t, service.Logout(context.Background(), "test-token"))
}

func TestParseSessionValue(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	uid, createdAt, err := parseSessionValue(sessionValue("uid-42", now))
	require.NoError(t, err)
	assert.Equal(t, "uid-42", uid)
	assert.Equal(t, now.Unix(), createdAt.Unix())

	_, _, err = parseSessionValue("garbage")
	require.Error(t, err)

	_, _, err = parseSessionValue("not-a-number|uid")
	require.Error(t, err)
}
