package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginChecker_GetLoggedUser(t *testing.T) {
	db, mock := redismock.NewClientMock()

	loginChecker := NewLoginChecker(time.Hour, db)
	require.NotNil(t, loginChecker)

	ctx := context.Background()

	mock.ExpectGet(sessionKeyPrefix + "invalid token").SetErr(redis.Nil)
	uid, err := loginChecker.GetLoggedUser(ctx, "invalid token")
	require.Equal(t, "redis: nil", err.Error())
	assert.Empty(t, uid)

	testToken := "test-token"
	now := time.Now()
	sessionKey := sessionKeyPrefix + testToken

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%d|uid-1", now.Unix()))
	uid, err = loginChecker.GetLoggedUser(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%d|uid-1", now.Unix()))
	uid, err = loginChecker.GetLoggedUser(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid) // idempotent
}

func TestLoginChecker_GetLoggedUser_Expired(t *testing.T) {
	db, mock := redismock.NewClientMock()

	loginChecker := NewLoginChecker(time.Hour, db)
	ctx := context.Background()

	testToken := "test-token"
	sessionKey := sessionKeyPrefix + testToken
	createdAt := time.Now().Add(-2 * time.Hour)

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%d|uid-1", createdAt.Unix()))
	uid, err := loginChecker.GetLoggedUser(ctx, testToken)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, uid)
}

func TestLoginChecker_GetLoggedUser_MalformedSession(t *testing.T) {
	db, mock := redismock.NewClientMock()

	loginChecker := NewLoginChecker(time.Hour, db)
	ctx := context.Background()

	sessionKey := sessionKeyPrefix + "broken"
	mock.ExpectGet(sessionKey).SetVal("no-separator-here")
	uid, err := loginChecker.GetLoggedUser(ctx, "broken")
	require.Error(t, err)
	assert.Empty(t, uid)
}

func TestLoginChecker_IsLogged(t *testing.T) {
	db, mock := redismock.NewClientMock()

	loginChecker := NewLoginChecker(time.Hour, db)
	ctx := context.Background()

	testToken := "test-token"
	sessionKey := sessionKeyPrefix + testToken

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%d|uid-1", time.Now().Unix()))
	isLogged, err := loginChecker.IsLogged(ctx, testToken)
	require.NoError(t, err)
	assert.True(t, isLogged)

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%d|uid-1", time.Now().Add(-2*time.Hour).Unix()))
	isLogged, err = loginChecker.IsLogged(ctx, testToken)
	require.NoError(t, err)
	assert.False(t, isLogged)
}
