package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	testUsername     = "testuser"
	testPassword     = "testpass"
	testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass
	testAdmin        = &Admin{
		Username:     testUsername,
		PasswordHash: testPasswordHash,
	}
	testCredentials = Credentials{
		Username: testUsername,
		Password: testPassword,
	}
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestAuthService_Login(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(testAdmin, time.Hour, db)
	require.NotNil(t, authService)
	assert.NotNil(t, authService.redisClient)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	now := time.Now()
	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, now.Unix(), 0).SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)
	token, err := authService.Login(context.Background(), testCredentials, now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	// wrong password
	token, err = authService.Login(context.Background(), Credentials{
		Username: testUsername,
		Password: "invalid_pass",
	}, now)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, token)

	// wrong username
	token, err = authService.Login(context.Background(), Credentials{
		Username: "intruder",
		Password: testPassword,
	}, now)
	assert.ErrorIs(t, err, ErrWrongUsername)
	assert.Empty(t, token)
}

func TestAuthService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(testAdmin, time.Hour, db)

	testToken := "test_token"
	sessionKey := sessionKeyPrefix + testToken
	now := time.Now()

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectSet(sessionKey, 0, 0).SetVal("0")
	mock.ExpectSRem(tokensSetKey, testToken).SetVal(1)

	loggedOut, err := authService.Logout(context.Background(), testToken)
	require.NoError(t, err)
	assert.True(t, loggedOut)

	// unknown token
	mock.ExpectGet(sessionKeyPrefix + "unknown").RedisNil()
	_, err = authService.Logout(context.Background(), "unknown")
	assert.Error(t, err)
}

func TestAuthService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(testAdmin, ttl, rdb)
	require.NotNil(t, authService)

	freshToken := "fresh_token"
	staleToken := "stale_token"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{freshToken, staleToken})
	mock.ExpectGet(sessionKeyPrefix + freshToken).SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectGet(sessionKeyPrefix + staleToken).SetVal(fmt.Sprintf("%d", then.Unix()))
	mock.ExpectDel(sessionKeyPrefix + staleToken).SetVal(1)
	mock.ExpectSRem(tokensSetKey, staleToken).SetVal(1)

	authService.ScanAndClean(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginChecker_IsLogged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	checker := NewLoginChecker(time.Hour, db)

	now := time.Now()
	mock.ExpectGet(sessionKeyPrefix + "fresh").SetVal(fmt.Sprintf("%d", now.Unix()))
	isLogged, err := checker.IsLogged(context.Background(), "fresh")
	require.NoError(t, err)
	assert.True(t, isLogged)

	// session older than the ttl is not logged anymore
	then := now.Add(-2 * time.Hour)
	mock.ExpectGet(sessionKeyPrefix + "stale").SetVal(fmt.Sprintf("%d", then.Unix()))
	isLogged, err = checker.IsLogged(context.Background(), "stale")
	require.NoError(t, err)
	assert.False(t, isLogged)

	mock.ExpectGet(sessionKeyPrefix + "unknown").RedisNil()
	_, err = checker.IsLogged(context.Background(), "unknown")
	assert.Error(t, err)
}

func TestLoginTestChecker(t *testing.T) {
	checker := NewLoginTestChecker()
	checker.LoggedSessions["tokenA"] = true

	isLogged, err := checker.IsLogged(context.Background(), "tokenA")
	require.NoError(t, err)
	assert.True(t, isLogged)

	isLogged, err = checker.IsLogged(context.Background(), "tokenB")
	require.NoError(t, err)
	assert.False(t, isLogged)
}
