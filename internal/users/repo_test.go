package users

import (
	"strings"
	"testing"
	"time"

	"vlanman/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (*Repo, *gorm.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	d, err := db.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(d))
	return NewRepo(d), d
}

func TestFindOrCreate(t *testing.T) {
	repo, _ := newTestRepo(t)

	u, created, err := repo.FindOrCreate("Alice", "2101001", "alice@example.edu")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, u.UUID)

	again, created, err := repo.FindOrCreate("Alice Renamed", "2101001", "other@example.edu")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.UUID, again.UUID)
	// existing identity wins; login does not rewrite the profile
	assert.Equal(t, "Alice", again.Name)
}

func TestSessionTokenLifecycle(t *testing.T) {
	repo, _ := newTestRepo(t)
	u, _, err := repo.FindOrCreate("Bob", "2101002", "bob@example.edu")
	require.NoError(t, err)

	sess, err := repo.CreateSession(u.UUID, "10.0.0.7", "curl/8", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	got, err := repo.UserByToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.UUID, got.UUID)

	require.NoError(t, repo.RevokeToken(sess.Token))
	_, err = repo.UserByToken(sess.Token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestExpiredTokenRejected(t *testing.T) {
	repo, _ := newTestRepo(t)
	u, _, err := repo.FindOrCreate("Carol", "2101003", "carol@example.edu")
	require.NoError(t, err)

	sess, err := repo.CreateSession(u.UUID, "", "", -time.Minute)
	require.NoError(t, err)

	_, err = repo.UserByToken(sess.Token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = repo.UserByToken("")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = repo.UserByToken("no-such-token")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCleanupExpiredSessions(t *testing.T) {
	repo, _ := newTestRepo(t)
	u, _, err := repo.FindOrCreate("Dave", "2101004", "dave@example.edu")
	require.NoError(t, err)

	_, err = repo.CreateSession(u.UUID, "", "", -time.Minute)
	require.NoError(t, err)
	live, err := repo.CreateSession(u.UUID, "", "", time.Hour)
	require.NoError(t, err)

	n, err := repo.CleanupExpiredSessions(time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.UserByToken(live.Token)
	assert.NoError(t, err)

	// nothing left to clean
	n, err = repo.CleanupExpiredSessions(time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, n)
}
