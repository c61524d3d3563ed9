package boltstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

func openTestDeviceStore(t *testing.T) *DeviceStore {
	t.Helper()
	store, err := Open(Options{Path: filepath.Join(t.TempDir(), "sessions.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.DeviceStore()
}

func testSession(token, userID string) models.DeviceSession {
	return models.DeviceSession{
		Token:     token,
		UserID:    userID,
		UserLogin: "login-" + userID,
		IP:        "192.0.2.10",
		UserAgent: "test-agent",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestDeviceStore_SaveAndGet(t *testing.T) {
	devices := openTestDeviceStore(t)
	ctx := context.Background()

	session := testSession("tok-1", "u1")
	require.NoError(t, devices.SaveSession(ctx, session))

	got, err := devices.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.UserLogin, got.UserLogin)
	assert.Equal(t, session.IP, got.IP)
	assert.True(t, got.CreatedAt.Equal(session.CreatedAt))

	_, err = devices.GetSession(ctx, "unknown")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeviceStore_SaveIsUpsertByToken(t *testing.T) {
	devices := openTestDeviceStore(t)
	ctx := context.Background()

	require.NoError(t, devices.SaveSession(ctx, testSession("tok-1", "u1")))

	updated := testSession("tok-1", "u1")
	updated.IP = "198.51.100.7"
	require.NoError(t, devices.SaveSession(ctx, updated))

	got, err := devices.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", got.IP)
}

func TestDeviceStore_DeleteSession(t *testing.T) {
	devices := openTestDeviceStore(t)
	ctx := context.Background()

	require.NoError(t, devices.SaveSession(ctx, testSession("tok-1", "u1")))
	require.NoError(t, devices.DeleteSession(ctx, "tok-1"))

	_, err := devices.GetSession(ctx, "tok-1")
	assert.ErrorIs(t, err, database.ErrNotFound)

	// Deleting a missing token is not an error.
	assert.NoError(t, devices.DeleteSession(ctx, "tok-1"))
}

func TestDeviceStore_DeleteAllForUser(t *testing.T) {
	devices := openTestDeviceStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, devices.SaveSession(ctx, testSession(fmt.Sprintf("banned-%d", i), "u1")))
	}
	require.NoError(t, devices.SaveSession(ctx, testSession("other", "u2")))

	deleted, err := devices.DeleteAllForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	for i := 0; i < 3; i++ {
		_, err := devices.GetSession(ctx, fmt.Sprintf("banned-%d", i))
		assert.ErrorIs(t, err, database.ErrNotFound)
	}

	// The other user's session survives.
	got, err := devices.GetSession(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "u2", got.UserID)

	// Repeating the purge deletes nothing.
	deleted, err = devices.DeleteAllForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestDeviceStore_UserPrefixIsExact(t *testing.T) {
	devices := openTestDeviceStore(t)
	ctx := context.Background()

	require.NoError(t, devices.SaveSession(ctx, testSession("a", "u1")))
	require.NoError(t, devices.SaveSession(ctx, testSession("b", "u10")))

	deleted, err := devices.DeleteAllForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted, "u10 must not match the u1 prefix")

	_, err = devices.GetSession(ctx, "b")
	assert.NoError(t, err)
}
