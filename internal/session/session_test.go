package session

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := Open(filepath.Join(t.TempDir(), "session.db"), logger)
	require.NoError(t, err)

	t.Cleanup(func() { store.Close() })

	return store
}

func TestStore_NoSessionByDefault(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Current()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_SaveAndCurrent(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(Session{UserID: 7, Email: "ivan@example.com", Name: "Ivan"}))

	sess, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, 7, sess.UserID)
	assert.Equal(t, "ivan@example.com", sess.Email)
	assert.Equal(t, "Ivan", sess.Name)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(Session{UserID: 1, Email: "a@b.c", Name: "A"}))
	require.NoError(t, store.Save(Session{UserID: 2, Email: "x@y.z", Name: "X"}))

	sess, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, sess.UserID, "активная сессия всегда одна")
}

func TestStore_ClearRemovesSession(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(Session{UserID: 1, Email: "a@b.c", Name: "A"}))
	require.NoError(t, store.Clear())

	_, err := store.Current()
	assert.ErrorIs(t, err, ErrNoSession)

	// Повторный Clear безопасен
	assert.NoError(t, store.Clear())
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := Open(path, logger)
	require.NoError(t, err)
	require.NoError(t, store.Save(Session{UserID: 9, Email: "p@q.r", Name: "P"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path, logger)
	require.NoError(t, err)
	defer reopened.Close()

	sess, err := reopened.Current()
	require.NoError(t, err)
	assert.Equal(t, 9, sess.UserID, "сессия переживает перезапуск клиента")
}
