package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"bot_panel/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI отдает заготовленный ответ и запоминает вызов
type fakeAPI struct {
	lastMethod string
	lastPath   string
	lastBody   any
	lastAuth   bool
	response   json.RawMessage
	err        error
}

func (f *fakeAPI) Do(_ context.Context, method, path string, body any, authRequired bool) (json.RawMessage, error) {
	f.lastMethod = method
	f.lastPath = path
	f.lastBody = body
	f.lastAuth = authRequired

	return f.response, f.err
}

func newTestAuth(t *testing.T, f *fakeAPI) (*Client, *session.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions, err := session.Open(filepath.Join(t.TempDir(), "session.db"), logger)
	require.NoError(t, err)

	t.Cleanup(func() { sessions.Close() })

	return New(f, sessions, logger), sessions
}

func TestLogin_SavesSession(t *testing.T) {
	f := &fakeAPI{response: json.RawMessage(`{"user_id":7,"email":"ivan@example.com","name":"Ivan"}`)}

	c, sessions := newTestAuth(t, f)

	sess, err := c.Login(context.Background(), "ivan@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, 7, sess.UserID)
	assert.False(t, f.lastAuth, "login - публичный вызов")

	stored, err := sessions.Current()
	require.NoError(t, err)
	assert.Equal(t, "Ivan", stored.Name)
}

func TestLogin_FailureLeavesNoSession(t *testing.T) {
	f := &fakeAPI{err: assert.AnError}

	c, sessions := newTestAuth(t, f)

	_, err := c.Login(context.Background(), "ivan@example.com", "wrong")
	require.Error(t, err)

	_, err = sessions.Current()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRegister_DoesNotCreateSession(t *testing.T) {
	f := &fakeAPI{response: json.RawMessage(`{"user_id":8,"message":"Регистрация успешна"}`)}

	c, sessions := newTestAuth(t, f)

	require.NoError(t, c.Register(context.Background(), "new@example.com", "secret", "New"))
	assert.Equal(t, "POST /auth/register", f.lastMethod+" "+f.lastPath)

	_, err := sessions.Current()
	assert.ErrorIs(t, err, session.ErrNoSession, "после регистрации вход выполняется отдельно")
}

func TestLogout_ClearsSession(t *testing.T) {
	f := &fakeAPI{response: json.RawMessage(`{"user_id":7,"email":"a@b.c","name":"A"}`)}

	c, sessions := newTestAuth(t, f)

	_, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	require.NoError(t, c.Logout())

	_, err = sessions.Current()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestMe_RequiresSession(t *testing.T) {
	f := &fakeAPI{response: json.RawMessage(`{"id":7,"email":"a@b.c","name":"A"}`)}

	c, sessions := newTestAuth(t, f)

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, sessions.Save(session.Session{UserID: 7, Email: "a@b.c", Name: "A"}))

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.True(t, f.lastAuth, "/auth/me - защищенный вызов")
}
