package apikeys

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"bot_panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI запоминает последний вызов и отдает заготовленный ответ
type fakeAPI struct {
	lastMethod string
	lastPath   string
	lastBody   any
	response   json.RawMessage
	err        error
}

func (f *fakeAPI) Do(_ context.Context, method, path string, body any, authRequired bool) (json.RawMessage, error) {
	f.lastMethod = method
	f.lastPath = path
	f.lastBody = body

	return f.response, f.err
}

func newTestClient(f *fakeAPI) *Client {
	return New(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestList_ParsesCredentials(t *testing.T) {
	f := &fakeAPI{response: json.RawMessage(`[
		{"id":1,"nickname":"main","exchange":""},
		{"id":2,"nickname":"alt","exchange":"binance"}
	]`)}

	keys, err := newTestClient(f).List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 2)

	assert.Equal(t, "GET /api-keys", f.lastMethod+" "+f.lastPath)
	assert.Equal(t, models.DefaultExchange, keys[0].ExchangeOrDefault())
	assert.Equal(t, "binance", keys[1].ExchangeOrDefault())
}

func TestAdd_SendsSecretOnce(t *testing.T) {
	f := &fakeAPI{}

	err := newTestClient(f).Add(context.Background(), "main", "key-1", "secret-1")
	require.NoError(t, err)

	assert.Equal(t, "POST /api-keys", f.lastMethod+" "+f.lastPath)

	body, ok := f.lastBody.(createRequest)
	require.True(t, ok)
	assert.Equal(t, createRequest{Nickname: "main", APIKey: "key-1", APISecret: "secret-1"}, body)
}

func TestDelete_TargetsID(t *testing.T) {
	f := &fakeAPI{}

	err := newTestClient(f).Delete(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "DELETE /api-keys/5", f.lastMethod+" "+f.lastPath)
}
