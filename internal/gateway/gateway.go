package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"bot_panel/internal/session"
	"bot_panel/services/httpmiddleware"

	"github.com/google/uuid"
)

// IdentitySource выдает текущую личность пользователя.
// Реализуется session.Store.
type IdentitySource interface {
	Current() (*session.Session, error)
}

// Client - шлюз к backend'у платформы. Каждый вызов сериализует тело,
// подставляет учетные данные и нормализует ответ {success, data|error}.
// Повторов не делает: retry - решение вызывающего кода.
type Client struct {
	baseURL    string
	httpClient *http.Client
	identity   IdentitySource
	logger     *slog.Logger
}

// envelope - универсальный конверт ответа сервера
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// New создает шлюз для данного базового URL
func New(baseURL string, identity IdentitySource, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: httpmiddleware.Wrap(
			httpmiddleware.DefaultTransport(),
			httpmiddleware.RequestGetBodySetter,
			httpmiddleware.Logger(logger, -1),
		),
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		identity:   identity,
		logger:     logger,
	}
}

// Do выполняет запрос и возвращает data из конверта.
// Транспортный сбой и битый JSON приходят как *Error с KindConnection,
// success:false - как *Error с KindApplication и серверным сообщением.
func (c *Client) Do(ctx context.Context, method, path string, body any, authRequired bool) (json.RawMessage, error) {
	var reqBody io.Reader = http.NoBody

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}

		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.setHeaders(req, body != nil, authRequired)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, connectionErr(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionErr(err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, connectionErr(fmt.Errorf("malformed response: %w", err))
	}

	if !env.Success {
		c.logger.Debug("API error",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", env.Error))

		return nil, applicationErr(env.Error)
	}

	return env.Data, nil
}

// setHeaders подставляет заголовки запроса. Отсутствие сессии при
// authRequired не фатально: запрос уходит без учетных данных, и отказ
// сервера возвращается вызывающему как есть.
func (c *Client) setHeaders(req *http.Request, hasBody, authRequired bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	if !authRequired {
		return
	}

	sess, err := c.identity.Current()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			c.logger.Warn("Failed to read session", slog.Any("error", err))
		}

		return
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %d", sess.UserID))
	req.Header.Set("X-User-ID", fmt.Sprintf("%d", sess.UserID))
}

// Get - GET запрос без тела
func (c *Client) Get(ctx context.Context, path string, authRequired bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil, authRequired)
}

// Post - POST запрос с опциональным телом
func (c *Client) Post(ctx context.Context, path string, body any, authRequired bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body, authRequired)
}

// Delete - DELETE запрос без тела
func (c *Client) Delete(ctx context.Context, path string, authRequired bool) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, authRequired)
}
