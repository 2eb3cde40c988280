package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"bot_panel/internal/models"
	"bot_panel/internal/session"
)

// api - минимальная поверхность шлюза, нужная auth клиенту
type api interface {
	Do(ctx context.Context, method, path string, body any, authRequired bool) (json.RawMessage, error)
}

// Client выполняет регистрацию и вход, поддерживая локальную сессию
type Client struct {
	gw       api
	sessions *session.Store
	logger   *slog.Logger
}

// New создает auth клиент
func New(gw api, sessions *session.Store, logger *slog.Logger) *Client {
	return &Client{
		gw:       gw,
		sessions: sessions,
		logger:   logger,
	}
}

// registerRequest - тело POST /auth/register
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// loginRequest - тело POST /auth/login
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// identityPayload - данные пользователя в ответах login/register
type identityPayload struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Register регистрирует нового пользователя. Сессию не создает:
// вход выполняется отдельно.
func (c *Client) Register(ctx context.Context, email, password, name string) error {
	body := registerRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}

	if _, err := c.gw.Do(ctx, http.MethodPost, "/auth/register", body, false); err != nil {
		return err
	}

	c.logger.Info("User registered", slog.String("email", email))

	return nil
}

// Login выполняет вход и сохраняет сессию локально
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	body := loginRequest{
		Email:    email,
		Password: password,
	}

	data, err := c.gw.Do(ctx, http.MethodPost, "/auth/login", body, false)
	if err != nil {
		return nil, err
	}

	var payload identityPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse login response: %w", err)
	}

	sess := session.Session{
		UserID: payload.UserID,
		Email:  payload.Email,
		Name:   payload.Name,
	}

	if err := c.sessions.Save(sess); err != nil {
		return nil, err
	}

	c.logger.Info("Logged in",
		slog.Int("user_id", sess.UserID),
		slog.String("name", sess.Name))

	return &sess, nil
}

// Logout стирает локальную сессию. Серверного вызова нет:
// backend не хранит состояние входа.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// Me запрашивает данные текущего пользователя
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	sess, err := c.sessions.Current()
	if err != nil {
		return nil, err
	}

	data, err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/auth/me?user_id=%d", sess.UserID), nil, true)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse user: %w", err)
	}

	return &user, nil
}
