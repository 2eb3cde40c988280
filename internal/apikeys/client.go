package apikeys

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"bot_panel/internal/models"
)

// api - минимальная поверхность шлюза для CRUD операций с ключами
type api interface {
	Do(ctx context.Context, method, path string, body any, authRequired bool) (json.RawMessage, error)
}

// createRequest - тело POST /api-keys
type createRequest struct {
	Nickname  string `json:"nickname"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

// Client - клиент реестра ключей биржи. Список ключей питает
// селектор учетных данных формы создания бота.
type Client struct {
	gw     api
	logger *slog.Logger
}

// New создает клиент реестра ключей
func New(gw api, logger *slog.Logger) *Client {
	return &Client{
		gw:     gw,
		logger: logger,
	}
}

// List возвращает все сохраненные ключи пользователя
func (c *Client) List(ctx context.Context) ([]models.Credential, error) {
	data, err := c.gw.Do(ctx, http.MethodGet, "/api-keys", nil, true)
	if err != nil {
		return nil, err
	}

	var keys []models.Credential
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse api keys: %w", err)
	}

	return keys, nil
}

// Add сохраняет новый ключ биржи
func (c *Client) Add(ctx context.Context, nickname, apiKey, apiSecret string) error {
	body := createRequest{
		Nickname:  nickname,
		APIKey:    apiKey,
		APISecret: apiSecret,
	}

	if _, err := c.gw.Do(ctx, http.MethodPost, "/api-keys", body, true); err != nil {
		return err
	}

	c.logger.Info("API key added", slog.String("nickname", nickname))

	return nil
}

// Delete удаляет ключ по id
func (c *Client) Delete(ctx context.Context, id int) error {
	if _, err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/api-keys/%d", id), nil, true); err != nil {
		return err
	}

	c.logger.Info("API key deleted", slog.Int("id", id))

	return nil
}
