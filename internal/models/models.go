package models

// Статусы бота. Авторитетное значение всегда приходит с сервера,
// клиент его не вычисляет сам.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// DefaultExchange - биржа по умолчанию, если сервер не вернул поле exchange
const DefaultExchange = "bybit"

// Indicator - конфигурация индикатора стратегии (RSI или CCI)
type Indicator struct {
	Type      string  `json:"type"`      // RSI | CCI
	Timeframe string  `json:"timeframe"` // 1m, 5m, 15m, 1h, 4h, 1d
	Period    int     `json:"period"`
	Threshold float64 `json:"threshold"`
	Direction string  `json:"direction"` // above | below
}

// Bot - торговый бот, как его отдает сервер
type Bot struct {
	ID                int         `json:"id"`
	Name              string      `json:"name"`
	TradingPair       string      `json:"trading_pair"`
	Strategy          string      `json:"strategy"`
	Leverage          int         `json:"leverage"`
	Deposit           float64     `json:"deposit"`
	TakeProfitPercent float64     `json:"take_profit_percent"`
	StopLossPercent   float64     `json:"stop_loss_percent"`
	Status            string      `json:"status"`
	ContainerID       string      `json:"container_id,omitempty"`
	CreatedAt         string      `json:"created_at,omitempty"`
	Indicators        []Indicator `json:"indicators,omitempty"`
}

// IsRunning сообщает, считает ли сервер бота запущенным
func (b Bot) IsRunning() bool {
	return b.Status == StatusRunning
}

// BotConfig - полная конфигурация для создания бота.
// Indicators всегда ровно два: RSI первым, CCI вторым.
type BotConfig struct {
	APIKeyID          int         `json:"api_key_id"`
	Name              string      `json:"name"`
	TradingPair       string      `json:"trading_pair"`
	Strategy          string      `json:"strategy"`
	Leverage          int         `json:"leverage"`
	Deposit           float64     `json:"deposit"`
	TakeProfitPercent float64     `json:"take_profit_percent"`
	StopLossPercent   float64     `json:"stop_loss_percent"`
	Indicators        []Indicator `json:"indicators"`
}

// Credential - сохраненный ключ биржи. Секрет сервер обратно не отдает.
type Credential struct {
	ID        int    `json:"id"`
	Nickname  string `json:"nickname"`
	Exchange  string `json:"exchange"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ExchangeOrDefault возвращает биржу или значение по умолчанию,
// если сервер прислал пустое поле
func (c Credential) ExchangeOrDefault() string {
	if c.Exchange == "" {
		return DefaultExchange
	}

	return c.Exchange
}

// BotLogs - ответ на запрос логов контейнера
type BotLogs struct {
	BotID      int    `json:"bot_id"`
	Logs       string `json:"logs"`
	LinesCount int    `json:"lines_count"`
	IsRunning  bool   `json:"is_running"`
}

// BotStats - статистика ресурсов контейнера бота
type BotStats struct {
	BotID         int     `json:"bot_id"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsageMB float64 `json:"memory_usage_mb"`
	MemoryLimitMB float64 `json:"memory_limit_mb"`
}

// User - данные текущего пользователя из /auth/me
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}
