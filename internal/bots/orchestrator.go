package bots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"bot_panel/internal/gateway"
	"bot_panel/internal/models"
	"bot_panel/internal/notify"
)

// Сообщения пользователю. Тексты совпадают с исходным веб-интерфейсом.
const (
	msgConnectionError = "Ошибка соединения с сервером"
	msgCreateFailed    = "Не удалось создать бота"
	msgStartFailed     = "Не удалось запустить бота"
	msgStopFailed      = "Не удалось остановить бота"
	msgDeleteFailed    = "Не удалось удалить бота"
	msgLogsFailed      = "Не удалось получить логи"
	msgListFailed      = "Не удалось загрузить список ботов"
)

var (
	// ErrBusy - цепочка create+start уже выполняется, повторная
	// отправка формы отклонена локально
	ErrBusy = errors.New("create-and-start already in progress")
	// ErrCanceled - пользователь не подтвердил действие
	ErrCanceled = errors.New("action canceled by user")
)

// api - минимальная поверхность шлюза для операций с ботами
type api interface {
	Do(ctx context.Context, method, path string, body any, authRequired bool) (json.RawMessage, error)
}

// Confirmer запрашивает у пользователя явное подтверждение
// необратимого действия
type Confirmer interface {
	Confirm(prompt string) bool
}

// Outcome - исход цепочки create-then-start
type Outcome int

const (
	// OutcomeStarted - бот создан и запущен
	OutcomeStarted Outcome = iota + 1
	// OutcomeCreateFailed - создание не удалось, запуск не выполнялся
	OutcomeCreateFailed
	// OutcomePartial - бот создан, но запуск не удался;
	// на сервере он существует в статусе stopped
	OutcomePartial
)

// CreateResult - результат CreateAndStart с тремя различимыми вариантами
type CreateResult struct {
	Outcome Outcome
	BotID   int
	Err     error
}

// Orchestrator управляет жизненным циклом ботов: цепочка создания
// с запуском, старт/стоп, удаление с подтверждением, логи, обновление
// ростера. Статусы ботам не присваивает - им всегда владеет сервер.
type Orchestrator struct {
	gw        api
	notifier  notify.Notifier
	confirmer Confirmer
	logger    *slog.Logger

	// busy - защита от повторной отправки формы, пока цепочка
	// create+start не разрешилась
	busy atomic.Bool

	// OnChange вызывается после каждого подтвержденного сервером
	// изменения ростера (и после частичного сбоя, чтобы показать
	// реальный статус вместо угаданного). Опционален.
	OnChange func(ctx context.Context)
}

// New создает оркестратор
func New(gw api, notifier notify.Notifier, confirmer Confirmer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		gw:        gw,
		notifier:  notifier,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Busy сообщает, выполняется ли сейчас цепочка create+start
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// refresh дергает обновление ростера, если подписчик есть
func (o *Orchestrator) refresh(ctx context.Context) {
	if o.OnChange != nil {
		o.OnChange(ctx)
	}
}

// errMessage выбирает текст уведомления: транспортный сбой всегда
// показывается одинаково, отказ сервера - его сообщением
func errMessage(err error, fallback string) string {
	if gateway.IsConnection(err) {
		return msgConnectionError
	}

	return gateway.Reason(err, fallback)
}

// List загружает актуальный ростер с сервера
func (o *Orchestrator) List(ctx context.Context) ([]models.Bot, error) {
	data, err := o.gw.Do(ctx, http.MethodGet, "/bots", nil, true)
	if err != nil {
		return nil, err
	}

	var roster []models.Bot
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse bots: %w", err)
	}

	return roster, nil
}

// createdPayload - data ответа POST /bots
type createdPayload struct {
	BotID int `json:"bot_id"`
}

// CreateAndStart выполняет цепочку: создать бота, и только при успехе -
// сразу запустить его. Запуск никогда не уходит параллельно созданию.
// Пока цепочка не разрешилась, повторные вызовы отклоняются с ErrBusy.
func (o *Orchestrator) CreateAndStart(ctx context.Context, cfg models.BotConfig) CreateResult {
	if !o.busy.CompareAndSwap(false, true) {
		return CreateResult{Outcome: OutcomeCreateFailed, Err: ErrBusy}
	}
	defer o.busy.Store(false)

	data, err := o.gw.Do(ctx, http.MethodPost, "/bots", cfg, true)
	if err != nil {
		o.logger.Error("Create bot failed",
			slog.String("name", cfg.Name),
			slog.Any("error", err))
		o.notifier.Error(errMessage(err, msgCreateFailed))

		return CreateResult{Outcome: OutcomeCreateFailed, Err: err}
	}

	var created createdPayload
	if err := json.Unmarshal(data, &created); err != nil {
		err = fmt.Errorf("parse create response: %w", err)
		o.notifier.Error(msgCreateFailed)

		return CreateResult{Outcome: OutcomeCreateFailed, Err: err}
	}

	o.logger.Info("Bot created",
		slog.Int("bot_id", created.BotID),
		slog.String("name", cfg.Name))

	if _, err := o.gw.Do(ctx, http.MethodPost, fmt.Sprintf("/bots/%d/start", created.BotID), nil, true); err != nil {
		// Частичный сбой: бот уже существует на сервере в статусе
		// stopped. Сообщаем отдельно от обычной ошибки и принудительно
		// обновляем ростер, чтобы показать настоящий статус.
		o.logger.Warn("Bot created but not started",
			slog.Int("bot_id", created.BotID),
			slog.Any("error", err))
		o.notifier.Warn(fmt.Sprintf("Бот создан, но не запущен: %s", errMessage(err, msgStartFailed)))
		o.refresh(ctx)

		return CreateResult{Outcome: OutcomePartial, BotID: created.BotID, Err: err}
	}

	o.notifier.Success(fmt.Sprintf("Бот «%s» создан и запущен", cfg.Name))
	o.refresh(ctx)

	return CreateResult{Outcome: OutcomeStarted, BotID: created.BotID}
}

// Start запускает остановленного бота
func (o *Orchestrator) Start(ctx context.Context, id int) error {
	if _, err := o.gw.Do(ctx, http.MethodPost, fmt.Sprintf("/bots/%d/start", id), nil, true); err != nil {
		o.logger.Error("Start bot failed", slog.Int("bot_id", id), slog.Any("error", err))
		o.notifier.Error(errMessage(err, msgStartFailed))

		return err
	}

	o.notifier.Success(fmt.Sprintf("Бот #%d запущен", id))
	o.refresh(ctx)

	return nil
}

// Stop останавливает запущенного бота
func (o *Orchestrator) Stop(ctx context.Context, id int) error {
	if _, err := o.gw.Do(ctx, http.MethodPost, fmt.Sprintf("/bots/%d/stop", id), nil, true); err != nil {
		o.logger.Error("Stop bot failed", slog.Int("bot_id", id), slog.Any("error", err))
		o.notifier.Error(errMessage(err, msgStopFailed))

		return err
	}

	o.notifier.Success(fmt.Sprintf("Бот #%d остановлен", id))
	o.refresh(ctx)

	return nil
}

// Delete удаляет бота после явного подтверждения. Отказ от
// подтверждения не делает ни одного сетевого вызова. Оптимистичного
// локального удаления нет: ростер правит только сервер.
func (o *Orchestrator) Delete(ctx context.Context, id int) error {
	if !o.confirmer.Confirm(fmt.Sprintf("Удалить бота #%d? Это действие необратимо.", id)) {
		return ErrCanceled
	}

	if _, err := o.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/bots/%d", id), nil, true); err != nil {
		o.logger.Error("Delete bot failed", slog.Int("bot_id", id), slog.Any("error", err))
		o.notifier.Error(errMessage(err, msgDeleteFailed))

		return err
	}

	o.notifier.Success(fmt.Sprintf("Бот #%d удален", id))
	o.refresh(ctx)

	return nil
}

// Logs запрашивает хвост логов контейнера. Кэша нет - каждый вызов
// идет на сервер. tail ограничен так же, как на backend'е.
func (o *Orchestrator) Logs(ctx context.Context, id, tail int) (*models.BotLogs, error) {
	if tail <= 0 {
		tail = 50
	}

	if tail > 500 {
		tail = 500
	}

	data, err := o.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/bots/%d/logs?tail=%d", id, tail), nil, true)
	if err != nil {
		o.notifier.Error(errMessage(err, msgLogsFailed))
		return nil, err
	}

	var logs models.BotLogs
	if err := json.Unmarshal(data, &logs); err != nil {
		return nil, fmt.Errorf("parse logs: %w", err)
	}

	return &logs, nil
}

// Get загружает детальную карточку бота
func (o *Orchestrator) Get(ctx context.Context, id int) (*models.Bot, error) {
	data, err := o.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/bots/%d", id), nil, true)
	if err != nil {
		return nil, err
	}

	var bot models.Bot
	if err := json.Unmarshal(data, &bot); err != nil {
		return nil, fmt.Errorf("parse bot: %w", err)
	}

	return &bot, nil
}

// Stats запрашивает статистику ресурсов контейнера
func (o *Orchestrator) Stats(ctx context.Context, id int) (*models.BotStats, error) {
	data, err := o.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/bots/%d/stats", id), nil, true)
	if err != nil {
		return nil, err
	}

	var stats models.BotStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("parse stats: %w", err)
	}

	return &stats, nil
}
