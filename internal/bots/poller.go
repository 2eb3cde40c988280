package bots

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrPollerRunning - попытка запустить уже работающий poller
var ErrPollerRunning = errors.New("poller already running")

// Poller периодически обновляет ростер, пока открыт экран управления
// ботами. Владеет единственным таймером: второй экземпляр нельзя
// запустить, пока первый не остановлен, а остановка гарантированно
// освобождает таймер на любом пути выхода.
type Poller struct {
	interval time.Duration
	tick     func(ctx context.Context) error
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	kick   chan struct{}
}

// NewPoller создает poller с данным интервалом и функцией одного тика
func NewPoller(interval time.Duration, tick func(ctx context.Context) error, logger *slog.Logger) *Poller {
	return &Poller{
		interval: interval,
		tick:     tick,
		logger:   logger,
	}
}

// Start запускает цикл обновления. Первый тик выполняется сразу.
// Повторный Start без Stop возвращает ErrPollerRunning.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return ErrPollerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.kick = make(chan struct{}, 1)

	go p.run(ctx, p.done, p.kick)

	return nil
}

// run - цикл тиков. Ошибка тика не фатальна: логируем и ждем
// следующего срабатывания.
func (p *Poller) run(ctx context.Context, done chan struct{}, kick chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runTick(ctx)
		case <-kick:
			p.runTick(ctx)
		}
	}
}

// runTick выполняет один тик, молча переживая любой сбой
func (p *Poller) runTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if err := p.tick(ctx); err != nil {
		// Фоновое обновление не показывает ошибок пользователю
		p.logger.Warn("Roster refresh tick failed", slog.Any("error", err))
	}
}

// Kick просит внеочередной тик, не дожидаясь таймера.
// На остановленном poller'е ничего не делает.
func (p *Poller) Kick() {
	p.mu.Lock()
	kick := p.kick
	running := p.cancel != nil
	p.mu.Unlock()

	if !running {
		return
	}

	select {
	case kick <- struct{}{}:
	default:
	}
}

// Stop останавливает цикл и дожидается его завершения.
// Идемпотентен: повторный Stop ничего не делает.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.kick = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	p.logger.Debug("Poller stopped")
}

// Running сообщает, работает ли сейчас цикл обновления
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cancel != nil
}
