package bots

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// waitTicks ждет, пока счетчик достигнет want, с запасом по времени
func waitTicks(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if counter.Load() >= want {
			return
		}

		select {
		case <-deadline:
			t.Fatalf("не дождались %d тиков, есть %d", want, counter.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPoller_TicksPeriodically(t *testing.T) {
	var ticks atomic.Int64

	p := NewPoller(20*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, discardLogger())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	// Первый тик немедленный, дальше по таймеру
	waitTicks(t, &ticks, 3)
	assert.True(t, p.Running())
}

func TestPoller_SingleInstance(t *testing.T) {
	p := NewPoller(20*time.Millisecond, func(context.Context) error { return nil }, discardLogger())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	assert.ErrorIs(t, p.Start(context.Background()), ErrPollerRunning,
		"второй таймер поверх работающего не создается")
}

func TestPoller_StopHaltsTicks(t *testing.T) {
	var ticks atomic.Int64

	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, discardLogger())

	require.NoError(t, p.Start(context.Background()))
	waitTicks(t, &ticks, 2)

	p.Stop()
	assert.False(t, p.Running())

	seen := ticks.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, seen, ticks.Load(), "после teardown тиков быть не должно")

	// Повторный Stop безопасен
	p.Stop()
}

func TestPoller_CanRestartAfterStop(t *testing.T) {
	var ticks atomic.Int64

	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, discardLogger())

	require.NoError(t, p.Start(context.Background()))
	waitTicks(t, &ticks, 1)
	p.Stop()

	require.NoError(t, p.Start(context.Background()), "после Stop экран можно открыть заново")
	defer p.Stop()

	before := ticks.Load()
	waitTicks(t, &ticks, before+1)
}

func TestPoller_TickFailureIsNotFatal(t *testing.T) {
	var ticks atomic.Int64

	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return errors.New("backend unavailable")
	}, discardLogger())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	// Ошибки тиков не останавливают цикл
	waitTicks(t, &ticks, 3)
}

func TestPoller_ContextCancelReleasesTimer(t *testing.T) {
	var ticks atomic.Int64

	ctx, cancel := context.WithCancel(context.Background())

	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, discardLogger())

	require.NoError(t, p.Start(ctx))
	waitTicks(t, &ticks, 1)

	// Аналог внезапного закрытия страницы
	cancel()
	time.Sleep(30 * time.Millisecond)

	seen := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, seen, ticks.Load())

	// Stop после отмены контекста не виснет
	p.Stop()
}

func TestPoller_KickForcesImmediateTick(t *testing.T) {
	var ticks atomic.Int64

	p := NewPoller(10*time.Second, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, discardLogger())

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	waitTicks(t, &ticks, 1)

	p.Kick()
	waitTicks(t, &ticks, 2)
}

func TestPoller_KickOnStoppedIsNoop(t *testing.T) {
	p := NewPoller(10*time.Millisecond, func(context.Context) error { return nil }, discardLogger())

	// Не должен паниковать и не должен ничего запускать
	p.Kick()
	assert.False(t, p.Running())
}
