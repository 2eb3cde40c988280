package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bot_panel/internal/bots"
	"bot_panel/internal/models"
	"bot_panel/internal/render"

	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Живой экран управления: ростер обновляется каждые 5 секунд",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		return runConsole(cmd.Context())
	},
}

// runConsole держит экран ростера открытым до Ctrl-C. Таймер
// обновления создается один раз и гарантированно освобождается на
// любом пути выхода, включая сигнал завершения.
func runConsole(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := bots.NewPoller(app.Cfg.RefreshInterval, func(ctx context.Context) error {
		roster, err := app.Bots.List(ctx)
		if err != nil {
			return err
		}

		redraw(roster)

		return nil
	}, app.Logger)

	// Действия из других терминалов подтянутся очередным тиком;
	// Kick нужен, если действие выполнено этим же процессом
	app.Bots.OnChange = func(context.Context) {
		poller.Kick()
	}

	if err := poller.Start(ctx); err != nil {
		return err
	}
	defer poller.Stop()

	fmt.Println("Экран управления ботами. Выход: Ctrl-C")

	<-ctx.Done()

	poller.Stop()
	fmt.Println("\nЭкран закрыт")

	return nil
}

// redraw полностью заменяет содержимое экрана свежим ростером.
// Перерисовка, а не дописывание: строки не накапливаются.
func redraw(roster []models.Bot) {
	// ANSI: очистить экран и вернуть курсор в левый верхний угол
	fmt.Print("\033[2J\033[H")
	fmt.Println("Экран управления ботами. Выход: Ctrl-C")
	fmt.Println()
	fmt.Print(render.Roster(roster))
}
