package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"bot_panel/internal/bots"
	"bot_panel/internal/models"
	"bot_panel/internal/render"

	"github.com/spf13/cobra"
)

var (
	flagBotName  string
	flagPair     string
	flagStrategy string
	flagKeyID    int
	flagLeverage int
	flagDeposit  float64
	flagTP       float64
	flagSL       float64
	flagTail     int

	// Индикаторы фиксированы: RSI первым, CCI вторым
	flagRSITimeframe string
	flagRSIPeriod    int
	flagRSIThreshold float64
	flagRSIDirection string
	flagCCITimeframe string
	flagCCIPeriod    int
	flagCCIThreshold float64
	flagCCIDirection string
)

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "Жизненный цикл ботов: создание, запуск, остановка, логи",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// printRoster загружает и печатает актуальный ростер
func printRoster(ctx context.Context) error {
	roster, err := app.Bots.List(ctx)
	if err != nil {
		app.Notifier.Error(humanError(err, "Не удалось загрузить список ботов"))
		return err
	}

	fmt.Print(render.Roster(roster))

	return nil
}

// afterActionRefresh печатает обновленный ростер после успешного
// действия; сбой самого обновления не считается ошибкой действия
func afterActionRefresh(ctx context.Context) {
	if err := printRoster(ctx); err != nil {
		app.Logger.Warn("Roster refresh after action failed")
	}
}

var botsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать ростер ботов",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		return printRoster(cmd.Context())
	},
}

var botsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать бота и сразу запустить его",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		cfg := models.BotConfig{
			APIKeyID:          flagKeyID,
			Name:              flagBotName,
			TradingPair:       flagPair,
			Strategy:          flagStrategy,
			Leverage:          flagLeverage,
			Deposit:           flagDeposit,
			TakeProfitPercent: flagTP,
			StopLossPercent:   flagSL,
			Indicators: []models.Indicator{
				{
					Type:      "RSI",
					Timeframe: flagRSITimeframe,
					Period:    flagRSIPeriod,
					Threshold: flagRSIThreshold,
					Direction: flagRSIDirection,
				},
				{
					Type:      "CCI",
					Timeframe: flagCCITimeframe,
					Period:    flagCCIPeriod,
					Threshold: flagCCIThreshold,
					Direction: flagCCIDirection,
				},
			},
		}

		app.Bots.OnChange = afterActionRefresh

		result := app.Bots.CreateAndStart(cmd.Context(), cfg)
		if result.Outcome == bots.OutcomeCreateFailed {
			return result.Err
		}

		// Частичный сбой уже показан отдельным уведомлением,
		// бот существует на сервере - выходим без ошибки
		return nil
	},
}

var botsStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Запустить бота",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBotAction(cmd, args[0], app.Bots.Start)
	},
}

var botsStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Остановить бота",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBotAction(cmd, args[0], app.Bots.Stop)
	},
}

var botsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить бота (с подтверждением)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runBotAction(cmd, args[0], app.Bots.Delete)
		if errors.Is(err, bots.ErrCanceled) {
			app.Notifier.Info("Удаление отменено")
			return nil
		}

		return err
	},
}

// runBotAction - общий каркас однократных действий над ботом
func runBotAction(cmd *cobra.Command, rawID string, action func(context.Context, int) error) error {
	if _, err := requireSession(); err != nil {
		return err
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("некорректный id бота: %q", rawID)
	}

	app.Bots.OnChange = afterActionRefresh

	return action(cmd.Context(), id)
}

var botsLogsCmd = &cobra.Command{
	Use:   "logs <id>",
	Short: "Показать логи бота",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("некорректный id бота: %q", args[0])
		}

		logs, err := app.Bots.Logs(cmd.Context(), id, flagTail)
		if err != nil {
			return err
		}

		fmt.Println(render.Logs(logs))

		return nil
	},
}

var botsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Показать карточку бота",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("некорректный id бота: %q", args[0])
		}

		bot, err := app.Bots.Get(cmd.Context(), id)
		if err != nil {
			app.Notifier.Error(humanError(err, "Бот не найден"))
			return err
		}

		fmt.Print(render.BotDetail(bot))

		return nil
	},
}

var botsStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Показать статистику ресурсов контейнера",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("некорректный id бота: %q", args[0])
		}

		stats, err := app.Bots.Stats(cmd.Context(), id)
		if err != nil {
			app.Notifier.Error(humanError(err, "Не удалось получить статистику"))
			return err
		}

		fmt.Println(render.Stats(stats))

		return nil
	},
}

func init() {
	f := botsCreateCmd.Flags()
	f.StringVar(&flagBotName, "name", "", "имя бота")
	f.StringVar(&flagPair, "pair", "", "торговая пара, например BTC/USDT:USDT")
	f.StringVar(&flagStrategy, "strategy", "long", "стратегия: long или short")
	f.IntVar(&flagKeyID, "key-id", 0, "id ключа биржи (bot-panel keys list)")
	f.IntVar(&flagLeverage, "leverage", 10, "кредитное плечо")
	f.Float64Var(&flagDeposit, "deposit", 0, "депозит в USDT")
	f.Float64Var(&flagTP, "take-profit", 2, "take profit, %")
	f.Float64Var(&flagSL, "stop-loss", 1, "stop loss, %")

	f.StringVar(&flagRSITimeframe, "rsi-timeframe", "5m", "таймфрейм RSI")
	f.IntVar(&flagRSIPeriod, "rsi-period", 14, "период RSI")
	f.Float64Var(&flagRSIThreshold, "rsi-threshold", 30, "порог RSI")
	f.StringVar(&flagRSIDirection, "rsi-direction", "below", "направление RSI: above или below")
	f.StringVar(&flagCCITimeframe, "cci-timeframe", "5m", "таймфрейм CCI")
	f.IntVar(&flagCCIPeriod, "cci-period", 20, "период CCI")
	f.Float64Var(&flagCCIThreshold, "cci-threshold", -100, "порог CCI")
	f.StringVar(&flagCCIDirection, "cci-direction", "below", "направление CCI: above или below")

	botsCreateCmd.MarkFlagRequired("name")
	botsCreateCmd.MarkFlagRequired("pair")
	botsCreateCmd.MarkFlagRequired("key-id")
	botsCreateCmd.MarkFlagRequired("deposit")

	botsLogsCmd.Flags().IntVar(&flagTail, "tail", 50, "сколько последних строк показать (максимум 500)")

	botsCmd.AddCommand(botsListCmd)
	botsCmd.AddCommand(botsCreateCmd)
	botsCmd.AddCommand(botsStartCmd)
	botsCmd.AddCommand(botsStopCmd)
	botsCmd.AddCommand(botsDeleteCmd)
	botsCmd.AddCommand(botsLogsCmd)
	botsCmd.AddCommand(botsShowCmd)
	botsCmd.AddCommand(botsStatsCmd)
}
