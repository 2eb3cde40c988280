package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"bot_panel/internal/apikeys"
	"bot_panel/internal/auth"
	"bot_panel/internal/bots"
	"bot_panel/internal/config"
	"bot_panel/internal/gateway"
	"bot_panel/internal/notify"
	"bot_panel/internal/session"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	assumeYes  bool
	apiURLFlag string
)

// app собирается один раз в PersistentPreRunE и живет до конца команды
var app *App

// App - собранные зависимости клиента
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Sessions *session.Store
	Gateway  *gateway.Client
	Auth     *auth.Client
	Keys     *apikeys.Client
	Bots     *bots.Orchestrator
	Notifier notify.Notifier

	logFile *os.File
}

// Close освобождает ресурсы приложения
func (a *App) Close() {
	if a.Sessions != nil {
		a.Sessions.Close()
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
}

var rootCmd = &cobra.Command{
	Use:           "bot-panel",
	Short:         "Терминальный клиент платформы торговых ботов",
	Long:          "bot-panel управляет торговыми ботами: регистрация, ключи биржи,\nсоздание и запуск ботов, живой просмотр ростера.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// setup собирает зависимости: логгер, конфиг, сессию, шлюз, клиентов.
// Конфиг грузится первым под временным stderr-логгером, чтобы путь
// лог-файла брался из него же (включая .env)
func setup() error {
	cfg, err := config.Load(newBootstrapLogger(verbose))
	if err != nil {
		return err
	}

	logger, logFile, err := newLogger(cfg.LogFile, verbose)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}

	sessions, err := session.Open(cfg.SessionPath, logger)
	if err != nil {
		logFile.Close()
		return fmt.Errorf("open session store: %w", err)
	}

	gw := gateway.New(cfg.APIURL, sessions, cfg.HTTPTimeout, logger)
	notifier := notify.NewTerminal(os.Stdout)
	confirmer := &stdinConfirmer{assumeYes: assumeYes}

	app = &App{
		Cfg:      cfg,
		Logger:   logger,
		Sessions: sessions,
		Gateway:  gw,
		Auth:     auth.New(gw, sessions, logger),
		Keys:     apikeys.New(gw, logger),
		Bots:     bots.New(gw, notifier, confirmer, logger),
		Notifier: notifier,
		logFile:  logFile,
	}

	return nil
}

// stdinConfirmer спрашивает подтверждение в терминале.
// Флаг --yes отвечает "да" за пользователя.
type stdinConfirmer struct {
	assumeYes bool
}

func (c *stdinConfirmer) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}

	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes" || answer == "д" || answer == "да"
}

// requireSession обрывает команду, если пользователь не вошел.
// Аналог редиректа на страницу входа.
func requireSession() (*session.Session, error) {
	sess, err := app.Sessions.Current()
	if err != nil {
		return nil, fmt.Errorf("требуется вход: выполните bot-panel login")
	}

	return sess, nil
}

// humanError выбирает текст для пользователя: транспортный сбой
// показывается одинаково, отказ сервера - его сообщением
func humanError(err error, fallback string) string {
	if gateway.IsConnection(err) {
		return "Ошибка соединения с сервером"
	}

	return gateway.Reason(err, fallback)
}

// Execute запускает CLI. Ресурсы App (сессия, лог-файл)
// освобождаются и при ошибке команды
func Execute() error {
	defer func() {
		if app != nil {
			app.Close()
		}
	}()

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный вывод логов")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "не задавать вопросов, отвечать \"да\"")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "адрес backend'а (перекрывает BOTPANEL_API_URL)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(botsCmd)
	rootCmd.AddCommand(consoleCmd)
}
