package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bot_panel/internal/session"
)

// runCommand выполняет команду in-process и возвращает stderr и ошибку
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stderr bytes.Buffer

	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := Execute()

	return stderr.String(), err
}

// isolateEnv уводит сессию и лог-файл во временный каталог теста
func isolateEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("BOTPANEL_SESSION_PATH", filepath.Join(dir, "session.db"))
	t.Setenv("BOTPANEL_LOG_FILE", filepath.Join(dir, "panel.log"))

	return dir
}

func TestExecute_NoSessionErrorIsPrinted(t *testing.T) {
	isolateEnv(t)

	stderr, err := runCommand(t, "bots", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "требуется вход")
	assert.Contains(t, stderr, "требуется вход", "ошибка команды не должна пропадать молча")
}

func TestExecute_InvalidBotIDErrorIsPrinted(t *testing.T) {
	dir := isolateEnv(t)

	// Сессия нужна, чтобы команда дошла до разбора id
	store, err := session.Open(filepath.Join(dir, "session.db"),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, store.Save(session.Session{UserID: 7, Email: "u@example.com", Name: "U"}))
	require.NoError(t, store.Close())

	stderr, err := runCommand(t, "bots", "start", "abc")

	require.Error(t, err)
	assert.Contains(t, stderr, "некорректный id бота")
}

func TestExecute_LogFilePathComesFromConfig(t *testing.T) {
	dir := isolateEnv(t)

	runCommand(t, "bots", "list")

	_, err := os.Stat(filepath.Join(dir, "panel.log"))
	assert.NoError(t, err, "лог-файл открывается по пути из конфига")
}

func TestExecute_EnvFileControlsLogPath(t *testing.T) {
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	// godotenv проставляет переменные в окружение процесса
	t.Cleanup(func() {
		os.Unsetenv("BOTPANEL_LOG_FILE")
		os.Unsetenv("BOTPANEL_SESSION_PATH")
	})

	logPath := filepath.Join(dir, "from-dotenv.log")
	envContent := "BOTPANEL_LOG_FILE=" + logPath + "\n" +
		"BOTPANEL_SESSION_PATH=" + filepath.Join(dir, "session.db") + "\n"
	require.NoError(t, os.WriteFile(".env", []byte(envContent), 0o600))

	runCommand(t, "bots", "list")

	_, err = os.Stat(logPath)
	assert.NoError(t, err, "путь лог-файла из .env учитывается")
}

func TestExecute_ReleasesResourcesOnFailure(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, "bots", "list")
	require.Error(t, err)
	require.NotNil(t, app)

	// Execute закрывает ресурсы и при ошибке команды
	assert.Error(t, app.Sessions.Save(session.Session{UserID: 1}))

	_, werr := app.logFile.Write([]byte("x"))
	assert.Error(t, werr)
}
