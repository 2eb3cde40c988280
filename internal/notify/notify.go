package notify

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Notifier - приемник одноразовых сообщений пользователю.
// Fire-and-forget: подтверждения нет, ошибки вывода игнорируются.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warn(msg string)
	Info(msg string)
}

// Terminal печатает уведомления цветными строками
type Terminal struct {
	out io.Writer
}

// NewTerminal создает терминальный приемник уведомлений
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Success(msg string) {
	fmt.Fprintln(t.out, color.GreenString("✅ %s", msg))
}

func (t *Terminal) Error(msg string) {
	fmt.Fprintln(t.out, color.RedString("❌ %s", msg))
}

func (t *Terminal) Warn(msg string) {
	fmt.Fprintln(t.out, color.YellowString("⚠️  %s", msg))
}

func (t *Terminal) Info(msg string) {
	fmt.Fprintln(t.out, color.CyanString("ℹ️  %s", msg))
}
