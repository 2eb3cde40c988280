package render

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"bot_panel/internal/models"

	"github.com/fatih/color"
)

// Действия, доступные из строки ростера
const (
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionLogs   = "logs"
	ActionDelete = "delete"
)

// PlaceholderEmpty показывается вместо пустой таблицы
const PlaceholderEmpty = "Ботов пока нет. Создайте первого: bot-panel bots create"

// PlaceholderNoLogs показывается вместо пустого вывода логов
const PlaceholderNoLogs = "Логи пусты"

// Row - строка отображения ростера. Placeholder-строка не несет
// действий, привязанных к реальному id.
type Row struct {
	ID          int
	Name        string
	TradingPair string
	Strategy    string
	Status      string
	Actions     []string
	Placeholder bool
}

// RosterRows - чистое отображение ростера в строки таблицы.
// Детерминировано: дважды от одного входа дает одинаковый результат,
// пустая коллекция дает ровно одну placeholder-строку.
func RosterRows(bots []models.Bot) []Row {
	if len(bots) == 0 {
		return []Row{{
			Name:        PlaceholderEmpty,
			Placeholder: true,
		}}
	}

	rows := make([]Row, 0, len(bots))

	for _, b := range bots {
		rows = append(rows, Row{
			ID:          b.ID,
			Name:        b.Name,
			TradingPair: b.TradingPair,
			Strategy:    b.Strategy,
			Status:      b.Status,
			Actions:     rowActions(b),
		})
	}

	return rows
}

// rowActions выводит набор действий только из статуса:
// running показывает stop, любой другой статус - start.
// Логи и удаление доступны всегда.
func rowActions(b models.Bot) []string {
	toggle := ActionStart
	if b.IsRunning() {
		toggle = ActionStop
	}

	return []string{toggle, ActionLogs, ActionDelete}
}

// Roster рендерит ростер в готовый текст таблицы. Вывод полностью
// заменяет предыдущий: вызывающий код перерисовывает экран, а не
// дописывает строки.
func Roster(bots []models.Bot) string {
	var sb strings.Builder

	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tИМЯ\tПАРА\tСТРАТЕГИЯ\tСТАТУС\tДЕЙСТВИЯ")

	for _, row := range RosterRows(bots) {
		if row.Placeholder {
			fmt.Fprintf(w, "-\t%s\t\t\t\t\n", row.Name)
			continue
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			row.ID,
			row.Name,
			row.TradingPair,
			row.Strategy,
			statusLabel(row.Status),
			strings.Join(row.Actions, " "))
	}

	w.Flush()

	return sb.String()
}

// statusLabel красит статус: зеленый для running, желтый для остального
func statusLabel(status string) string {
	if status == models.StatusRunning {
		return color.GreenString(status)
	}

	return color.YellowString(status)
}

// Logs рендерит вывод логов. Пустые логи - это явный placeholder,
// а не пустой экран.
func Logs(logs *models.BotLogs) string {
	if logs == nil || strings.TrimSpace(logs.Logs) == "" {
		return PlaceholderNoLogs
	}

	return logs.Logs
}

// Credentials рендерит список ключей биржи
func Credentials(keys []models.Credential) string {
	if len(keys) == 0 {
		return "Ключи не добавлены. Добавьте первый: bot-panel keys add"
	}

	var sb strings.Builder

	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tНАЗВАНИЕ\tБИРЖА")

	for _, k := range keys {
		fmt.Fprintf(w, "%d\t%s\t%s\n", k.ID, k.Nickname, k.ExchangeOrDefault())
	}

	w.Flush()

	return sb.String()
}

// BotDetail рендерит карточку бота с индикаторами
func BotDetail(bot *models.Bot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Бот #%d «%s»\n", bot.ID, bot.Name)
	fmt.Fprintf(&sb, "  Пара:        %s\n", bot.TradingPair)
	fmt.Fprintf(&sb, "  Стратегия:   %s\n", bot.Strategy)
	fmt.Fprintf(&sb, "  Плечо:       x%d\n", bot.Leverage)
	fmt.Fprintf(&sb, "  Депозит:     %.2f\n", bot.Deposit)
	fmt.Fprintf(&sb, "  Take Profit: %.2f%%\n", bot.TakeProfitPercent)
	fmt.Fprintf(&sb, "  Stop Loss:   %.2f%%\n", bot.StopLossPercent)
	fmt.Fprintf(&sb, "  Статус:      %s\n", statusLabel(bot.Status))

	for _, ind := range bot.Indicators {
		fmt.Fprintf(&sb, "  Индикатор:   %s(%d) %s %s %.1f\n",
			ind.Type, ind.Period, ind.Timeframe, ind.Direction, ind.Threshold)
	}

	return sb.String()
}

// Stats рендерит статистику ресурсов контейнера
func Stats(stats *models.BotStats) string {
	return fmt.Sprintf("Бот #%d: CPU %.1f%%, память %.1f/%.1f МБ",
		stats.BotID, stats.CPUPercent, stats.MemoryUsageMB, stats.MemoryLimitMB)
}
