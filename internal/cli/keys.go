package cli

import (
	"fmt"
	"strconv"

	"bot_panel/internal/render"

	"github.com/spf13/cobra"
)

var (
	flagNickname  string
	flagAPIKey    string
	flagAPISecret string
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Ключи биржи: список, добавление, удаление",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать сохраненные ключи",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		keys, err := app.Keys.List(cmd.Context())
		if err != nil {
			app.Notifier.Error(humanError(err, "Не удалось загрузить ключи"))
			return err
		}

		fmt.Print(render.Credentials(keys))

		return nil
	},
}

var keysAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить ключ биржи",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		if err := app.Keys.Add(cmd.Context(), flagNickname, flagAPIKey, flagAPISecret); err != nil {
			app.Notifier.Error(humanError(err, "Не удалось добавить ключ"))
			return err
		}

		app.Notifier.Success(fmt.Sprintf("Ключ «%s» добавлен", flagNickname))

		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить ключ по id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("некорректный id ключа: %q", args[0])
		}

		if err := app.Keys.Delete(cmd.Context(), id); err != nil {
			app.Notifier.Error(humanError(err, "Не удалось удалить ключ"))
			return err
		}

		app.Notifier.Success(fmt.Sprintf("Ключ #%d удален", id))

		return nil
	},
}

func init() {
	keysAddCmd.Flags().StringVar(&flagNickname, "nickname", "", "название ключа")
	keysAddCmd.Flags().StringVar(&flagAPIKey, "key", "", "API key")
	keysAddCmd.Flags().StringVar(&flagAPISecret, "secret", "", "API secret")
	keysAddCmd.MarkFlagRequired("nickname")
	keysAddCmd.MarkFlagRequired("key")
	keysAddCmd.MarkFlagRequired("secret")

	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysAddCmd)
	keysCmd.AddCommand(keysDeleteCmd)
}
