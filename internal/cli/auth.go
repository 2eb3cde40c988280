package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
	flagName     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Auth.Register(cmd.Context(), flagEmail, flagPassword, flagName); err != nil {
			app.Notifier.Error(humanError(err, "Регистрация не удалась"))
			return err
		}

		app.Notifier.Success("Регистрация успешна. Теперь выполните bot-panel login")

		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти и сохранить сессию",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := app.Auth.Login(cmd.Context(), flagEmail, flagPassword)
		if err != nil {
			app.Notifier.Error(humanError(err, "Неверный email или пароль"))
			return err
		}

		app.Notifier.Success(fmt.Sprintf("Добро пожаловать, %s!", sess.Name))

		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти и стереть локальную сессию",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Auth.Logout(); err != nil {
			return err
		}

		app.Notifier.Info("Сессия завершена")

		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		user, err := app.Auth.Me(cmd.Context())
		if err != nil {
			app.Notifier.Error(humanError(err, "Не удалось получить данные пользователя"))
			return err
		}

		fmt.Printf("#%d %s <%s>\n", user.ID, user.Name, user.Email)

		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{registerCmd, loginCmd} {
		cmd.Flags().StringVar(&flagEmail, "email", "", "email пользователя")
		cmd.Flags().StringVar(&flagPassword, "password", "", "пароль")
		cmd.MarkFlagRequired("email")
		cmd.MarkFlagRequired("password")
	}

	registerCmd.Flags().StringVar(&flagName, "name", "", "отображаемое имя")
	registerCmd.MarkFlagRequired("name")
}
