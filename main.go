// Программа запускает Telegram-бота с анкетой Business Operations Survey
// и каналы доставки отправленных анкет.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootCmd создает корневую команду: запуск бота
func rootCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:           "surveybot",
		Short:         "Telegram bot for the Business Operations Survey",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadEnv(envFile)
			return run(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "путь к YAML-файлу конфигурации")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "путь к .env файлу")

	cmd.AddCommand(previewCmd())
	return cmd
}
