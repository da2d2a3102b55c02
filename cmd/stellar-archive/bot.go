package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iamvkosarev/stellar-archive/internal/app"
	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram storefront",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.Run(ctx, cfg, log); err != nil {
			return err
		}
		log.Info("storefront stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
