package main

import (
	"fmt"
	"strings"

	"github.com/iamvkosarev/stellar-archive/internal/app"
	"github.com/iamvkosarev/stellar-archive/internal/catalog"
	"github.com/iamvkosarev/stellar-archive/internal/usecase"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask the Archive Oracle for a recommendation",
	Long: `Ask the Archive Oracle for a recommendation from the seed catalog.
The oracle needs ORACLE_API_KEY; without it the fallback message is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oracle := app.NewOracle(cfg.Oracle, log)
		reply := oracle.GetRecommendation(cmd.Context(), strings.Join(args, " "), catalog.SeedBooks())
		if strings.TrimSpace(reply) == "" {
			reply = usecase.OracleSilentMessage
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
