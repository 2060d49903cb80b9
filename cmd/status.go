package cmd

import (
	"fmt"

	"feedwatch/internal/ai"

	"github.com/spf13/cobra"
)

// statusCmd checks the scoring service credential and prints its usage.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show OpenRouter key usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.RequireOpenRouterKey(); err != nil {
			return err
		}
		client := ai.New(ai.Config{
			APIKey:  cfg.OpenRouter.APIKey,
			BaseURL: cfg.OpenRouter.BaseURL,
			Model:   cfg.OpenRouter.Model,
		})
		st, err := client.Status(cmd.Context())
		if err != nil {
			return err
		}
		if st.Label != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Key: %s\n", st.Label)
		}
		if st.Limit != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Usage: %.4f / %.2f\n", st.Usage, *st.Limit)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Usage: %.4f (no limit)\n", st.Usage)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
