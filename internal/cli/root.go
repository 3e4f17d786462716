// Package cli wires the cobra command tree: an interactive default mode,
// a one-shot analyze command, and a history browser.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"coinsage/config"
)

const version = "1.0.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "coinsage",
		Short: "CoinSage - AI-Powered Crypto Advisory",
		Long: `CoinSage is a multi-stage crypto analysis pipeline powered by Large Language Models.
It combines fundamentals, news, social sentiment, and technical indicators into a
risk-adjusted Buy/Hold/Sell recommendation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug mode")

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("CoinSage v%s\n", version)
			fmt.Println("AI-Powered Crypto Advisory Pipeline")
		},
	}
}
