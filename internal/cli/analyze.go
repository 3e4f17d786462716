package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"coinsage/config"
	"coinsage/internal/debug"
	"coinsage/internal/display"
	"coinsage/internal/graph"
	"coinsage/internal/models"
	"coinsage/internal/storage"
)

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	var (
		date    string
		profile string
		horizon string
		noSave  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [COIN]",
		Short: "Run the full analysis pipeline for a cryptocurrency",
		Long: `Run the six-stage analysis pipeline for a coin.
Example: coinsage analyze bitcoin --profile=new_buyer --horizon=short_term`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParseTraderProfile(profile)
			if err != nil {
				return err
			}
			h, err := models.ParseHorizon(horizon)
			if err != nil {
				return err
			}
			return runAnalysis(cmd.Context(), cfg, graph.Request{
				Coin:          args[0],
				TradeDate:     date,
				TraderProfile: p,
				Horizon:       h,
			}, !noSave)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Analysis date in YYYY-MM-DD format (today if not provided)")
	cmd.Flags().StringVar(&profile, "profile", "new_buyer", "Trader profile: new_buyer or existing_holder")
	cmd.Flags().StringVar(&horizon, "horizon", "medium_term", "Horizon: short_term, medium_term, or long_term")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip writing report files and history")

	return cmd
}

// runAnalysis validates config, builds the pipeline, and renders the result.
func runAnalysis(ctx context.Context, cfg *config.Config, req graph.Request, save bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := debug.NewEinoDebugger(cfg).Initialize(); err != nil {
		// The debug server is a convenience, never a blocker.
		log.Printf("[CLI] eino debug server unavailable: %v", err)
	}

	pipeline, err := graph.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	var store *storage.Store
	if save {
		store, err = storage.Open(cfg.HistoryDBPath)
		if err != nil {
			log.Printf("[CLI] history store unavailable: %v", err)
		} else {
			defer store.Close()
			pipeline.WithStore(store)
		}
	}

	result, err := pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	display.RenderResult(result)

	if save {
		if err := display.SaveReports(cfg.ResultsDir, result); err != nil {
			return fmt.Errorf("save reports: %w", err)
		}
	}
	return nil
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}
			display.RenderHistory(entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to show")
	return cmd
}
