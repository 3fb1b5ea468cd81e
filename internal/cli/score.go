package cli

import (
	"github.com/spf13/cobra"

	"tradevision/internal/scoring"
	"tradevision/internal/store"
)

// addScoreCommands adds day-report and scoring commands.
func addScoreCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Execution scoring and day reports",
		Long: `Score real execution against the theoretical plan: P&L divergence,
completion percentage, real/theoretical alignment and the cumulative
psychology score.`,
	}

	cmd.AddCommand(newScoreDayCmd(app))
	cmd.AddCommand(newScoreCurveCmd(app))

	rootCmd.AddCommand(cmd)
}

func newScoreDayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "Show the day report",
		Example: `  tradevision score day
  tradevision score day 2025-06-02`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			dateKey, err := ParseDateKey(argOrEmpty(args))
			if err != nil {
				return err
			}

			var stats scoring.DayStats
			app.Store.View(func(state *store.State) {
				stats = scoring.DayStatsFor(state, mode, dateKey, app.Config.Scoring.EntryMissPenalty)
			})

			if output.IsJSON() {
				return output.JSON(stats)
			}

			output.Bold("Day Report - %s (%s)", dateKey, mode)
			output.Println()

			output.Bold("Ledger Totals")
			output.Printf("  Closed Trades:    %d\n", stats.Trades)
			output.Printf("  Real P&L:         %s\n", output.FormatPnL(stats.RealPnL))
			output.Printf("  Theoretical P&L:  %s\n", output.FormatPnL(stats.TheoreticalPnL))
			output.Printf("  Divergence:       %s\n", output.FormatPnL(stats.Divergence))
			output.Printf("  Completion:       %s\n", scoring.FormatCompletion(stats.Completion))
			output.Println()

			if len(stats.Alignments) > 0 {
				output.Bold("Alignment")
				for alignment, count := range stats.Alignments {
					output.Printf("  %-26s %d\n", string(alignment), count)
				}
				output.Println()
			}

			if len(stats.Rules) > 0 {
				output.Bold("Discipline")
				for status, count := range stats.Rules {
					output.Printf("  %-26s %d\n", string(status), count)
				}
				output.Println()
			}

			output.Bold("Psychology Score")
			score := output.Green(FormatQuantity(stats.FinalScore))
			if stats.FinalScore < 0 {
				score = output.Red(FormatQuantity(stats.FinalScore))
			}
			output.Printf("  Final Score: %s\n", score)
			return nil
		},
	}
}

func newScoreCurveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve [date]",
		Short: "Show the day's psychology score series",
		Long:  "Show the cumulative psychology score per closed trade, as points or candlesticks.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			dateKey, err := ParseDateKey(argOrEmpty(args))
			if err != nil {
				return err
			}
			candles, _ := cmd.Flags().GetBool("candles")
			penalty := app.Config.Scoring.EntryMissPenalty

			var stats scoring.DayStats
			app.Store.View(func(state *store.State) {
				stats = scoring.DayStatsFor(state, mode, dateKey, penalty)
			})

			if candles {
				if output.IsJSON() {
					return output.JSON(stats.Candles)
				}
				if len(stats.Candles) == 0 {
					output.Info("No closed trades on %s.", dateKey)
					return nil
				}
				table := NewTable(output, "Time", "Open", "High", "Low", "Close")
				for _, c := range stats.Candles {
					table.AddRow(
						FormatTime(c.Time),
						FormatQuantity(c.Open),
						FormatQuantity(c.High),
						FormatQuantity(c.Low),
						FormatQuantity(c.Close),
					)
				}
				table.Render()
				return nil
			}

			if output.IsJSON() {
				return output.JSON(stats.Curve)
			}
			if len(stats.Curve) == 0 {
				output.Info("No closed trades on %s.", dateKey)
				return nil
			}
			for _, p := range stats.Curve {
				output.Printf("  %s  %+d\n", FormatTime(p.Time), p.Score)
			}
			return nil
		},
	}

	cmd.Flags().Bool("candles", false, "Render the series as score candlesticks")
	return cmd
}
