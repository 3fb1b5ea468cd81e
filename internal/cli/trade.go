package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/models"
	"tradevision/internal/performance"
)

// addTradeCommands adds trade ledger commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade ledger management",
		Long: `Record and review trades.

Trades entered in both mode are written to the real and theoretical
ledgers under one id, so the two legs can later be scored against each
other.`,
	}

	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeCloseCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))
	cmd.AddCommand(newTradeLabelCmd(app))
	cmd.AddCommand(newTradeLogCmd(app))
	cmd.AddCommand(newTradePullbacksCmd(app))
	cmd.AddCommand(newTradeStatsCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trades in the selected mode's ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			trades := app.Ledger.Trades(mode)
			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades recorded.")
				return nil
			}

			table := NewTable(output, "ID", "Symbol", "Side", "Qty", "Entry", "Exit", "P&L", "Outcome")
			for _, t := range trades {
				table.AddRow(
					TruncateString(t.ID, 12),
					t.Symbol,
					string(t.PositionType),
					FormatQuantity(t.Quantity),
					FormatPrice(t.EntryPrice),
					FormatOptionalPrice(t.ExitPrice),
					output.FormatPnL(t.RealizedPnL()),
					string(t.Outcome),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show one trade in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			t, err := app.Ledger.Trade(args[0], mode)
			if err != nil {
				output.Error("Trade not found: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(t)
			}

			output.Bold("Trade %s", t.ID)
			output.Printf("  Symbol:     %s\n", t.Symbol)
			output.Printf("  Side:       %s x%d\n", t.PositionType, t.Quantity)
			output.Printf("  Mode:       %s\n", t.ExecutionMode)
			output.Printf("  Entry:      %s @ %s\n", FormatDateTime(t.EntryTime), FormatPrice(t.EntryPrice))
			if t.Closed() {
				output.Printf("  Exit:       %s @ %s\n", FormatOptionalTime(t.ExitTime), FormatOptionalPrice(t.ExitPrice))
				output.Printf("  P&L:        %s\n", output.FormatPnL(t.RealizedPnL()))
				output.Printf("  Outcome:    %s\n", t.Outcome)
			} else {
				output.Printf("  Status:     %s\n", output.ColoredString(ColorYellow, "OPEN"))
			}
			if t.RulesFollowed != "" {
				output.Printf("  Rules:      %s\n", t.RulesFollowed)
			}
			if len(t.TechnicalErrorIDs) > 0 {
				output.Printf("  Tech errors: %s\n", FormatIDList(t.TechnicalErrorIDs))
			}
			if len(t.EmotionIDs) > 0 {
				output.Printf("  Emotions:   %s\n", FormatIDList(t.EmotionIDs))
			}
			if len(t.Log) > 0 {
				output.Println()
				output.Bold("Log")
				for _, e := range t.Log {
					output.Printf("  %s  %s\n", FormatDateTime(e.Timestamp), e.Note)
				}
			}
			return nil
		},
	}
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Record a new trade entry",
		Example: `  tradevision trade add NIFTY --side Long --qty 50 --price 22450.50
  tradevision trade add BANKNIFTY --side Short --qty 25 --price 48100 --mode both`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			side, _ := cmd.Flags().GetString("side")
			qty, _ := cmd.Flags().GetInt("qty")
			price, _ := cmd.Flags().GetFloat64("price")
			strategy, _ := cmd.Flags().GetString("strategy")
			entryFormula, _ := cmd.Flags().GetString("entry-formula")

			modeFlag, _ := cmd.Flags().GetString("mode")
			if modeFlag == "" {
				modeFlag = app.Config.Trading.DefaultMode
			}
			mode := models.ExecutionMode(modeFlag)
			if !mode.Valid() {
				output.Error("Invalid mode %q (want real, theoretical or both)", modeFlag)
				return apperrors.ErrInvalidMode
			}

			t := models.Trade{
				Symbol:         args[0],
				PositionType:   models.PositionType(side),
				Quantity:       qty,
				EntryTime:      time.Now(),
				EntryPrice:     price,
				ExecutionMode:  mode,
				StrategyID:     strategy,
				EntryFormulaID: entryFormula,
			}

			id, err := app.Ledger.AddTrade(t)
			if err != nil {
				output.Error("Failed to add trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Recorded %s %s trade %s", side, args[0], id)
			return nil
		},
	}

	cmd.Flags().String("side", string(models.PositionLong), "Position side (Long, Short)")
	cmd.Flags().Int("qty", 1, "Quantity")
	cmd.Flags().Float64("price", 0, "Entry price")
	cmd.Flags().String("strategy", "", "Strategy / flow id")
	cmd.Flags().String("entry-formula", "", "Entry formula id")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newTradeCloseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <trade-id> <exit-price>",
		Short: "Close a trade",
		Long: `Close a trade at the given exit price. Every ledger leg of the trade
closes identically; the close mode records which ledger the exit was
actually executed in.`,
		Example: `  tradevision trade close <id> 22510.25
  tradevision trade close <id> 22510.25 --close-mode theoretical --rules "RULES FOLLOW"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			price, err := ParsePrice(args[1])
			if err != nil {
				return err
			}
			closeModeFlag, _ := cmd.Flags().GetString("close-mode")
			rules, _ := cmd.Flags().GetString("rules")

			err = app.Ledger.CloseTrade(args[0], time.Now(), price,
				models.CloseMode(closeModeFlag), models.RulesFollowedStatus(rules))
			if err != nil {
				output.Error("Failed to close trade: %v", err)
				return err
			}

			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			t, err := app.Ledger.Trade(args[0], mode)
			if err == nil {
				if output.IsJSON() {
					return output.JSON(t)
				}
				output.Success("Closed trade %s: %s (%s)", t.ID, output.FormatPnL(t.RealizedPnL()), t.Outcome)
				return nil
			}

			output.Success("Closed trade %s", args[0])
			return nil
		},
	}

	cmd.Flags().String("close-mode", string(models.CloseBoth), "Ledger the exit executed in (real, theoretical, both)")
	cmd.Flags().String("rules", "", "Rules-followed status for the trade")

	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade from the selected mode's ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Ledger.DeleteTrade(args[0], mode); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}
			output.Success("Deleted trade %s from %s ledger", args[0], mode)
			return nil
		},
	}
}

func newTradeLabelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label <trade-id>",
		Short: "Label a trade with its psychology review",
		Example: `  tradevision trade label <id> --rules "PARTIALLY FOLLOW" \
    --tech-error <rule-id> --emotion <rule-id>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			rules, _ := cmd.Flags().GetString("rules")
			techIDs, _ := cmd.Flags().GetStringSlice("tech-error")
			emotionIDs, _ := cmd.Flags().GetStringSlice("emotion")

			err := app.Ledger.LabelTrade(args[0], models.RulesFollowedStatus(rules), techIDs, emotionIDs)
			if err != nil {
				output.Error("Failed to label trade: %v", err)
				return err
			}
			output.Success("Labeled trade %s", args[0])
			return nil
		},
	}

	cmd.Flags().String("rules", "", "Rules-followed status")
	cmd.Flags().StringSlice("tech-error", nil, "Technical-error rule ids")
	cmd.Flags().StringSlice("emotion", nil, "Emotion rule ids")

	return cmd
}

func newTradeLogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "log <trade-id> <note>",
		Short: "Append a note to a trade's log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if err := app.Ledger.AppendLog(args[0], time.Now(), args[1]); err != nil {
				output.Error("Failed to append log: %v", err)
				return err
			}
			output.Success("Logged note on trade %s", args[0])
			return nil
		},
	}
}

func newTradePullbacksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pullbacks <trade-id>",
		Short: "Suggest pullback follow-ups after a closed trade",
		Long: `Match the day's logical edge flows and, for each match, emit the
follow-up branch selected by the trade's outcome as a pending pullback
order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if dismiss, _ := cmd.Flags().GetString("dismiss"); dismiss != "" {
				if err := app.Flows.DismissPullback(mode, dismiss); err != nil {
					output.Error("Failed to dismiss pullback: %v", err)
					return err
				}
				output.Success("Dismissed pullback %s", dismiss)
				return nil
			}

			t, err := app.Ledger.Trade(args[0], mode)
			if err != nil {
				output.Error("Trade not found: %v", err)
				return err
			}
			dateKey := t.EntryTime.Format(models.DateKeyLayout)

			pullbacks, err := app.Flows.SuggestPullbacks(mode, dateKey, t, time.Now())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(pullbacks)
			}
			if len(pullbacks) == 0 {
				output.Info("No pullback follow-ups suggested.")
				return nil
			}
			for _, p := range pullbacks {
				output.Warning("PULLBACK %s: edges %s break %s", p.ID, FormatIDList(p.EdgeIDs), p.BreakTime)
			}
			return nil
		},
	}

	cmd.Flags().String("dismiss", "", "Dismiss the pending pullback with this id instead of suggesting")
	return cmd
}

func newTradeStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize closed-trade performance",
		Long: `Summarize the closed trades of both ledgers side by side: win rate,
profit factor, average win and loss, and the gap between theoretical
and real P&L.`,
		Example: `  tradevision trade stats
  tradevision trade stats --by-symbol`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			bySymbol, _ := cmd.Flags().GetBool("by-symbol")

			real := app.Ledger.Trades(models.ModeReal)
			theoretical := app.Ledger.Trades(models.ModeTheoretical)
			comparison := performance.Compare(real, theoretical)

			if output.IsJSON() {
				if bySymbol {
					return output.JSON(map[string]interface{}{
						"comparison":  comparison,
						"real":        performance.BySymbol(real),
						"theoretical": performance.BySymbol(theoretical),
					})
				}
				return output.JSON(comparison)
			}

			output.Bold("Ledger Performance")
			table := NewTable(output, "Metric", "Real", "Theoretical")
			table.AddRow("Closed trades",
				FormatQuantity(comparison.Real.TotalTrades),
				FormatQuantity(comparison.Theoretical.TotalTrades))
			table.AddRow("Open trades",
				FormatQuantity(comparison.Real.OpenTrades),
				FormatQuantity(comparison.Theoretical.OpenTrades))
			table.AddRow("Win rate",
				fmt.Sprintf("%.1f%%", comparison.Real.WinRate),
				fmt.Sprintf("%.1f%%", comparison.Theoretical.WinRate))
			table.AddRow("Profit factor",
				fmt.Sprintf("%.2f", comparison.Real.ProfitFactor),
				fmt.Sprintf("%.2f", comparison.Theoretical.ProfitFactor))
			table.AddRow("Avg win",
				FormatPrice(comparison.Real.AvgWin),
				FormatPrice(comparison.Theoretical.AvgWin))
			table.AddRow("Avg loss",
				FormatPrice(comparison.Real.AvgLoss),
				FormatPrice(comparison.Theoretical.AvgLoss))
			table.AddRow("Total P&L",
				output.FormatPnL(comparison.Real.TotalPnL),
				output.FormatPnL(comparison.Theoretical.TotalPnL))
			table.Render()

			output.Println()
			if comparison.PnLGap > 0 {
				output.Warning("Theoretical ledger leads by %s", FormatPrice(comparison.PnLGap))
			} else if comparison.PnLGap < 0 {
				output.Success("Real ledger leads by %s", FormatPrice(-comparison.PnLGap))
			} else {
				output.Info("Ledgers are even.")
			}

			if bySymbol {
				output.Println()
				output.Bold("Real ledger by symbol")
				symbolTable := NewTable(output, "Symbol", "Trades", "P&L")
				for _, b := range performance.BySymbol(real) {
					symbolTable.AddRow(b.Symbol, FormatQuantity(b.Trades), output.FormatPnL(b.PnL))
				}
				symbolTable.Render()
			}
			return nil
		},
	}

	cmd.Flags().Bool("by-symbol", false, "Break results down per symbol")
	return cmd
}
