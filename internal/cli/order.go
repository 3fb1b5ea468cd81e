package cli

import (
	"time"

	"github.com/spf13/cobra"

	"tradevision/internal/models"
)

// addOrderCommands adds live-order queue commands.
func addOrderCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Live order queue",
		Long: `Queue orders ahead of execution. Executing an order converts it into a
trade; when execution fails the order stays queued for a retry.`,
	}

	cmd.AddCommand(newOrderListCmd(app))
	cmd.AddCommand(newOrderPlaceCmd(app))
	cmd.AddCommand(newOrderExecuteCmd(app))
	cmd.AddCommand(newOrderCancelCmd(app))

	rootCmd.AddCommand(cmd)
}

func newOrderListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			orders := app.Ledger.Orders(mode)
			if output.IsJSON() {
				return output.JSON(orders)
			}
			if len(orders) == 0 {
				output.Info("No pending orders.")
				return nil
			}

			table := NewTable(output, "ID", "Symbol", "Side", "Qty", "Price", "Placed")
			for _, o := range orders {
				table.AddRow(
					TruncateString(o.ID, 12),
					o.Symbol,
					string(o.PositionType),
					FormatQuantity(o.Quantity),
					FormatPrice(o.Price),
					FormatDateTime(o.PlacedAt),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newOrderPlaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place <symbol>",
		Short: "Queue a new order",
		Example: `  tradevision order place NIFTY --side Long --qty 50 --price 22450
  tradevision order place BANKNIFTY --side Short --qty 25 --price 48100 --mode both`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			side, _ := cmd.Flags().GetString("side")
			qty, _ := cmd.Flags().GetInt("qty")
			price, _ := cmd.Flags().GetFloat64("price")
			strategy, _ := cmd.Flags().GetString("strategy")

			modeFlag, _ := cmd.Flags().GetString("mode")
			if modeFlag == "" {
				modeFlag = app.Config.Trading.DefaultMode
			}

			o := models.LiveOrder{
				Symbol:        args[0],
				PositionType:  models.PositionType(side),
				Quantity:      qty,
				Price:         price,
				ExecutionMode: models.ExecutionMode(modeFlag),
				StrategyID:    strategy,
			}

			id, err := app.Ledger.PlaceOrder(o)
			if err != nil {
				output.Error("Failed to place order: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Queued %s %s order %s @ %s", side, args[0], id, FormatPrice(price))
			return nil
		},
	}

	cmd.Flags().String("side", string(models.PositionLong), "Position side (Long, Short)")
	cmd.Flags().Int("qty", 1, "Quantity")
	cmd.Flags().Float64("price", 0, "Limit price")
	cmd.Flags().String("strategy", "", "Strategy / flow id")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newOrderExecuteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <order-id>",
		Short: "Execute a pending order into a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			tradeID, err := app.Ledger.ExecuteOrder(mode, args[0], time.Now())
			if err != nil {
				output.Error("Failed to execute order, it remains queued: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"tradeId": tradeID})
			}
			output.Success("Executed order %s as trade %s", args[0], tradeID)
			return nil
		},
	}
}

func newOrderCancelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			reason, _ := cmd.Flags().GetString("reason")
			price, _ := cmd.Flags().GetFloat64("price-at-time")

			if err := app.Ledger.CancelOrder(mode, args[0], reason, price); err != nil {
				output.Error("Failed to cancel order: %v", err)
				return err
			}
			output.Success("Cancelled order %s", args[0])
			return nil
		},
	}

	cmd.Flags().String("reason", "", "Cancellation reason")
	cmd.Flags().Float64("price-at-time", 0, "Market price at the time of cancellation")

	return cmd
}
