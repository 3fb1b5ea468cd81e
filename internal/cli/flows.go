package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/flow"
	"tradevision/internal/models"
)

// addFlowCommands adds trading-flow commands.
func addFlowCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "flows",
		Short: "Trading flow management and matching",
		Long:  "Define trading flows as condition sequences and match them against a day's confirmations.",
	}

	cmd.AddCommand(newFlowsListCmd(app))
	cmd.AddCommand(newFlowsAddCmd(app))
	cmd.AddCommand(newFlowsDeleteCmd(app))
	cmd.AddCommand(newFlowsMatchCmd(app))
	cmd.AddCommand(newFlowsAlertsCmd(app))

	rootCmd.AddCommand(cmd)
}

func newFlowsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trading flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			flows := app.Flows.List(mode)
			if output.IsJSON() {
				return output.JSON(flows)
			}
			if len(flows) == 0 {
				output.Info("No flows defined.")
				return nil
			}

			table := NewTable(output, "ID", "Name", "Conditions", "Trend Edges", "Opposite Edges", "Result")
			for _, f := range flows {
				table.AddRow(
					TruncateString(f.ID, 12),
					TruncateString(f.Name, 24),
					formatConditions(f.Conditions),
					FormatIDList(f.TrendEdgeIDs),
					FormatIDList(f.OppositeEdgeIDs),
					string(f.ResultType),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newFlowsAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a trading flow",
		Long: `Add a trading flow. Conditions are given in order as TYPE=condition-id
pairs; the order defines the sequence the exact matcher compares against.`,
		Example: `  tradevision flows add "Trend IB Break" \
    --condition "DAY TYPE=<id>" --condition "IB BREAK=<id>" \
    --trend-edge <edge-id>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			pairs, _ := cmd.Flags().GetStringArray("condition")
			conditions, err := parseConditionPairs(pairs)
			if err != nil {
				return err
			}
			trendEdges, _ := cmd.Flags().GetStringSlice("trend-edge")
			oppositeEdges, _ := cmd.Flags().GetStringSlice("opposite-edge")
			result, _ := cmd.Flags().GetString("result")

			f := models.TradingFlow{
				Name:            args[0],
				Conditions:      conditions,
				TrendEdgeIDs:    trendEdges,
				OppositeEdgeIDs: oppositeEdges,
				ResultType:      models.FlowResultType(result),
			}

			id, err := app.Flows.Add(mode, f)
			if err != nil {
				output.Error("Failed to add flow: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Added flow %s (%s)", args[0], id)
			return nil
		},
	}

	cmd.Flags().StringArray("condition", nil, "Condition as TYPE=condition-id, in sequence order (repeatable)")
	cmd.Flags().StringSlice("trend-edge", nil, "Trend-side edge ids")
	cmd.Flags().StringSlice("opposite-edge", nil, "Opposite-side edge ids")
	cmd.Flags().String("result", "", "Expected result type")

	return cmd
}

func newFlowsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <flow-id>",
		Short: "Delete a trading flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Flows.Delete(mode, args[0]); err != nil {
				output.Error("Failed to delete flow: %v", err)
				return err
			}
			output.Success("Deleted flow %s", args[0])
			return nil
		},
	}
}

func newFlowsMatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [date]",
		Short: "Match flows against a day's confirmed conditions",
		Long: `Match the day's confirmed conditions against the flow definitions.

The default policy compares the confirmed sequence position by position,
so order and length both matter. With --quick, a flow matches whenever
all of its condition ids appear among the day's confirmations,
regardless of order.`,
		Example: `  tradevision flows match
  tradevision flows match 2025-06-02 --quick`,
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

			policy := flow.PolicyExact
			if quick, _ := cmd.Flags().GetBool("quick"); quick {
				policy = flow.PolicySubset
			}

			groups, err := app.Flows.MatchDay(mode, dateKey, policy)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(groups)
			}

			output.Bold("Flow matches for %s (%s)", dateKey, string(policy))
			if len(groups) == 0 {
				output.Info("No flows match.")
				return nil
			}
			for _, g := range groups {
				output.Printf("  %s\n", output.Green(g.Name))
				for _, f := range g.Flows {
					output.Printf("    %-14s trend=%s opposite=%s\n",
						TruncateString(f.ID, 12),
						FormatIDList(f.TrendEdgeIDs),
						FormatIDList(f.OppositeEdgeIDs),
					)
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("quick", false, "Use order-insensitive subset matching")
	return cmd
}

func newFlowsAlertsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts [date]",
		Short: "Suggest entry alerts from the day's matches",
		Long:  "Turn the day's flow matches into entry alerts, skipping flows already alerted for the date.",
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

			if dismiss, _ := cmd.Flags().GetString("dismiss"); dismiss != "" {
				if err := app.Flows.DismissAlert(mode, dismiss); err != nil {
					output.Error("Failed to dismiss alert: %v", err)
					return err
				}
				output.Success("Dismissed alert %s", dismiss)
				return nil
			}

			policy := flow.PolicyExact
			if quick, _ := cmd.Flags().GetBool("quick"); quick {
				policy = flow.PolicySubset
			}

			alerts, err := app.Flows.SuggestEntries(mode, dateKey, policy, time.Now())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(alerts)
			}
			if len(alerts) == 0 {
				output.Info("No new entry alerts.")
				return nil
			}
			for _, a := range alerts {
				output.Warning("ENTRY %s: flow %q edges %s", a.ID, a.FlowName, FormatIDList(a.EdgeIDs))
			}
			return nil
		},
	}

	cmd.Flags().Bool("quick", false, "Use order-insensitive subset matching")
	cmd.Flags().String("dismiss", "", "Dismiss the alert with this id instead of suggesting")
	return cmd
}

// parseConditionPairs parses TYPE=condition-id arguments preserving
// their order.
func parseConditionPairs(pairs []string) ([]models.FlowCondition, error) {
	var conditions []models.FlowCondition
	for _, p := range pairs {
		idx := strings.Index(p, "=")
		if idx <= 0 || idx == len(p)-1 {
			return nil, apperrors.NewValidationError("condition", p, "want TYPE=condition-id")
		}
		condType := models.ConditionType(p[:idx])
		if !condType.Valid() {
			return nil, apperrors.NewValidationError("condition", p, "unknown condition type")
		}
		conditions = append(conditions, models.FlowCondition{
			ConditionType:       condType,
			SelectedConditionID: p[idx+1:],
		})
	}
	return conditions, nil
}

func formatConditions(conditions []models.FlowCondition) string {
	if len(conditions) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		parts = append(parts, string(c.ConditionType)+"="+TruncateString(c.SelectedConditionID, 8))
	}
	return strings.Join(parts, " ")
}
