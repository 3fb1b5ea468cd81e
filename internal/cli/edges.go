package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradevision/internal/models"
)

// addEdgeCommands adds edge, edge-flow and formula commands.
func addEdgeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "edges",
		Short: "Edge and formula management",
		Long:  "Manage trading edges, their entry/stop/target formulas and logical edge flows.",
	}

	cmd.AddCommand(newEdgesListCmd(app))
	cmd.AddCommand(newEdgesAddCmd(app))
	cmd.AddCommand(newEdgesDeleteCmd(app))
	cmd.AddCommand(newFormulaCmd(app))
	cmd.AddCommand(newEdgeFlowCmd(app))

	rootCmd.AddCommand(cmd)
}

func newEdgesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List edges",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			edges := app.Flows.Edges(mode)
			if output.IsJSON() {
				return output.JSON(edges)
			}
			if len(edges) == 0 {
				output.Info("No edges defined.")
				return nil
			}

			table := NewTable(output, "ID", "Name", "Category", "Entries")
			for _, e := range edges {
				table.AddRow(
					TruncateString(e.ID, 12),
					TruncateString(e.Name, 28),
					string(e.Category),
					fmt.Sprintf("%d", len(e.Entries)),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newEdgesAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an edge",
		Example: `  tradevision edges add "Trend Pullback" --category "Trend Side" \
    --entry-formula <id> --stop-formula <id> --target-formula <id>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			category, _ := cmd.Flags().GetString("category")
			entryIDs, _ := cmd.Flags().GetStringSlice("entry-formula")
			stopIDs, _ := cmd.Flags().GetStringSlice("stop-formula")
			targetIDs, _ := cmd.Flags().GetStringSlice("target-formula")

			e := models.Edge{
				Name:     args[0],
				Category: models.EdgeCategory(category),
			}
			if len(entryIDs)+len(stopIDs)+len(targetIDs) > 0 {
				e.Entries = []models.EdgeEntry{{
					EntryFormulaIDs:    entryIDs,
					StopLossFormulaIDs: stopIDs,
					TargetFormulaIDs:   targetIDs,
				}}
			}

			id, err := app.Flows.AddEdge(mode, e)
			if err != nil {
				output.Error("Failed to add edge: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Added edge %s (%s)", args[0], id)
			return nil
		},
	}

	cmd.Flags().String("category", string(models.EdgeTrendSide), "Edge category (Trend Side, Opposite Side, Short Edge)")
	cmd.Flags().StringSlice("entry-formula", nil, "Entry formula ids")
	cmd.Flags().StringSlice("stop-formula", nil, "Stop-loss formula ids")
	cmd.Flags().StringSlice("target-formula", nil, "Target formula ids")

	return cmd
}

func newEdgesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <edge-id>",
		Short: "Delete an edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Flows.DeleteEdge(mode, args[0]); err != nil {
				output.Error("Failed to delete edge: %v", err)
				return err
			}
			output.Success("Deleted edge %s", args[0])
			return nil
		},
	}
}

func newFormulaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formula",
		Short: "Formula management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [type]",
		Short: "List formulas, optionally filtered by type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			var ftype models.FormulaType
			if len(args) == 1 {
				ftype = models.FormulaType(args[0])
			}
			formulas := app.Flows.Formulas(mode, ftype)

			if output.IsJSON() {
				return output.JSON(formulas)
			}
			if len(formulas) == 0 {
				output.Info("No formulas defined.")
				return nil
			}
			table := NewTable(output, "ID", "Name", "Type", "Position")
			for _, f := range formulas {
				table.AddRow(
					TruncateString(f.ID, 12),
					TruncateString(f.Name, 28),
					string(f.Type),
					string(f.PositionType),
				)
			}
			table.Render()
			return nil
		},
	})

	addFormula := &cobra.Command{
		Use:   "add <name> <type>",
		Short: "Add a formula (type: ENTRY, STOP_LOSS or TARGET)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			position, _ := cmd.Flags().GetString("position")

			id, err := app.Flows.AddFormula(mode, models.Formula{
				Name:         args[0],
				Type:         models.FormulaType(args[1]),
				PositionType: models.PositionType(position),
			})
			if err != nil {
				output.Error("Failed to add formula: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Added formula %s (%s)", args[0], id)
			return nil
		},
	}
	addFormula.Flags().String("position", "", "Position type (Long, Short)")
	cmd.AddCommand(addFormula)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <formula-id>",
		Short: "Delete a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Flows.DeleteFormula(mode, args[0]); err != nil {
				output.Error("Failed to delete formula: %v", err)
				return err
			}
			output.Success("Deleted formula %s", args[0])
			return nil
		},
	})

	return cmd
}

func newEdgeFlowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Logical edge flow management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List logical edge flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			flows := app.Flows.EdgeFlows(mode)
			if output.IsJSON() {
				return output.JSON(flows)
			}
			if len(flows) == 0 {
				output.Info("No edge flows defined.")
				return nil
			}
			table := NewTable(output, "ID", "Name", "Day Type", "Break", "Trend Edges", "Opposite Edges")
			for _, f := range flows {
				table.AddRow(
					TruncateString(f.ID, 12),
					TruncateString(f.Name, 24),
					f.DayType,
					f.BreakTime,
					FormatIDList(f.TrendEdgeIDs),
					FormatIDList(f.OppositeEdgeIDs),
				)
			}
			table.Render()
			return nil
		},
	})

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a logical edge flow",
		Args:  cobra.ExactArgs(1),
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
			dayType, _ := cmd.Flags().GetString("day-type")
			breakTime, _ := cmd.Flags().GetString("break-time")
			trendEdges, _ := cmd.Flags().GetStringSlice("trend-edge")
			oppositeEdges, _ := cmd.Flags().GetStringSlice("opposite-edge")

			id, err := app.Flows.AddEdgeFlow(mode, models.LogicalEdgeFlow{
				Name:            args[0],
				Conditions:      conditions,
				DayType:         dayType,
				BreakTime:       breakTime,
				TrendEdgeIDs:    trendEdges,
				OppositeEdgeIDs: oppositeEdges,
			})
			if err != nil {
				output.Error("Failed to add edge flow: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Added edge flow %s (%s)", args[0], id)
			return nil
		},
	}
	add.Flags().StringArray("condition", nil, "Condition as TYPE=condition-id (repeatable)")
	add.Flags().String("day-type", "", "Day type tag")
	add.Flags().String("break-time", "", "Break time (HH:mm)")
	add.Flags().StringSlice("trend-edge", nil, "Trend-side edge ids")
	add.Flags().StringSlice("opposite-edge", nil, "Opposite-side edge ids")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <flow-id>",
		Short: "Delete a logical edge flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Flows.DeleteEdgeFlow(mode, args[0]); err != nil {
				output.Error("Failed to delete edge flow: %v", err)
				return err
			}
			output.Success("Deleted edge flow %s", args[0])
			return nil
		},
	})

	return cmd
}
