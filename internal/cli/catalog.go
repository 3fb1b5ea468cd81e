package cli

import (
	"github.com/spf13/cobra"

	"tradevision/internal/models"
)

// addCatalogCommands adds condition catalog commands.
func addCatalogCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Condition catalog management",
		Long:  "Manage the per-type catalog of market conditions that time blocks and flows reference.",
	}

	cmd.AddCommand(newCatalogTypesCmd())
	cmd.AddCommand(newCatalogListCmd(app))
	cmd.AddCommand(newCatalogAddCmd(app))
	cmd.AddCommand(newCatalogRemoveCmd(app))

	rootCmd.AddCommand(cmd)
}

func newCatalogTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported condition types",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			types := models.ConditionTypes()
			if output.IsJSON() {
				output.JSON(types)
				return
			}
			for _, t := range types {
				output.Println(string(t))
			}
		},
	}
}

func newCatalogListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [type]",
		Short: "List catalog conditions",
		Long:  "List catalog conditions, for one type or for all types.",
		Example: `  tradevision catalog list
  tradevision catalog list "DAY TYPE"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			types := models.ConditionTypes()
			if len(args) == 1 {
				types = []models.ConditionType{models.ConditionType(args[0])}
			}

			all := make(map[string][]models.Condition)
			for _, t := range types {
				conditions, err := app.Catalog.List(mode, t)
				if err != nil {
					return err
				}
				all[string(t)] = conditions
			}

			if output.IsJSON() {
				return output.JSON(all)
			}

			for _, t := range types {
				conditions := all[string(t)]
				output.Bold("%s", string(t))
				if len(conditions) == 0 {
					output.Dim("  (empty)")
					continue
				}
				for _, c := range conditions {
					output.Printf("  %-28s %s\n", c.ID, c.Name)
				}
				output.Println()
			}
			return nil
		},
	}
	return cmd
}

func newCatalogAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <type> <name>",
		Short: "Add a condition to the catalog",
		Example: `  tradevision catalog add "DAY TYPE" "Trending Day"
  tradevision catalog add "IB BREAK" "IB High Break"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			id, err := app.Catalog.Add(mode, models.ConditionType(args[0]), args[1])
			if err != nil {
				output.Error("Failed to add condition: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Added condition %s (%s)", args[1], id)
			return nil
		},
	}
}

func newCatalogRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <type> <id>",
		Short: "Remove a condition from the catalog",
		Long:  "Remove a condition. Conditions referenced by a flow or a time block cannot be removed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Catalog.Remove(mode, models.ConditionType(args[0]), args[1]); err != nil {
				output.Error("Failed to remove condition: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]bool{"removed": true})
			}
			output.Success("Removed condition %s", args[1])
			return nil
		},
	}
}
