package cli

import (
	"github.com/spf13/cobra"

	"tradevision/internal/models"
)

// addRuleCommands adds psychology rule commands.
func addRuleCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Psychology rule checklists",
		Long:  "Manage the technical-error and emotion checklists that trade reviews reference.",
	}

	cmd.AddCommand(newRulesListCmd(app))
	cmd.AddCommand(newRulesAddCmd(app))
	cmd.AddCommand(newRulesDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newRulesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List psychology rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			var category models.PsychologyRuleCategory
			if flag, _ := cmd.Flags().GetString("category"); flag != "" {
				category = models.PsychologyRuleCategory(flag)
			}

			rules := app.Ledger.Rules(mode, category)
			if output.IsJSON() {
				return output.JSON(rules)
			}
			if len(rules) == 0 {
				output.Info("No rules defined.")
				return nil
			}

			table := NewTable(output, "ID", "Category", "Text")
			for _, r := range rules {
				table.AddRow(
					TruncateString(r.ID, 12),
					string(r.Category),
					TruncateString(r.Text, 48),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("category", "", "Filter by category (TECHNICAL ERRORS, EMOTIONS)")
	return cmd
}

func newRulesAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a psychology rule",
		Example: `  tradevision rules add "Moved the stop loss" --category "TECHNICAL ERRORS"
  tradevision rules add "Revenge trade" --category EMOTIONS`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			category, _ := cmd.Flags().GetString("category")

			id, err := app.Ledger.AddRule(mode, args[0], models.PsychologyRuleCategory(category))
			if err != nil {
				output.Error("Failed to add rule: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": id})
			}
			output.Success("Added rule %s", id)
			return nil
		},
	}

	cmd.Flags().String("category", string(models.RuleTechnicalErrors), "Rule category (TECHNICAL ERRORS, EMOTIONS)")
	return cmd
}

func newRulesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a psychology rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Ledger.DeleteRule(mode, args[0]); err != nil {
				output.Error("Failed to delete rule: %v", err)
				return err
			}
			output.Success("Deleted rule %s", args[0])
			return nil
		},
	}
}
