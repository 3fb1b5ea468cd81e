package cli

import (
	"time"

	"github.com/spf13/cobra"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/flow"
	"tradevision/internal/ids"
	"tradevision/internal/models"
	"tradevision/internal/notify"
	"tradevision/internal/schedule"
	"tradevision/internal/store"
)

// addBlockCommands adds time-block schedule commands.
func addBlockCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Time-block schedule management",
		Long:  "Manage the recurring confirmation schedule and per-day condition confirmations.",
	}

	cmd.AddCommand(newBlocksListCmd(app))
	cmd.AddCommand(newBlocksAddCmd(app))
	cmd.AddCommand(newBlocksRemoveCmd(app))
	cmd.AddCommand(newBlocksConfirmCmd(app))
	cmd.AddCommand(newBlocksUnconfirmCmd(app))
	cmd.AddCommand(newBlocksDueCmd(app))
	cmd.AddCommand(newBlocksAlarmsCmd(app))
	cmd.AddCommand(newBlocksWatchCmd(app))

	rootCmd.AddCommand(cmd)
}

func newBlocksListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [date]",
		Short: "Show the block schedule for a date",
		Long:  "Show the effective blocks for a date: the daily plan if one exists, else the recurring template.",
		Example: `  tradevision blocks list
  tradevision blocks list 2025-06-02`,
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

			var blocks []models.TimeBlock
			app.Store.View(func(state *store.State) {
				blocks = schedule.EffectiveBlocks(state.Mode(mode), dateKey)
			})

			if output.IsJSON() {
				return output.JSON(blocks)
			}

			output.Bold("Blocks for %s", dateKey)
			if len(blocks) == 0 {
				output.Info("No blocks scheduled.")
				return nil
			}

			table := NewTable(output, "Time", "ID", "Type", "Condition", "Alarm", "Status")
			for _, b := range blocks {
				status := output.ColoredString(ColorDim, "pending")
				condition := b.ConditionID
				if resolved, ok := b.ResolvedCondition(dateKey); ok && b.ConfirmedFor(dateKey) {
					status = output.Green("confirmed")
					condition = resolved
				}
				alarm := "-"
				if b.IsAlarmOn {
					alarm = "on"
				}
				table.AddRow(
					b.Time,
					TruncateString(b.ID, 12),
					string(b.ConditionType),
					TruncateString(condition, 26),
					alarm,
					status,
				)
			}
			table.Render()
			return nil
		},
	}
	return cmd
}

func newBlocksAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <time> <type>",
		Short: "Add a block to the schedule",
		Long: `Add a time block. Recurring blocks join the template and apply every day;
ad hoc blocks exist only inside the daily plan for the chosen date.`,
		Example: `  tradevision blocks add 09:15 "DAY TYPE" --recurring
  tradevision blocks add 10:30 "IB BREAK" --date 2025-06-02 --condition <id>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			blockTime := args[0]
			if _, err := time.Parse(models.BlockTimeLayout, blockTime); err != nil {
				output.Error("Invalid time %q (want HH:mm)", blockTime)
				return err
			}
			condType := models.ConditionType(args[1])
			if !condType.Valid() {
				output.Error("Unknown condition type %q", args[1])
				return apperrors.NewValidationError("type", args[1], "unknown condition type")
			}

			date, _ := cmd.Flags().GetString("date")
			dateKey, err := ParseDateKey(date)
			if err != nil {
				return err
			}
			conditionID, _ := cmd.Flags().GetString("condition")
			recurring, _ := cmd.Flags().GetBool("recurring")
			alarm, _ := cmd.Flags().GetBool("alarm")

			block := models.TimeBlock{
				ID:            ids.New(),
				Time:          blockTime,
				ConditionType: condType,
				ConditionID:   conditionID,
				IsAlarmOn:     alarm,
				IsRecurring:   recurring,
			}

			if err := app.Schedule.AddBlock(mode, block, dateKey); err != nil {
				output.Error("Failed to add block: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"id": block.ID})
			}
			output.Success("Added block %s at %s (%s)", block.ID, blockTime, condType)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Date for an ad hoc block (yyyy-MM-dd, default today)")
	cmd.Flags().String("condition", "", "Default condition id for the block")
	cmd.Flags().Bool("recurring", false, "Add to the recurring template")
	cmd.Flags().Bool("alarm", false, "Enable the block's alarm")

	return cmd
}

func newBlocksRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <block-id>",
		Short: "Remove a block from the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			dateKey, err := ParseDateKey(date)
			if err != nil {
				return err
			}

			if err := app.Schedule.RemoveBlock(mode, dateKey, args[0]); err != nil {
				output.Error("Failed to remove block: %v", err)
				return err
			}
			output.Success("Removed block %s", args[0])
			return nil
		},
	}
	cmd.Flags().String("date", "", "Date whose daily plan is also updated (default today)")
	return cmd
}

func newBlocksConfirmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm <block-id> <condition-id>",
		Short: "Confirm a block's observed condition for a date",
		Example: `  tradevision blocks confirm <block-id> <condition-id>
  tradevision blocks confirm <block-id> <condition-id> --date 2025-06-02`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			dateKey, err := ParseDateKey(date)
			if err != nil {
				return err
			}

			if err := app.Schedule.Confirm(mode, dateKey, args[0], args[1]); err != nil {
				output.Error("Failed to confirm block: %v", err)
				return err
			}
			output.Success("Confirmed block %s for %s", args[0], dateKey)
			return nil
		},
	}
	cmd.Flags().String("date", "", "Date to confirm for (yyyy-MM-dd, default today)")
	return cmd
}

func newBlocksUnconfirmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unconfirm <block-id>",
		Short: "Remove a block's confirmation for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			dateKey, err := ParseDateKey(date)
			if err != nil {
				return err
			}

			if err := app.Schedule.Unconfirm(mode, dateKey, args[0]); err != nil {
				output.Error("Failed to unconfirm block: %v", err)
				return err
			}
			output.Success("Cleared confirmation for block %s on %s", args[0], dateKey)
			return nil
		},
	}
	cmd.Flags().String("date", "", "Date to clear (yyyy-MM-dd, default today)")
	return cmd
}

func newBlocksDueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "due [date]",
		Short: "Show blocks whose time has passed without a confirmation",
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

			var due []models.TimeBlock
			app.Store.View(func(state *store.State) {
				due = schedule.DueBlocks(state.Mode(mode), dateKey, time.Now())
			})

			if output.IsJSON() {
				return output.JSON(due)
			}
			if len(due) == 0 {
				output.Info("No blocks due.")
				return nil
			}

			output.Warning("%d block(s) awaiting confirmation for %s", len(due), dateKey)
			for _, b := range due {
				output.Printf("  %s  %-20s %s\n", b.Time, string(b.ConditionType), b.ID)
			}
			return nil
		},
	}
}

func newBlocksAlarmsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "alarms",
		Short: "Check whether any block alarm fires right now",
		Long:  "Evaluate the alarm rule for the current minute. Intended for a cron or shell loop tick.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			now := time.Now()
			dateKey := now.Format(models.DateKeyLayout)

			var firing []models.TimeBlock
			app.Store.View(func(state *store.State) {
				for _, b := range schedule.EffectiveBlocks(state.Mode(mode), dateKey) {
					if schedule.AlarmDue(b, now) {
						firing = append(firing, b)
					}
				}
			})

			if output.IsJSON() {
				return output.JSON(firing)
			}
			if len(firing) == 0 {
				output.Dim("No alarms due.")
				return nil
			}
			for _, b := range firing {
				output.Warning("ALARM %s: confirm %s block %s", b.Time, string(b.ConditionType), b.ID)
			}
			return nil
		},
	}
}

func newBlocksWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the schedule and ring block alarms as they fire",
		Long: `Poll the schedule and notify each firing alarm once per day. With
--suggest, newly matching flows are announced as entry suggestions too.`,
		Example: `  tradevision blocks watch
  tradevision blocks watch --interval 30s --suggest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			interval, _ := cmd.Flags().GetDuration("interval")
			suggest, _ := cmd.Flags().GetBool("suggest")
			bell, _ := cmd.Flags().GetBool("bell")

			notifier := notify.NewNotifier(64)
			notifier.SetBellEnabled(bell)
			notifier.AddHandler(notify.DefaultHandler(!output.IsJSON()))
			notifier.Start(cmd.Context())
			monitor := notify.NewAlarmMonitor(notifier)

			output.Info("Watching schedule (every %s, Ctrl-C to stop)", interval)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				now := time.Now()
				dateKey := now.Format(models.DateKeyLayout)

				var blocks []models.TimeBlock
				app.Store.View(func(state *store.State) {
					blocks = schedule.EffectiveBlocks(state.Mode(mode), dateKey)
				})
				monitor.Check(blocks, dateKey, now)

				if suggest {
					created, err := app.Flows.SuggestEntries(mode, dateKey, flow.PolicySubset, now)
					if err != nil {
						return err
					}
					for _, alert := range created {
						notifier.NotifyEntryAlert(alert)
					}
				}

				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().Duration("interval", 30*time.Second, "Poll interval")
	cmd.Flags().Bool("suggest", false, "Also announce newly matching flows")
	cmd.Flags().Bool("bell", true, "Ring the terminal bell for alarms")

	return cmd
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
