package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tradevision/internal/models"
	"tradevision/internal/store"
)

// addActivityCommands adds day-activity audit log commands.
func addActivityCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Day activity audit log",
		Long: `Review the append-only day activity log. Entries are never deleted:
edits preserve the original text and archiving moves old entries into
the SQLite archive.`,
	}

	cmd.AddCommand(newActivityListCmd(app))
	cmd.AddCommand(newActivityNoteCmd(app))
	cmd.AddCommand(newActivityEditCmd(app))
	cmd.AddCommand(newActivityArchiveCmd(app))
	cmd.AddCommand(newActivityHistoryCmd(app))

	rootCmd.AddCommand(cmd)
}

func newActivityListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List day activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}
			includeArchived, _ := cmd.Flags().GetBool("archived")

			activities := app.Ledger.Activities(mode, includeArchived)
			if output.IsJSON() {
				return output.JSON(activities)
			}
			if len(activities) == 0 {
				output.Info("No activities recorded.")
				return nil
			}

			table := NewTable(output, "Time", "Category", "Event", "Details", "Flags")
			for _, a := range activities {
				var flags string
				if a.IsEdited {
					flags += "edited "
				}
				if a.IsArchived {
					flags += "archived"
				}
				table.AddRow(
					FormatDateTime(a.Timestamp),
					string(a.Category),
					TruncateString(a.Event, 24),
					TruncateString(a.Details, 36),
					flags,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Bool("archived", false, "Include archived entries")
	return cmd
}

func newActivityNoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note <text>",
		Short: "Record a free-form activity note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Ledger.RecordActivity(mode, "Note", models.ActivityData, args[0]); err != nil {
				output.Error("Failed to record note: %v", err)
				return err
			}
			output.Success("Recorded note")
			return nil
		},
	}
}

func newActivityEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <activity-id> <details>",
		Short: "Edit an activity's details",
		Long:  "Edit an activity. The original text is preserved and the entry is flagged as edited.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			if err := app.Ledger.EditActivity(mode, args[0], args[1]); err != nil {
				output.Error("Failed to edit activity: %v", err)
				return err
			}
			output.Success("Edited activity %s", args[0])
			return nil
		},
	}
}

func newActivityArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive old activities into the SQLite archive",
		Example: `  tradevision activity archive --before 2025-05-01
  tradevision activity archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			before := time.Now().AddDate(0, 0, -30)
			if flag, _ := cmd.Flags().GetString("before"); flag != "" {
				t, err := time.Parse(models.DateKeyLayout, flag)
				if err != nil {
					output.Error("Invalid date %q (want yyyy-MM-dd)", flag)
					return err
				}
				before = t
			}

			archive, err := store.OpenActivityArchive(archivePath(app))
			if err != nil {
				output.Error("Failed to open archive: %v", err)
				return err
			}
			defer archive.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			count, err := app.Ledger.ArchiveActivities(ctx, mode, archive, before)
			if err != nil {
				output.Error("Failed to archive activities: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"archived": count})
			}
			output.Success("Archived %d activities older than %s", count, FormatDate(before))
			return nil
		},
	}

	cmd.Flags().String("before", "", "Archive entries before this date (yyyy-MM-dd, default 30 days ago)")
	return cmd
}

func newActivityHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the SQLite activity archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			mode, err := app.Mode(cmd)
			if err != nil {
				return err
			}

			category, _ := cmd.Flags().GetString("category")
			limit, _ := cmd.Flags().GetInt("limit")

			archive, err := store.OpenActivityArchive(archivePath(app))
			if err != nil {
				output.Error("Failed to open archive: %v", err)
				return err
			}
			defer archive.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			records, err := archive.Query(ctx, store.ActivityFilter{
				Mode:     mode,
				Category: models.ActivityCategory(category),
				Limit:    limit,
			})
			if err != nil {
				output.Error("Failed to query archive: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}
			if len(records) == 0 {
				output.Info("No archived activities found.")
				return nil
			}

			table := NewTable(output, "Time", "Category", "Event", "Details", "Archived")
			for _, r := range records {
				table.AddRow(
					FormatDateTime(r.Timestamp),
					string(r.Category),
					TruncateString(r.Event, 24),
					TruncateString(r.Details, 32),
					FormatDate(r.ArchivedAt),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("category", "", "Filter by category (TRADE, ORDER, CONFIRMATION, DATA)")
	cmd.Flags().Int("limit", 100, "Maximum records to return")
	return cmd
}

func archivePath(app *App) string {
	return filepath.Join(app.Config.Data.Dir, "archive.db")
}
