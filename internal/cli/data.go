package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// addDataCommands adds export/import commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Snapshot export and import",
		Long: `Export the full journal snapshot as JSON, or replace it wholesale from
a previously exported file. Legacy per-entity data files are migrated
automatically on first start.`,
	}

	cmd.AddCommand(newDataExportCmd(app))
	cmd.AddCommand(newDataImportCmd(app))
	cmd.AddCommand(newDataPathCmd(app))

	rootCmd.AddCommand(cmd)
}

func newDataExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the journal snapshot as JSON",
		Long:  "Export the versioned snapshot. Without a file argument the JSON goes to stdout.",
		Example: `  tradevision data export backup.json
  tradevision data export > backup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			data, err := app.Store.ExportJSON()
			if err != nil {
				output.Error("Failed to export: %v", err)
				return err
			}

			if len(args) == 0 {
				output.Println(string(data))
				return nil
			}

			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				output.Error("Failed to write %s: %v", args[0], err)
				return err
			}
			output.Success("Exported snapshot to %s", args[0])
			return nil
		},
	}
	return cmd
}

func newDataImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the journal from an exported snapshot",
		Long: `Import a snapshot file, replacing the entire journal. The previous
state is overwritten; export first if you may want it back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			data, err := os.ReadFile(args[0])
			if err != nil {
				output.Error("Failed to read %s: %v", args[0], err)
				return err
			}

			if err := app.Store.ImportJSON(data); err != nil {
				output.Error("Failed to import: %v", err)
				return err
			}
			output.Success("Imported snapshot from %s", args[0])
			return nil
		},
	}
}

func newDataPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the snapshot file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.Store.Path()})
			} else {
				output.Println(app.Store.Path())
			}
		},
	}
}
