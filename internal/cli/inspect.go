package cli

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-workspace-dashboard/internal/sqlite"
	"go-workspace-dashboard/internal/workspace"
)

var tablesWorkspace string

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List configured workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := workspace.NewRegistry(cfg)
		def := registry.Default().ID

		data := pterm.TableData{{"ID", "Name", "Path", "Default"}}
		for _, ws := range registry.List() {
			marker := ""
			if ws.ID == def {
				marker = "*"
			}
			data = append(data, []string{ws.ID, ws.Name, ws.Path, marker})
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List memory databases and their tables for a workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := workspace.NewRegistry(cfg)
		access := sqlite.New(registry, cfg.MemoryDir, cfg.AllowedTables)
		ws := registry.Resolve(tablesWorkspace)

		databases, err := access.ListDatabases(cmd.Context(), ws.ID)
		if err != nil {
			return err
		}
		if len(databases) == 0 {
			pterm.Info.Printfln("No databases found in %s/%s", ws.Path, cfg.MemoryDir)
			return nil
		}

		data := pterm.TableData{{"Database", "Table", "Rows"}}
		for _, db := range databases {
			tables, err := access.ListTables(cmd.Context(), db.Path)
			if err != nil {
				pterm.Warning.Printfln("%s: %v", db.Name, err)
				continue
			}
			for _, t := range tables {
				data = append(data, []string{db.Name, t.Name, strconv.FormatInt(t.RowCount, 10)})
			}
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	tablesCmd.Flags().StringVarP(&tablesWorkspace, "workspace", "w", "", "workspace id (defaults to the default workspace)")
}
