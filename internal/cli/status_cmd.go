package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "status <task>",
		Short: "Show a task's status, totals, and blockers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}
			overview, err := app.Stats.Overview(ctx, id)
			if err != nil {
				return err
			}
			fmt.Print(formatter.Overview(overview))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <project>",
		Short: "Show per-task totals for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			rows, err := app.Stats.ProjectReport(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.Report(rows))
			return nil
		},
	}
	return cmd
}
