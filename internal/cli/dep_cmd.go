package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepRemoveCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task> <depends-on>",
		Short: "Make a task wait on another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			depID, err := resolveTaskID(ctx, app, args[1], "")
			if err != nil {
				return err
			}
			if err := app.Dependencies.Add(ctx, taskID, depID); err != nil {
				return err
			}
			fmt.Println("Dependency added.")
			return nil
		},
	}
	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <task> <depends-on>",
		Short: "Remove a dependency link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			depID, err := resolveTaskID(ctx, app, args[1], "")
			if err != nil {
				return err
			}
			if err := app.Dependencies.Remove(ctx, taskID, depID); err != nil {
				return err
			}
			fmt.Println("Dependency removed.")
			return nil
		},
	}
	return cmd
}
