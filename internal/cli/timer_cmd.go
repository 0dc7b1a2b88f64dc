package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, stop, and watch timers",
	}

	cmd.AddCommand(
		newTimerStartCmd(app),
		newTimerStopCmd(app),
		newTimerLogCmd(app),
		newTimerWatchCmd(app),
	)

	return cmd
}

func newTimerStartCmd(app *App) *cobra.Command {
	var projectFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "start <task>",
		Short: "Start a timer on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}

			entry, err := app.Timers.Start(ctx, id, force)
			if errors.Is(err, domain.ErrTaskBlocked) && !force && app.interactive() {
				var yes bool
				if yes, err = confirm("Task is blocked by incomplete dependencies. Start anyway?", "Start", "Cancel"); err != nil {
					return err
				}
				if !yes {
					return nil
				}
				entry, err = app.Timers.Start(ctx, id, true)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Timer started (%d %s).\n", entry.Personnel(), plural(entry.Personnel(), "person", "people"))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	cmd.Flags().BoolVar(&force, "force", false, "Start even when blocked by dependencies")
	return cmd
}

func newTimerStopCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "stop <task>",
		Short: "Stop the task's running timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}
			res, err := app.Timers.Stop(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Stopped after %s (stored as %s).\n",
				formatter.Clock(res.ElapsedSeconds),
				formatter.Seconds(res.StoredSeconds))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	return cmd
}

func newTimerLogCmd(app *App) *cobra.Command {
	var projectFlag, startStr, endStr string
	var personnel int

	cmd := &cobra.Command{
		Use:   "log <task>",
		Short: "Record a closed time entry manually",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}
			start, err := time.Parse(time.RFC3339, startStr)
			if err != nil {
				return fmt.Errorf("parsing --start: %w", err)
			}
			end, err := time.Parse(time.RFC3339, endStr)
			if err != nil {
				return fmt.Errorf("parsing --end: %w", err)
			}
			entry, err := app.Timers.AddManualEntry(ctx, id, start, end, personnel)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %s.\n", formatter.Seconds(entry.Seconds(time.Now().UTC())))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	cmd.Flags().StringVar(&startStr, "start", "", "Entry start (RFC3339)")
	cmd.Flags().StringVar(&endStr, "end", "", "Entry end (RFC3339)")
	cmd.Flags().IntVar(&personnel, "personnel", 1, "Personnel count for the entry")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newTimerWatchCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "watch <task>",
		Short: "Watch a task's live total while timers run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}
			model := newWatchModel(app, id)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
