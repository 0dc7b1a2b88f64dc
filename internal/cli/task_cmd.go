package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/alexanderramin/tempo/internal/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addChildPolicyFlags registers the --cascade / --keep-children pair shared
// by complete and uncomplete.
func addChildPolicyFlags(flags *pflag.FlagSet, verb string) {
	flags.Bool("cascade", false, "Also "+verb+" subtasks")
	flags.Bool("keep-children", false, "Apply to this task only")
}

func childPolicyFrom(flags *pflag.FlagSet) service.ChildPolicy {
	if v, _ := flags.GetBool("cascade"); v {
		return service.ChildCascade
	}
	if v, _ := flags.GetBool("keep-children"); v {
		return service.ChildKeep
	}
	return service.ChildAsk
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and subtasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskCompleteCmd(app),
		newTaskUncompleteCmd(app),
		newTaskEstimateCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var projectFlag, parentFlag string
	var estimateMin, personnel int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task or subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			t := &domain.Task{Title: args[0]}
			if parentFlag != "" {
				parentID, err := resolveTaskID(ctx, app, parentFlag, "")
				if err != nil {
					return err
				}
				t.ParentID = &parentID
			} else {
				projectID, err := resolveProjectID(ctx, app, projectFlag)
				if err != nil {
					return err
				}
				t.ProjectID = projectID
			}
			if estimateMin > 0 {
				secs := int64(estimateMin) * 60
				t.EstimatedSeconds = &secs
			}
			if personnel > 1 {
				t.ExpectedPersonnelCount = &personnel
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Printf("Created task %s (%s)\n", t.Title, t.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project for a top-level task")
	cmd.Flags().StringVar(&parentFlag, "parent", "", "Parent task for a subtask")
	cmd.Flags().IntVar(&estimateMin, "estimate-min", 0, "Estimate in minutes")
	cmd.Flags().IntVar(&personnel, "personnel", 1, "Expected personnel count for timers")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with status and tracked time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, projectFlag)
			if err != nil {
				return err
			}
			snap, err := app.Stats.Snapshot(ctx, projectID)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			for _, t := range snap.Roots() {
				printTaskLine(t, snap, now, "")
				for _, child := range snap.ChildrenOf(t.ID) {
					printTaskLine(child, snap, now, "  ")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project to list")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func printTaskLine(t *domain.Task, snap stats.Snapshot, now time.Time, indent string) {
	total := stats.TotalSecondsNow(t, snap, now)
	fmt.Printf("%s%s  %-30s %s  %s\n",
		indent,
		formatter.Dim(t.ID[:8]),
		t.Title,
		formatter.StatusIndicator(stats.Status(t, snap)),
		formatter.Seconds(total),
	)
}

func newTaskCompleteCmd(app *App) *cobra.Command {
	var projectFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "complete <task>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}

			opts := service.CompleteOptions{
				Force:    force,
				Children: childPolicyFrom(cmd.Flags()),
			}

			res, err := app.Tasks.Complete(ctx, id, opts)
			if err != nil {
				return err
			}
			if !res.Applied {
				// The service withheld the change pending a child decision.
				if !app.interactive() {
					return fmt.Errorf("%d subtasks are incomplete; pass --cascade or --keep-children", res.ConflictingChildren)
				}
				yes, err := confirm(
					fmt.Sprintf("%d subtasks are incomplete. Complete them too?", res.ConflictingChildren),
					"Complete all", "Only this task")
				if err != nil {
					return err
				}
				opts.Children = service.ChildKeep
				if yes {
					opts.Children = service.ChildCascade
				}
				if res, err = app.Tasks.Complete(ctx, id, opts); err != nil {
					return err
				}
			}
			if res.CascadedChildren > 0 {
				fmt.Printf("Completed task and %d subtasks.\n", res.CascadedChildren)
			} else {
				fmt.Println("Completed.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	cmd.Flags().BoolVar(&force, "force", false, "Complete even when blocked by dependencies")
	addChildPolicyFlags(cmd.Flags(), "complete")
	return cmd
}

func newTaskUncompleteCmd(app *App) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "uncomplete <task>",
		Short: "Mark a completed task as not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}

			policy := childPolicyFrom(cmd.Flags())

			res, err := app.Tasks.Uncomplete(ctx, id, policy)
			if err != nil {
				return err
			}
			if !res.Applied {
				if !app.interactive() {
					return fmt.Errorf("%d subtasks are completed; pass --cascade or --keep-children", res.ConflictingChildren)
				}
				yes, err := confirm(
					fmt.Sprintf("%d subtasks are completed. Uncomplete them too?", res.ConflictingChildren),
					"Uncomplete all", "Only this task")
				if err != nil {
					return err
				}
				policy = service.ChildKeep
				if yes {
					policy = service.ChildCascade
				}
				if res, err = app.Tasks.Uncomplete(ctx, id, policy); err != nil {
					return err
				}
			}
			if res.CascadedChildren > 0 {
				fmt.Printf("Uncompleted task and %d subtasks.\n", res.CascadedChildren)
			} else {
				fmt.Println("Uncompleted.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	addChildPolicyFlags(cmd.Flags(), "uncomplete")
	return cmd
}

func newTaskEstimateCmd(app *App) *cobra.Command {
	var projectFlag string
	var clear bool
	var minutes int

	cmd := &cobra.Command{
		Use:   "estimate <task>",
		Short: "Set or clear a task's estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}
			if clear {
				if err := app.Tasks.ClearEstimate(ctx, id); err != nil {
					return err
				}
				fmt.Println("Estimate cleared.")
				return nil
			}
			if minutes <= 0 {
				return fmt.Errorf("--minutes is required")
			}
			warning, err := app.Tasks.SetEstimate(ctx, id, int64(minutes)*60)
			if err != nil {
				return err
			}
			fmt.Println("Estimate set.")
			if warning != "" {
				fmt.Println(formatter.StyleYellow.Render("warning: " + warning))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Estimate in minutes")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the estimate")
	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var parentFlag string

	cmd := &cobra.Command{
		Use:   "move <task>",
		Short: "Re-parent a subtask, or promote it to top level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			newParent := ""
			if parentFlag != "" {
				if newParent, err = resolveTaskID(ctx, app, parentFlag, ""); err != nil {
					return err
				}
			}
			if err := app.Tasks.Move(ctx, id, newParent); err != nil {
				return err
			}
			fmt.Println("Moved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&parentFlag, "parent", "", "New parent task (empty promotes to top level)")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var projectFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <task>",
		Short: "Delete a task, its subtasks, and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0], projectFlag)
			if err != nil {
				return err
			}
			if !force {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete without --force")
				}
				ok, err := confirm("Delete the task, its subtasks, and all time entries?", "Delete", "Cancel")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if err := app.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project context for task lookup")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}
