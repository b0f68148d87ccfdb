package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/views"
)

func newTaskCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage active tasks",
	}
	cmd.AddCommand(newTaskAddCmd(o))
	cmd.AddCommand(newTaskListCmd(o))
	cmd.AddCommand(newTaskDoneCmd(o))
	cmd.AddCommand(newTaskPinCmd(o))
	cmd.AddCommand(newTaskRmCmd(o))
	cmd.AddCommand(newTaskSummaryCmd(o))
	cmd.AddCommand(newTaskDaysCmd(o))
	return cmd
}

func newTaskAddCmd(o *options) *cobra.Command {
	var (
		due         string
		priority    string
		description string
		projects    []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				day, err := e.cal.Normalize(due)
				if err != nil {
					return fmt.Errorf("--due: %v: %w", err, model.ErrInvalidArgs)
				}
				task, err := e.store.CreateTask(ctx, model.Task{
					OwnerID:     owner,
					Title:       strings.Join(args, " "),
					Description: description,
					DueDate:     day,
					Priority:    model.Priority(strings.ToLower(priority)),
					ProjectTags: projects,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q\n", task.ID, task.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&due, "due", "d", "", "due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "low, medium or high")
	cmd.Flags().StringVar(&description, "description", "", "longer description")
	cmd.Flags().StringSliceVar(&projects, "project", nil, "project id to tag (repeatable)")
	return cmd
}

func newTaskListCmd(o *options) *cobra.Command {
	var (
		view    string
		project string
		date    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := view
			switch {
			case project != "":
				spec = string(views.KindProject) + ":" + project
			case date != "":
				spec = string(views.KindDate) + ":" + date
			}
			v, err := views.Parse(spec)
			if err != nil {
				return err
			}

			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				tasks, err := e.store.ListActiveTasks(ctx, owner)
				if err != nil {
					return err
				}
				projects, err := e.store.ListProjects(ctx, owner, true)
				if err != nil {
					return err
				}
				selected := views.Query(tasks, v, views.DaysFrom(e.cal), nil)
				printTable(cmd.OutOrStdout(), "No tasks.", taskHeaders, taskRows(selected, model.NewProjectNameIndex(projects)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&view, "view", "v", string(views.KindAll), "today, yesterday, upcoming, overdue, all, project:<id> or date:<YYYY-MM-DD>")
	cmd.Flags().StringVar(&project, "project", "", "show the view for one project id")
	cmd.Flags().StringVar(&date, "date", "", "show the tasks due on one day (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("project", "date")
	return cmd
}

func newTaskDoneCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				task, err := e.store.ToggleTask(ctx, owner, args[0])
				if err != nil {
					return err
				}
				state := "open"
				if task.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%q is %s\n", task.Title, state)
				return nil
			})
		},
	}
}

func newTaskPinCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id> <today|yesterday|all|none>",
		Short: "Pin a task to the top of a view",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, ok := model.ParsePinScope(args[1])
			if !ok {
				return fmt.Errorf("unknown pin scope %q: %w", args[1], model.ErrInvalidArgs)
			}
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				if err := e.store.PinTask(ctx, owner, args[0], scope); err != nil {
					return err
				}
				if scope == model.PinNone {
					fmt.Fprintln(cmd.OutOrStdout(), "Unpinned")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Pinned to %s\n", scope)
				}
				return nil
			})
		},
	}
}

func newTaskRmCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an active task without archiving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				if err := e.store.DeleteTask(ctx, owner, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
				return nil
			})
		},
	}
}

func newTaskSummaryCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				tasks, err := e.store.ListActiveTasks(ctx, owner)
				if err != nil {
					return err
				}
				s := views.Summarize(tasks, e.cal.Today())
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Today:    %d/%d done (%d%%)\n", s.TodayCompleted, s.TodayTotal, s.CompletionPercent)
				fmt.Fprintf(w, "Upcoming: %d open\n", s.UpcomingIncomplete)
				fmt.Fprintf(w, "Total:    %d active\n", s.Total)
				return nil
			})
		},
	}
}

func newTaskDaysCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "days",
		Short: "List the days that have tasks due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				tasks, err := e.store.ListActiveTasks(ctx, owner)
				if err != nil {
					return err
				}
				days := views.DaysWithTasks(tasks)
				if len(days) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No dated tasks.")
					return nil
				}
				for _, d := range days {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
				return nil
			})
		},
	}
}
