package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/taskdesk/internal/model"
)

func newProjectCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectAddCmd(o))
	cmd.AddCommand(newProjectListCmd(o))
	cmd.AddCommand(newProjectRenameCmd(o))
	cmd.AddCommand(newProjectActiveCmd(o, "deactivate", "Hide a project from active views", false))
	cmd.AddCommand(newProjectActiveCmd(o, "restore", "Bring a deactivated project back", true))
	return cmd
}

func newProjectAddCmd(o *options) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				p, err := e.store.CreateProject(ctx, model.Project{
					OwnerID: owner,
					Name:    strings.Join(args, " "),
					Color:   color,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %q\n", p.ID, p.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "#5B9BD5", "display color")
	return cmd
}

func newProjectListCmd(o *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				projects, err := e.store.ListProjects(ctx, owner, all)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(projects))
				for _, p := range projects {
					state := "active"
					if !p.Active {
						state = "inactive"
					}
					rows = append(rows, []string{p.ID, p.Name, p.Color, state})
				}
				printTable(cmd.OutOrStdout(), "No projects.", []string{"ID", "NAME", "COLOR", "STATE"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include deactivated projects")
	return cmd
}

func newProjectRenameCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				p, err := e.store.GetProject(ctx, owner, args[0])
				if err != nil {
					return err
				}
				p.Name = strings.Join(args[1:], " ")
				if err := e.store.UpdateProject(ctx, *p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %q\n", p.Name)
				return nil
			})
		},
	}
}

func newProjectActiveCmd(o *options, use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				var err error
				if active {
					err = e.store.RestoreProject(ctx, owner, args[0])
				} else {
					err = e.store.DeactivateProject(ctx, owner, args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project %sd\n", use)
				return nil
			})
		},
	}
}
