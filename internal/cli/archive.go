package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskdesk/internal/export"
)

func newArchiveCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move past-due tasks to the archive and manage archived records",
	}
	cmd.AddCommand(newArchiveRunCmd(o))
	cmd.AddCommand(newArchiveListCmd(o))
	cmd.AddCommand(newArchiveStatsCmd(o))
	cmd.AddCommand(newArchiveRmCmd(o))
	cmd.AddCommand(newArchiveClearCmd(o))
	cmd.AddCommand(newArchiveExportCmd(o))
	return cmd
}

func newArchiveRunCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Archive every task whose due day has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				res, err := e.engine.ArchivePastDue(ctx, owner)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Message())
				return nil
			})
		},
	}
}

func newArchiveListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived tasks, most recently moved first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				records, err := e.engine.List(ctx, owner)
				if err != nil {
					return err
				}
				printTable(cmd.OutOrStdout(), "The archive is empty.", archivedHeaders, archivedRows(records))
				return nil
			})
		},
	}
}

func newArchiveStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				stats, err := e.engine.Stats(ctx, owner)
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func newArchiveRmCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Permanently delete one archived record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				if err := e.engine.Delete(ctx, owner, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
				return nil
			})
		},
	}
}

func newArchiveClearCmd(o *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Permanently delete every archived record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				confirmed := false
				err := huh.NewConfirm().
					Title("Delete the whole archive?").
					Description("Archived tasks cannot be recovered.").
					Affirmative("Yes, delete").
					Negative("Cancel").
					Value(&confirmed).
					Run()
				if err != nil {
					return fmt.Errorf("confirming: %w", err)
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				n, err := e.engine.Clear(ctx, owner)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d archived %s\n", n, pluralize(n, "task", "tasks"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newArchiveExportCmd(o *options) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the archive and its stats as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				records, err := e.engine.List(ctx, owner)
				if err != nil {
					return err
				}
				stats, err := e.engine.Stats(ctx, owner)
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if out != "" {
					file, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("creating %s: %w", out, err)
					}
					defer file.Close()
					w = file
				}

				return export.Write(w, f, export.Document{
					OwnerID:    owner,
					ExportedAt: e.cal.Now(),
					Stats:      stats,
					Tasks:      records,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "yaml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func pluralize(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
