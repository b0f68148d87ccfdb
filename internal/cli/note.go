package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/taskdesk/internal/calendar"
	"github.com/nhle/taskdesk/internal/model"
	"github.com/nhle/taskdesk/internal/notes"
)

// noteScope holds the --project and --date flags shared by note commands.
type noteScope struct {
	project string
	date    string
}

func (s *noteScope) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.project, "project", "", "project id (omit for notes without a project)")
	cmd.Flags().StringVar(&s.date, "date", "", "day the note belongs to (omit for undated notes)")
}

func (s *noteScope) resolve(cal *calendar.Normalizer) (*string, calendar.DayKey, error) {
	day, err := cal.Normalize(s.date)
	if err != nil {
		return nil, "", fmt.Errorf("--date: %v: %w", err, model.ErrInvalidArgs)
	}
	if s.project == "" {
		return nil, day, nil
	}
	id := s.project
	return &id, day, nil
}

func newNoteCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read and write notes for a project and day",
	}
	cmd.AddCommand(newNoteSetCmd(o))
	cmd.AddCommand(newNoteShowCmd(o))
	return cmd
}

func newNoteSetCmd(o *options) *cobra.Command {
	var scope noteScope

	cmd := &cobra.Command{
		Use:   "set <text>",
		Short: "Write the note for a scope, replacing any existing text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				projectID, day, err := scope.resolve(e.cal)
				if err != nil {
					return err
				}
				note, err := notes.NewService(e.store).Set(ctx, owner, projectID, day, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved note %s\n", note.ScopeKey)
				return nil
			})
		},
	}

	scope.bind(cmd)
	return cmd
}

func newNoteShowCmd(o *options) *cobra.Command {
	var scope noteScope

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the note for a scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withOwner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, e *env, owner string) error {
				projectID, day, err := scope.resolve(e.cal)
				if err != nil {
					return err
				}
				note, err := notes.NewService(e.store).Get(ctx, owner, projectID, day)
				if errors.Is(err, model.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "No note.")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), note.Text)
				return nil
			})
		},
	}

	scope.bind(cmd)
	return cmd
}
