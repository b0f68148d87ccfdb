package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/taskdesk/internal/credential"
)

func newLoginCmd(o *options) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Remember which owner the CLI acts as",
		Long: `Save an owner id (and optionally the bearer token used by the HTTP API)
in the system keyring. Later commands act as this owner unless --owner or
TASKDESK_OWNER says otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner := strings.TrimSpace(o.owner)
			if owner == "" {
				return errors.New("--owner is required")
			}
			vault, err := credential.Open()
			if err != nil {
				return err
			}
			if err := vault.Save(credential.Session{OwnerID: owner, Token: token}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", owner)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer token for the HTTP API")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vault, err := credential.Open()
			if err != nil {
				return err
			}
			if err := vault.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the owner commands act as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			owner, err := o.ownerFor(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), owner)
			return nil
		},
	}
}
