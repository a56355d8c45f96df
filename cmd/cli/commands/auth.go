package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in to or out of SAS Viya",
	}

	login := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with SAS Logon and store the refresh token in the OS keychain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Viya.Username != "" && a.cfg.Viya.Password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				a.cfg.Viya.Password = strings.TrimRight(line, "\r\n")
			}

			session, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if session.RefreshToken == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Authenticated to %s (client credentials, nothing stored)\n", a.cfg.Viya.URL)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s\n", a.cfg.Viya.URL)
			return nil
		},
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored refresh token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Viya.URL == "" {
				return fmt.Errorf("SAS Viya URL is required (--url or VIYA_URL)")
			}
			if err := a.tokens.Delete(a.cfg.Viya.URL); err != nil {
				return fmt.Errorf("delete token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", a.cfg.Viya.URL)
			return nil
		},
	}

	cmd.AddCommand(login, logout)
	return cmd
}
