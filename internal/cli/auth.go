package cli

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-assoc-admin/session"
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with email and password",
		Long: `Login to the association backend with your email and password.

The returned token is saved in the token store and reused by later commands.

Examples:
  assocadmin login --email admin@assoc.local --password 'Passw0rd!'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := resultError(session.ResultOf(s.mgr.Login(cmd.Context(), users.Credentials{Email: email, Password: password}))); err != nil {
				return err
			}

			sess := s.mgr.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.DisplayName, sess.Role)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Email address (required)")
	cmd.Flags().String("password", "", "Password (required)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if !s.mgr.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			s.mgr.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "State:   %s\n", s.mgr.State())

			sess := s.mgr.Session()
			if sess == nil {
				fmt.Fprintln(out, "Use 'assocadmin login' to start a session.")
				return nil
			}
			fmt.Fprintf(out, "User:    %s\n", sess.DisplayName)
			fmt.Fprintf(out, "Role:    %s\n", sess.Role)
			fmt.Fprintf(out, "Subject: %s\n", sess.SubjectID)
			fmt.Fprintf(out, "Expires: %s\n", time.Unix(sess.Claims.ExpiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
}

func newPasswordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := cmd.Flags().GetString("current")
			newPassword, _ := cmd.Flags().GetString("new")

			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := s.mgr.ChangePassword(cmd.Context(), users.PasswordChange{CurrentPassword: current, NewPassword: newPassword})
			if err := resultError(session.ResultWith(msg, err)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().String("current", "", "Current password (required)")
	cmd.Flags().String("new", "", "New password (required)")
	return cmd
}
