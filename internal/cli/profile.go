package cli

import (
	"fmt"
	"io"

	"github.com/jrsteele09/go-assoc-admin/internal/utils"
	"github.com/jrsteele09/go-assoc-admin/session"
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/spf13/cobra"
)

func newProfileCmd(a *app) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			user, err := s.mgr.GetProfile(cmd.Context())
			if err := resultError(session.ResultOf(err)); err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update your name, phone or email",
		Long: `Update profile fields. Only the flags you pass are changed.

Examples:
  assocadmin profile update --name "Ada Lovelace"
  assocadmin profile update --phone 555-0100 --email ada@assoc.local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update users.ProfileUpdate
			for flag, field := range map[string]**string{
				"name":  &update.Name,
				"phone": &update.Phone,
				"email": &update.Email,
			} {
				if cmd.Flags().Changed(flag) {
					value, _ := cmd.Flags().GetString(flag)
					*field = utils.Ptr(value)
				}
			}

			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			user, err := s.mgr.UpdateProfile(cmd.Context(), update)
			if err := resultError(session.ResultOf(err)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
	updateCmd.Flags().String("name", "", "Display name")
	updateCmd.Flags().String("phone", "", "Phone number")
	updateCmd.Flags().String("email", "", "Email address")

	profileCmd.AddCommand(getCmd, updateCmd)
	return profileCmd
}

func printUser(out io.Writer, user *users.User) {
	fmt.Fprintf(out, "Name:  %s\n", user.Name)
	fmt.Fprintf(out, "Email: %s\n", user.Email)
	fmt.Fprintf(out, "Phone: %s\n", user.Phone)
	fmt.Fprintf(out, "Role:  %s\n", user.Role)
}
