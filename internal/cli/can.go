package cli

import (
	"fmt"

	"github.com/jrsteele09/go-assoc-admin/guard"
	"github.com/spf13/cobra"
)

func newCanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "can <permission>",
		Short: "Show what the route guard decides for a permission",
		Long: `Evaluate the route guard for a route requiring <permission> under the
current session, e.g. vendors:write or associations:delete.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := guard.NewRoute("/"+args[0], args[0])
			if err != nil {
				return err
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			decision := s.guard.Evaluate(route)
			if decision.RedirectTo != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", route.Permission, decision.Outcome, decision.RedirectTo)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", route.Permission, decision.Outcome)
			return nil
		},
	}
}
