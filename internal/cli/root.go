// Package cli is the assocadmin command line: it drives the session manager
// and route guard from a terminal.
package cli

import (
	"context"

	"github.com/jrsteele09/go-assoc-admin/authapi"
	"github.com/jrsteele09/go-assoc-admin/guard"
	"github.com/jrsteele09/go-assoc-admin/httpclient"
	"github.com/jrsteele09/go-assoc-admin/internal/config"
	"github.com/jrsteele09/go-assoc-admin/internal/logger"
	"github.com/jrsteele09/go-assoc-admin/session"
	"github.com/jrsteele09/go-assoc-admin/tokenstore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// stack is the console core wired from configuration.
type stack struct {
	client *httpclient.Client
	mgr    *session.Manager
	guard  *guard.Guard
}

// app carries the configuration and the lazily built stack between commands.
type app struct {
	config config.Config
	stack  *stack
}

// NewRootCmd builds the assocadmin command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "assocadmin",
		Short: "Association admin console session tools",
		Long: `assocadmin logs in to the association backend and inspects the session
the admin console would run under.

The token is kept in the configured token store (ASSOC_TOKEN_STORE: file,
memory or redis) so later commands reuse the session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.config = config.New()
			logger.Setup(a.config.GetLogLevel(), a.config.GetEnv())
		},
	}

	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newProfileCmd(a),
		newPasswordCmd(a),
		newCanCmd(a),
	)
	return rootCmd
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// session builds the stack on first use and restores any stored session.
func (a *app) session(ctx context.Context) (*stack, error) {
	if a.stack != nil {
		return a.stack, nil
	}
	if a.config == nil {
		a.config = config.New()
	}

	client, err := httpclient.New(a.config.GetAPIBaseURL(), httpclient.WithTimeout(a.config.GetHTTPTimeout()))
	if err != nil {
		return nil, errors.Wrap(err, "[cli] http client")
	}
	mgr, err := session.NewManager(tokenstore.New(a.config), authapi.New(client), client)
	if err != nil {
		return nil, errors.Wrap(err, "[cli] session manager")
	}
	client.SetUnauthorizedHandler(mgr.UnauthorizedHandler())

	if err := mgr.Init(ctx); err != nil {
		return nil, errors.Wrap(err, "[cli] restore session")
	}
	mgr.CheckExpiry(ctx)

	a.stack = &stack{client: client, mgr: mgr, guard: guard.New(mgr)}
	return a.stack, nil
}

// resultError turns a failed Result into the error cobra reports.
func resultError(result session.Result) error {
	if result.Success {
		return nil
	}
	return errors.New(result.Message)
}
