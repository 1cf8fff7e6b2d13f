package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leoconnect/leoconnect/internal/api"
	"github.com/leoconnect/leoconnect/internal/session"
)

var statusVerify bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Long: `Show the session stored on this device.

By default status trusts the stored session without contacting the
backend. Pass --verify to confirm the token with the backend and refresh
the cached profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		ctx := cmd.Context()
		if err := app.bootstrap(ctx); err != nil {
			return err
		}

		if app.controller.State() != session.StateAuthenticated {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in. Run 'leoconnect login' to sign in.")
			return nil
		}

		printSession(cmd, app.controller.Session())
		fmt.Fprintf(cmd.OutOrStdout(), "Next screen: %s\n", app.controller.Destination())

		if !statusVerify {
			return nil
		}

		user, err := app.client.Me(ctx)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				fmt.Fprintln(cmd.OutOrStdout(), "Session is no longer valid; signed out.")
				return nil
			}
			return fmt.Errorf("verify session: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session verified for %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusVerify, "verify", false, "confirm the session with the backend")
	rootCmd.AddCommand(statusCmd)
}
