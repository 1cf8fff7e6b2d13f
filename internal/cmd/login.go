package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leoconnect/leoconnect/internal/auth"
	"github.com/leoconnect/leoconnect/internal/session"
)

// loginCmd runs the interactive Google sign-in and exchanges the identity
// token for a LeoConnect session.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your Google account",
	Long: `Sign in to LeoConnect through your Google account.

A browser window opens for the Google consent screen; once you approve,
the identity token is verified by the LeoConnect backend and the session
is stored on this device.

Examples:
  leoconnect login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		// Missing OAuth credentials fail here, before anything opens.
		if err := app.cfg.ValidateOAuth(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := app.bootstrap(ctx); err != nil {
			return err
		}

		if app.controller.State() == session.StateAuthenticated {
			printSession(cmd, app.controller.Session())
			fmt.Fprintln(cmd.OutOrStdout(), "Already signed in. Use 'leoconnect logout' to switch accounts.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Opening your browser for Google sign-in...")

		outcome, err := app.exchanger.BeginSignIn(ctx)
		if err != nil {
			return err
		}

		switch outcome.Kind {
		case auth.OutcomeCancelled:
			// A cancel is not a failure; no alarming message.
			fmt.Fprintln(cmd.OutOrStdout(), "Sign-in cancelled.")
			return nil
		case auth.OutcomeError:
			return fmt.Errorf("sign-in failed: %s", outcome.Message)
		}

		if err := app.controller.Login(ctx, outcome.IDToken); err != nil {
			if errors.Is(err, session.ErrNotRegistered) {
				fmt.Fprintln(cmd.OutOrStdout(), "Your Google account is not registered with LeoConnect.")
				fmt.Fprintln(cmd.OutOrStdout(), "Ask your chapter administrator to add you as a member.")
			}
			return err
		}

		printSession(cmd, app.controller.Session())
		fmt.Fprintf(cmd.OutOrStdout(), "Next screen: %s\n", app.controller.Destination())
		return nil
	},
}

func printSession(cmd *cobra.Command, s *session.Session) {
	if s == nil {
		return
	}
	if s.User == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Signed in (profile not cached).")
		return
	}
	role := s.User.Role.String()
	if role == "" {
		role = "no role"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s> (%s)\n", s.User.Name, s.User.Email, role)
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
