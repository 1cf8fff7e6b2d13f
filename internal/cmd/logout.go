package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the local session",
	Long: `Sign out of LeoConnect on this device.

The stored session is removed and, when possible, the token is revoked
with the identity provider. Logout always succeeds locally even when the
provider cannot be reached.`,
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

		if app.controller.Token() == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}

		if err := app.controller.Logout(ctx); err != nil {
			return err
		}
		app.client.ClearToken()

		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
