package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leoconnect/leoconnect/internal/session"
)

// routecheckCmd prints the role-to-screen routing table. Hidden; it exists
// for support staff diagnosing "wrong landing screen" reports.
var routecheckCmd = &cobra.Command{
	Use:    "routecheck",
	Short:  "Print the role routing table",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		roles := []session.Role{
			session.RoleWebmaster,
			session.RoleSuperAdmin,
			session.RoleMember,
			session.RoleOther,
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROLE\tSCREEN")
		for _, r := range roles {
			name := r.String()
			if name == "" {
				name = "(none)"
			}
			fmt.Fprintf(w, "%s\t%s\n", name, session.DestinationFor(r))
		}
		fmt.Fprintf(w, "%s\t%s\n", "(not registered)", session.DestinationNotRegistered)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routecheckCmd)
}
