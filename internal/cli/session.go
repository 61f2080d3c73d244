package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the session identity used for progress tracking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.identity()
			if err != nil {
				return err
			}
			st, err := e.store.Load()
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, titleStyle.Render("Session"), id)
			if st.Token != "" {
				fmt.Fprintln(e.out, dimStyle.Render("signed token expires "+st.ExpiresAt))
			} else {
				fmt.Fprintln(e.out, dimStyle.Render("local identity (no signed token)"))
			}
			fmt.Fprintln(e.out, dimStyle.Render("state: "+e.store.Path()))
			return nil
		},
	}

	var local bool
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Start over with a fresh identity",
		Long:  "Asks the backend to issue a new signed session. With --local a new identity is generated without contacting the backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if local {
				if err := e.store.ForgetIdentity(); err != nil {
					return err
				}
				id, err := e.identity()
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, okStyle.Render("New local session"), id)
				return nil
			}
			grant, err := e.api.CreateSession(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := e.store.Adopt(grant.SessionID, grant.Token, grant.ExpiresAt); err != nil {
				return err
			}
			e.api.SetToken(grant.Token)
			fmt.Fprintln(e.out, okStyle.Render("New session"), grant.SessionID)
			return nil
		},
	}
	newCmd.Flags().BoolVar(&local, "local", false, "generate the identity locally")
	cmd.AddCommand(newCmd)
	return cmd
}
