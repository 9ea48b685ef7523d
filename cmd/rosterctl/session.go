package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:     "signup <email>",
	Short:   "Create an admin identity",
	GroupID: "session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		w := cmd.OutOrStdout()

		pass, err := promptPassword(w, "Password")
		if err != nil {
			return err
		}
		confirm, err := promptPassword(w, "Repeat password")
		if err != nil {
			return err
		}
		if pass != confirm {
			return errors.New("passwords do not match")
		}

		id, err := rosterClient.SignUp(ctx, args[0], pass)
		if err != nil {
			return err
		}
		if err := rosterClient.SignIn(ctx, args[0], pass); err != nil {
			return err
		}
		fmt.Fprintf(w, "Signed up as %s (%s)\n", args[0], id)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:     "login [email]",
	Short:   "Sign in and store the session",
	GroupID: "session",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			e, err := promptLine(bufio.NewReader(os.Stdin), w, "Email")
			if err != nil {
				return err
			}
			email = e
		}

		pass, err := promptPassword(w, "Password")
		if err != nil {
			return err
		}

		if err := rosterClient.SignIn(context.Background(), email, pass); err != nil {
			return err
		}
		fmt.Fprintln(w, "Signed in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Sign out and forget the stored session",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rosterClient.SignOut(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var gateCmd = &cobra.Command{
	Use:     "gate",
	Short:   "Show which view the stored session opens",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := rosterClient.Gate(context.Background())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "state: %s\n", g.State)
		if g.View != "" {
			fmt.Fprintf(w, "view:  %s\n", g.View)
		}
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:     "account",
	Short:   "Create, join or show the roster account",
	GroupID: "session",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an account and become its admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := rosterClient.CreateAccount(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %q. Invite code: %s\n", account.Name, account.InviteCode)
		return nil
	},
}

var accountJoinCmd = &cobra.Command{
	Use:   "join <invite-code>",
	Short: "Join an account with an invite code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := rosterClient.JoinAccount(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Joined %q.\n", account.Name)
		return nil
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, role, err := rosterClient.Account(context.Background())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "name:        %s\n", account.Name)
		fmt.Fprintf(w, "id:          %s\n", account.ID)
		fmt.Fprintf(w, "role:        %s\n", role)
		fmt.Fprintf(w, "invite code: %s\n", account.InviteCode)
		return nil
	},
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountJoinCmd)
	accountCmd.AddCommand(accountShowCmd)
}
