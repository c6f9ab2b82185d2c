package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"expense-wallet/internal/auth"
	"expense-wallet/internal/ledger"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Open the wallet for an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(a.stdout, "Password: ")
				var err error
				password, err = readPassword(a.stdin)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(a.stdout) // Print newline after password input
			}

			if err := auth.CheckCredentials(args[0], password); err != nil {
				return err
			}
			s, err := a.store.Dispatch(ledger.Login{Email: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Logged in as %s (%d expenses)\n", s.User.Email, len(s.Expenses))
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (optional, will prompt if omitted)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Close the wallet and discard its expenses",
		Args:    cobra.NoArgs,
		PreRunE: a.requireLogin,
		RunE: func(_ *cobra.Command, _ []string) error {
			email := a.store.State().User.Email
			if _, err := a.store.Dispatch(ledger.Logout{}); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Logged out %s\n", email)
			return nil
		},
	}
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
