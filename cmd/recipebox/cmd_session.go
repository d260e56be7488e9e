package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/domain"
)

func newLoginCmd(gf *globalFlags) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session record",
		Long: `Sign in against the configured API and store {id, username, firstName}
locally. The password is prompted for when --password is not given.

Example:
  recipebox login -u emilys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, gf)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("password") {
				fmt.Fprintln(out, display.RenderBanner(0))
				if username, password, err = readCredentials(cmd.InOrStdin(), out, username); err != nil {
					return err
				}
			}

			console := display.NewConsole(out, a.log)
			g := a.gate(console, console)
			_, err = g.Login(cmd.Context(), username, password)
			// There is no catalog screen to redirect to here.
			g.CancelPending()
			if err != nil && cmd.Context().Err() == nil {
				// The console printed the message.
				return reportedError{err}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored session record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, gf)
			if err != nil {
				return err
			}
			defer a.Close()

			console := display.NewConsole(cmd.OutOrStdout(), a.log)
			if err := a.gate(console, console).Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, gf)
			if err != nil {
				return err
			}
			defer a.Close()

			console := display.NewConsole(cmd.OutOrStdout(), a.log)
			rec, err := a.gate(console, console).Current(cmd.Context())
			if errors.Is(err, domain.ErrNoSession) {
				return errNotLoggedIn
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (username %s, id %d)\n", rec.DisplayName(), rec.Username, rec.ID)
			return nil
		},
	}
}

// readCredentials prompts for whatever is missing. The password is read
// without echo when in is a terminal.
func readCredentials(in io.Reader, out io.Writer, username string) (string, string, error) {
	r := bufio.NewReader(in)

	if username == "" {
		fmt.Fprint(out, "username: ")
		var err error
		if username, err = readLine(r); err != nil {
			return "", "", err
		}
	}

	fmt.Fprint(out, "password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(out)
		return username, string(b), err
	}
	password, err := readLine(r)
	return username, password, err
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
