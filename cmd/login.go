// ABOUTME: Login and logout commands for bi-admin
// ABOUTME: Prompts for missing credentials and stores the session tokens

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as an admin",
	Long: `Sign in with an admin username and password. The access and refresh
tokens are saved to the session file so later commands stay signed in.

Missing credentials are prompted for when running in a terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		username, password := loginUsername, loginPassword
		if username == "" || password == "" {
			if err := promptCredentials(&username, &password); err != nil {
				exit(fail(os.Stdout, err))
			}
		}
		exit(runLogin(ctx, os.Stdout, username, password))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exit(runLogout(os.Stdout))
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Admin username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Admin password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}

// runLogin signs in and returns the exit code
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	c, err := newClient()
	if err != nil {
		return fail(w, err)
	}

	if err := c.Login(ctx, username, password); err != nil {
		if errors.Is(err, client.ErrInvalidCredentials) {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
		return fail(w, err)
	}

	creds := c.Session().Snapshot()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]any{
			"username":      creds.Username,
			"authenticated": creds.Authenticated,
			"api_url":       c.BaseURL(),
		}))
		return 0
	}
	fmt.Fprintf(w, "Logged in as %s at %s\n", creds.Username, c.BaseURL())
	return 0
}

// runLogout clears the session and returns the exit code
func runLogout(w io.Writer) int {
	c, err := newClient()
	if err != nil {
		return fail(w, err)
	}
	wasLoggedIn := c.EnsureAuthenticated() == nil

	if err := c.Logout(); err != nil {
		return fail(w, err)
	}
	if wasLoggedIn {
		fmt.Fprintln(w, "Logged out")
	} else {
		fmt.Fprintln(w, "Not logged in")
	}
	return 0
}

// promptCredentials asks for whatever is missing
func promptCredentials(username, password *string) error {
	if !isTerminal(os.Stdin) {
		return client.ErrMissingCredentials
	}

	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username).
			Validate(required("username")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("password")))
	}

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
