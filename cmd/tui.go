// ABOUTME: TUI command for bi-admin
// ABOUTME: Launches the interactive admin console on the stored session

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NikhilRakesh/Bi-Admin/internal/debuglog"
	"github.com/NikhilRakesh/Bi-Admin/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive admin console",
	Long: `Open the interactive admin console. Starts at the menu when a session is
stored, otherwise at the login form. When the session can no longer be
refreshed the console returns to the login form.

Logs are written to debug.log in the config directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runTUI(ctx))
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI runs the console until the user quits and returns exit code
func runTUI(ctx context.Context) int {
	c, err := newClient()
	if err != nil {
		return fail(os.Stderr, err)
	}
	debuglog.Log("tui: starting against %s", c.BaseURL())

	if err := tui.Run(ctx, c); err != nil {
		return fail(os.Stderr, err)
	}
	return 0
}
