// ABOUTME: Root command for the bi-admin CLI
// ABOUTME: Binds global flags to viper and builds the session-bound API client

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
	"github.com/NikhilRakesh/Bi-Admin/internal/config"
	"github.com/NikhilRakesh/Bi-Admin/internal/debuglog"
	"github.com/NikhilRakesh/Bi-Admin/internal/session"
)

// Version is set at build time
var Version = "dev"

var cfgFile string

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "bi-admin",
	Short: "Admin console for the BrandsInfo business directory",
	Long: `bi-admin manages the BrandsInfo local-business directory from the terminal.

It signs in as an admin, keeps the session in your config directory, and
refreshes the access token transparently when it expires.

Environment Variables:
  BI_ADMIN_API_URL       API base URL (default: https://api.brandsinfo.in)
  BI_ADMIN_SESSION_FILE  Session file location
  BI_ADMIN_TIMEOUT       Request timeout (default: 30s)
  BI_ADMIN_DEBUG         Write debug logs to stderr and debug.log`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute() error {
	defer debuglog.Close()
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/bi-admin/config.yaml)")
	flags.String("api-url", "", "API base URL (overrides BI_ADMIN_API_URL)")
	flags.Bool("json", false, "Output JSON instead of human-readable text")
	flags.String("session-file", "", "Session file (default: $XDG_CONFIG_HOME/bi-admin/session.json)")
	flags.Duration("timeout", config.DefaultTimeout, "Per-request timeout")
	flags.Bool("debug", false, "Log requests and token refreshes to stderr")
	flags.Bool("coalesce-refresh", false, "Share one token refresh between concurrent requests")

	for key, flag := range map[string]string{
		config.KeyAPIURL:          "api-url",
		config.KeyJSON:            "json",
		config.KeySessionFile:     "session-file",
		config.KeyTimeout:         "timeout",
		config.KeyDebug:           "debug",
		config.KeyCoalesceRefresh: "coalesce-refresh",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig(cmd *cobra.Command, args []string) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	// the TUI owns the terminal, so it always logs to the file instead
	isTUI := cmd.Name() == "tui"
	opts := debuglog.Options{Stderr: cfg.Debug && !isTUI}
	if cfg.Debug || isTUI {
		opts.ConfigDir = config.DefaultConfigDir()
	}
	if err := debuglog.Init(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	return nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return viper.GetBool(config.KeyJSON)
}

// newClient loads the stored session and returns a client bound to it
func newClient() (*client.Client, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}

	sess := session.New(cfg.SessionFile)
	if err := sess.Load(); err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(debuglog.L()),
		client.WithUserAgent("bi-admin/" + Version),
	}
	if cfg.CoalesceRefresh {
		opts = append(opts, client.WithCoalescedRefresh())
	}
	return client.New(cfg.APIURL, sess, opts...), nil
}

// authedClient is newClient for commands that need a logged-in session
func authedClient() (*client.Client, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	if err := c.EnsureAuthenticated(); err != nil {
		return nil, err
	}
	return c, nil
}

// fail reports err and returns the exit code for it: 1 when the API
// rejected the operation, 2 for everything else.
func fail(w io.Writer, err error) int {
	debuglog.Error("command", err)
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	if errors.Is(err, client.ErrSessionExpired) || errors.Is(err, client.ErrNotLoggedIn) {
		return 2
	}
	status := client.StatusCode(err)
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError && status != http.StatusUnauthorized {
		return 1
	}
	return 2
}

// exit flushes the debug log before terminating with code
func exit(code int) {
	if code != 0 {
		debuglog.Close()
		os.Exit(code)
	}
}

// formatJSON renders v as indented JSON
func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// newTable returns a table writer in the CLI's style
func newTable(header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row(header))
	return tw
}

// pageFooter describes where a page sits in the full listing
func pageFooter(shown, total int, hasNext bool) string {
	footer := fmt.Sprintf("Showing %d of %d", shown, total)
	if hasNext {
		footer += " (use --all to fetch every page)"
	}
	return footer
}
