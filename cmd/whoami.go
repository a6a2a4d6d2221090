// ABOUTME: Whoami command for bi-admin
// ABOUTME: Shows the stored session and when its access token expires

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
	"github.com/NikhilRakesh/Bi-Admin/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in admin",
	Long: `Show the stored session: the API it belongs to, the admin username, and
the access token expiry. Nothing is sent to the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		exit(runWhoami(os.Stdout, time.Now()))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// SessionInfo is the whoami report
type SessionInfo struct {
	APIURL          string     `json:"api_url"`
	SessionFile     string     `json:"session_file,omitempty"`
	Username        string     `json:"username"`
	Authenticated   bool       `json:"authenticated"`
	HasRefreshToken bool       `json:"has_refresh_token"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
	AccessExpired   bool       `json:"access_expired"`
}

// runWhoami prints the session report and returns the exit code
func runWhoami(w io.Writer, now time.Time) int {
	c, err := newClient()
	if err != nil {
		return fail(w, err)
	}
	if err := c.EnsureAuthenticated(); err != nil {
		return fail(w, err)
	}

	info := sessionInfo(c.BaseURL(), c.Session(), now)
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(info))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(info))
	}
	return 0
}

func sessionInfo(apiURL string, sess *session.Store, now time.Time) SessionInfo {
	creds := sess.Snapshot()
	info := SessionInfo{
		APIURL:          apiURL,
		SessionFile:     sess.Path(),
		Username:        creds.Username,
		Authenticated:   creds.Authenticated,
		HasRefreshToken: creds.HasRefreshToken(),
	}
	if exp, ok := tokenExpiry(creds.AccessToken); ok {
		info.AccessExpiresAt = &exp
		info.AccessExpired = !now.Before(exp)
	}
	return info
}

// tokenExpiry reads the exp claim of a JWT without verifying it. The client
// never holds the signing key; the expiry is informational only.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// formatWhoamiHuman formats the session report for human readability
func formatWhoamiHuman(info SessionInfo) string {
	user := info.Username
	if user == "" {
		user = "(unknown)"
	}
	access := "opaque token"
	if info.AccessExpiresAt != nil {
		access = "expires " + info.AccessExpiresAt.Local().Format(time.RFC1123)
		if info.AccessExpired {
			access = "expired " + info.AccessExpiresAt.Local().Format(time.RFC1123) + " (will refresh on next request)"
		}
	}
	refresh := "present"
	if !info.HasRefreshToken {
		refresh = "missing (" + client.ErrNoRefreshToken.Error() + ")"
	}

	return fmt.Sprintf(`API:           %s
User:          %s
Access token:  %s
Refresh token: %s
Session file:  %s`, info.APIURL, user, access, refresh, sessionFileLabel(info.SessionFile))
}

func sessionFileLabel(path string) string {
	if path == "" {
		return "(memory only)"
	}
	return path
}
