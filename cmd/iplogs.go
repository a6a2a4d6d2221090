// ABOUTME: IP logs command for bi-admin
// ABOUTME: Lists visitor addresses with visit counts and the paths they requested

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

var (
	ipLogsAll   bool
	ipLogsPaths bool
)

var ipLogsCmd = &cobra.Command{
	Use:   "iplogs",
	Short: "Show visitor IP logs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runIPLogs(ctx, os.Stdout, ipLogsAll, ipLogsPaths))
	},
}

func init() {
	ipLogsCmd.Flags().BoolVar(&ipLogsAll, "all", false, "Fetch every page")
	ipLogsCmd.Flags().BoolVar(&ipLogsPaths, "paths", false, "List every visited path")
	rootCmd.AddCommand(ipLogsCmd)
}

// runIPLogs lists visitor logs and returns exit code
func runIPLogs(ctx context.Context, w io.Writer, all, paths bool) int {
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	page, err := c.IPLogs(ctx)
	if err != nil {
		return fail(w, err)
	}
	if all {
		page.Results, err = client.Collect(ctx, c, *page, 0)
		if err != nil {
			return fail(w, err)
		}
		page.Links = client.Links{}
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(page))
	} else {
		fmt.Fprintln(w, formatIPLogsHuman(page, paths))
	}
	return 0
}

// formatIPLogsHuman formats visitor logs for human readability
func formatIPLogsHuman(page *client.IPLogPage, paths bool) string {
	if len(page.Results) == 0 {
		return "No visits logged."
	}
	tw := newTable("IP address", "Visits", "Paths")
	for _, e := range page.Results {
		tw.AppendRow([]any{e.IPAddress, e.VisitCount, summarizePaths(e.VisitedPaths, paths)})
	}
	return tw.Render() + "\n" + pageFooter(len(page.Results), page.Count, page.HasNext())
}

func summarizePaths(visited []string, full bool) string {
	if full || len(visited) <= 3 {
		return strings.Join(visited, "\n")
	}
	return fmt.Sprintf("%s\n... %d more", strings.Join(visited[:3], "\n"), len(visited)-3)
}
