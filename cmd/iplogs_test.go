// ABOUTME: Tests for the iplogs command
// ABOUTME: Verifies path summaries and visitor log output

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

func TestSummarizePaths(t *testing.T) {
	paths := []string{"/", "/search", "/b/1", "/b/2", "/b/3"}

	assert.Equal(t, "/\n/search\n/b/1\n... 2 more", summarizePaths(paths, false))
	assert.Equal(t, "/\n/search\n/b/1\n/b/2\n/b/3", summarizePaths(paths, true))
	assert.Equal(t, "/", summarizePaths([]string{"/"}, false))
}

func TestFormatIPLogsHuman_Empty(t *testing.T) {
	assert.Equal(t, "No visits logged.", formatIPLogsHuman(&client.IPLogPage{}, false))
}

func TestRunIPLogs(t *testing.T) {
	f := newFakeAPI(t)
	useAPI(t, f, "A1", "R1")
	f.reply("/analytics/get_ip_logs/", http.StatusOK, `{"count": 12, "page_size": 1,
		"links": {"next": "https://api.brandsinfo.in/analytics/get_ip_logs/?page=2", "previous": null},
		"results": [{"ip_address": "203.0.113.7", "visit_count": 4, "visited_paths": ["/", "/search"]}]}`)

	var buf bytes.Buffer
	require.Equal(t, 0, runIPLogs(context.Background(), &buf, false, false))

	out := buf.String()
	assert.Contains(t, out, "203.0.113.7")
	assert.Contains(t, out, "/search")
	assert.Contains(t, out, "Showing 1 of 12 (use --all to fetch every page)")
}

func TestRunIPLogs_JSON(t *testing.T) {
	f := newFakeAPI(t)
	useAPI(t, f, "A1", "R1")
	f.reply("/analytics/get_ip_logs/", http.StatusOK, `{"count": 1,
		"links": {"next": null, "previous": null},
		"results": [{"ip_address": "203.0.113.7", "visit_count": 4, "visited_paths": ["/"]}]}`)
	jsonOutput(t)

	var buf bytes.Buffer
	require.Equal(t, 0, runIPLogs(context.Background(), &buf, false, false))

	var page client.IPLogPage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	require.Len(t, page.Results, 1)
	assert.Equal(t, 4, page.Results[0].VisitCount)
}
