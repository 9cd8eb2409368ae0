package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/puzzleboard/internal/api"
	"github.com/mcoot/puzzleboard/internal/api/response"
	"github.com/mcoot/puzzleboard/internal/cli"
	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/factory"
	"github.com/mcoot/puzzleboard/internal/services/auth"
	"github.com/mcoot/puzzleboard/internal/testutil"
	"github.com/mcoot/puzzleboard/internal/web"
)

// startServer runs the API and dashboard together, as cmd/server does
func startServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()

	app := factory.NewTestAppWithConfig(cfg)
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:             app.Logger,
		Storage:            app.Storage,
		StorageName:        cfg.Storage,
		Catalogue:          app.Catalogue,
		LeaderboardService: app.LeaderboardService,
		IngestService:      app.IngestService,
		AuthService:        app.AuthService,
		Metrics:            app.Metrics,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:             app.Logger,
		Storage:            app.Storage,
		LeaderboardService: app.LeaderboardService,
		IngestService:      app.IngestService,
		AuthService:        app.AuthService,
		Metrics:            app.Metrics,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", apiRouter)
	mux.Handle("/", webRouter)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeChat(t *testing.T, seed int64) (string, testutil.Chat) {
	t.Helper()
	chat := testutil.NewChatGenerator(seed).Chat(testutil.ChatOptions{Days: 5, Players: 4})
	path := filepath.Join(t.TempDir(), "WhatsApp Chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(chat.Text), 0o600))
	return path, chat
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// Uploading through the CLI gives the same leaderboard as ranking the file
// locally, and the dashboard shows it.
func TestUploadThenView(t *testing.T) {
	server := startServer(t, config.Default())
	path, chat := writeChat(t, 42)

	stdout, err := runCLI(t, "remote", "upload", path, "--server-url", server.URL, "-o", "json")
	require.NoError(t, err)
	var imported response.ImportResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &imported))
	assert.Equal(t, len(chat.Records), imported.Import.RecordsStored)

	remoteOut, err := runCLI(t, "remote", "leaderboard", "--server-url", server.URL, "-o", "json")
	require.NoError(t, err)
	localOut, err := runCLI(t, "rank", "-i", path, "-o", "json")
	require.NoError(t, err)

	var remote, local response.Report
	require.NoError(t, json.Unmarshal([]byte(remoteOut), &remote))
	require.NoError(t, json.Unmarshal([]byte(localOut), &local))
	assert.Equal(t, local.Leaderboard, remote.Leaderboard)
	require.NotEmpty(t, remote.Leaderboard)

	resp := get(t, server.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, len(remote.Leaderboard), doc.Find("table.leaderboard tr.entry").Length())
	assert.Equal(t, remote.Leaderboard[0].Player, strings.TrimSpace(doc.Find("tr.entry .player").First().Text()))

	resp = get(t, server.URL+"/chart.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	png, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	resp = get(t, server.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	metrics, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `puzzleboard_imports_total{outcome="ok"} 1`)
}

func TestUploadKeyEnforced(t *testing.T) {
	hash, err := auth.HashKey("s3cret")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.UploadKeyHash = hash
	server := startServer(t, cfg)
	path, _ := writeChat(t, 7)

	_, err = runCLI(t, "remote", "upload", path, "--server-url", server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPLOAD_KEY_REQUIRED")

	_, err = runCLI(t, "remote", "upload", path, "--server-url", server.URL, "--upload-key", "s3cret")
	require.NoError(t, err)
}
