package web_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mcoot/puzzleboard/internal/config"
	"github.com/mcoot/puzzleboard/internal/factory"
	"github.com/mcoot/puzzleboard/internal/services/auth"
	"github.com/mcoot/puzzleboard/internal/web"
)

// webTestServer provides a test server for dashboard testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

func newWebTestServer(t *testing.T, cfg config.Config) *webTestServer {
	t.Helper()

	app := factory.NewTestAppWithConfig(cfg)
	router := web.NewRouter(web.RouterConfig{
		Logger:             app.Logger,
		Storage:            app.Storage,
		LeaderboardService: app.LeaderboardService,
		IngestService:      app.IngestService,
		AuthService:        app.AuthService,
		Metrics:            app.Metrics,
		StaticDir:          "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

func newSeededWebServer(t *testing.T) *webTestServer {
	t.Helper()
	ts := newWebTestServer(t, config.Default())
	require.NoError(t, ts.app.LoadChat(factory.SampleChat...))
	return ts
}

func (ts *webTestServer) do(req *http.Request) *httptest.ResponseRecorder {
	ts.cookies.addTo(req)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	ts.cookies.extract(rr)
	return rr
}

func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// upload posts a multipart form like the dashboard's upload form
func (ts *webTestServer) upload(filename, content, key string) *httptest.ResponseRecorder {
	ts.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(ts.t, err)
	_, _ = io.WriteString(fw, content)
	if key != "" {
		require.NoError(ts.t, mw.WriteField("key", key))
	}
	require.NoError(ts.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(req)
}

func parseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{cookies: make(map[string]*http.Cookie)}
}

func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

func playerColumn(doc *goquery.Document, selector string) []string {
	var players []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		players = append(players, strings.TrimSpace(s.Find(".player").Text()))
	})
	return players
}

func TestDashboardEmpty(t *testing.T) {
	ts := newWebTestServer(t, config.Default())

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr.Body)
	assert.Equal(t, 1, doc.Find("#leaderboard .empty").Length())
	assert.Equal(t, 0, doc.Find("table.leaderboard").Length())
	assert.Equal(t, 0, doc.Find("input[name=key]").Length())
}

func TestDashboardAllTime(t *testing.T) {
	ts := newSeededWebServer(t)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr.Body)
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, playerColumn(doc, "table.leaderboard tr.entry"))
	assert.Equal(t, "13", strings.TrimSpace(doc.Find("tr.entry .points").First().Text()))

	// One section per game played, in catalogue order
	var sections []string
	doc.Find("section.game").Each(func(_ int, s *goquery.Selection) {
		sections = append(sections, s.AttrOr("data-game", ""))
	})
	assert.Equal(t, []string{"Queens", "Zip", "Pinpoint"}, sections)

	// Day filter lists every day with results
	var days []string
	doc.Find("#day option").Each(func(_ int, s *goquery.Selection) {
		days = append(days, s.AttrOr("value", ""))
	})
	assert.Equal(t, []string{"", "2025-03-13", "2025-03-12"}, days)

	assert.Equal(t, "/chart.png", doc.Find("img.chart").AttrOr("src", ""))
	assert.Equal(t, 1, doc.Find("ul.imports li.import").Length())
}

func TestDashboardForDay(t *testing.T) {
	ts := newSeededWebServer(t)

	rr := ts.get("/?day=2025-03-12")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr.Body)
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, playerColumn(doc, "table.leaderboard tr.entry"))
	assert.Equal(t, "2025-03-12", doc.Find("#day option[selected]").AttrOr("value", ""))
	assert.Equal(t, "/chart.png?day=2025-03-12", doc.Find("img.chart").AttrOr("src", ""))
	assert.Equal(t, "/export.xlsx?day=2025-03-12", doc.Find("a.download").AttrOr("href", ""))
	assert.Equal(t, 0, doc.Find(`section.game[data-game="Pinpoint"]`).Length())
}

func TestDashboardInvalidDay(t *testing.T) {
	ts := newSeededWebServer(t)

	rr := ts.get("/?day=not-a-day")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	doc := parseHTML(t, rr.Body)
	assert.Equal(t, "400", strings.TrimSpace(doc.Find("section.error h1").Text()))
}

func TestUploadShowsFlash(t *testing.T) {
	ts := newWebTestServer(t, config.Default())

	rr := ts.upload("WhatsApp Chat.txt", strings.Join(factory.SampleChat, "\n"), "")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(t, rr.Body)
	flash := doc.Find(".flash-success")
	require.Equal(t, 1, flash.Length())
	assert.Contains(t, flash.Text(), "WhatsApp Chat.txt: 7 new of 7 results")
	assert.Len(t, playerColumn(doc, "table.leaderboard tr.entry"), 3)

	// The flash is shown once
	doc = parseHTML(t, ts.get("/").Body)
	assert.Equal(t, 0, doc.Find(".flash").Length())
}

func TestUploadRequiresKey(t *testing.T) {
	hash, err := auth.HashKey("letmein")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.UploadKeyHash = hash
	ts := newWebTestServer(t, cfg)

	doc := parseHTML(t, ts.get("/").Body)
	assert.Equal(t, 1, doc.Find("input[name=key]").Length())

	rr := ts.upload("chat.txt", strings.Join(factory.SampleChat, "\n"), "wrong")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	doc = parseHTML(t, ts.get("/").Body)
	assert.Contains(t, doc.Find(".flash-error").Text(), "not valid")
	assert.Equal(t, 1, doc.Find("#leaderboard .empty").Length())

	rr = ts.upload("chat.txt", strings.Join(factory.SampleChat, "\n"), "letmein")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	doc = parseHTML(t, ts.get("/").Body)
	assert.Equal(t, 1, doc.Find(".flash-success").Length())
}

func TestChart(t *testing.T) {
	ts := newSeededWebServer(t)

	rr := ts.get("/chart.png?day=2025-03-13")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))
}

func TestChartWithoutResults(t *testing.T) {
	ts := newWebTestServer(t, config.Default())

	rr := ts.get("/chart.png")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExportWorkbook(t *testing.T) {
	ts := newSeededWebServer(t)

	rr := ts.get("/export.xlsx?day=2025-03-12")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "puzzleboard-2025-03-12.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leaderboard")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Bob", rows[1][1])
}
