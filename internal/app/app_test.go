package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nwcli/internal/config"
)

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", contentTypeFor("index.html"))
	assert.Equal(t, "application/javascript", contentTypeFor("race.js"))
	assert.Equal(t, "text/css", contentTypeFor("style.css"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("data.bin"))
}

func TestResolvePathsHonorsDataDirOverride(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.LogsDir = filepath.Join(base, "custom-logs")

	paths, err := resolvePaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(base, "custom-logs"), paths.LogsDir)
}

func newDashboardApp() *Application {
	return &Application{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		DashboardFS: fstest.MapFS{
			"index.html": {Data: []byte("<html>race</html>")},
			"race.js":    {Data: []byte("console.log('race')")},
		},
	}
}

func TestServeDashboardIndex(t *testing.T) {
	a := newDashboardApp()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	a.serveDashboard(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "race")
}

func TestServeDashboardAsset(t *testing.T) {
	a := newDashboardApp()

	req := httptest.NewRequest(http.MethodGet, "/race.js", nil)
	rec := httptest.NewRecorder()
	a.serveDashboard(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/javascript", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
}

func TestServeDashboardSPAFallback(t *testing.T) {
	a := newDashboardApp()

	req := httptest.NewRequest(http.MethodGet, "/some/deep/link", nil)
	rec := httptest.NewRecorder()
	a.serveDashboard(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}
