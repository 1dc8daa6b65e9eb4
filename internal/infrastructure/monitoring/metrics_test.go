package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// two collectors in one process must not collide
	a := NewMetrics()
	b := NewMetrics()

	a.RecordIntent("submit")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Navigations.WithLabelValues("submit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Navigations.WithLabelValues("submit")))
}

func TestNavigationMetrics(t *testing.T) {
	m := NewMetrics()

	m.SetTabsOpen(3)
	m.SetHistoryEntries(7)
	m.RecordPersistError()
	m.RecordPersistError()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.TabsOpen))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.HistoryEntries))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HistoryPersistErrors))

	snap := m.Snapshot()
	assert.EqualValues(t, 3, snap.TabsOpen)
	assert.EqualValues(t, 7, snap.HistoryEntries)
	assert.EqualValues(t, 2, snap.PersistErrors)
}

func TestStorageAndWSMetrics(t *testing.T) {
	m := NewMetrics()

	m.ObserveStorage("set", nil, time.Millisecond)
	m.ObserveStorage("set", errors.New("boom"), time.Millisecond)
	m.RecordWSMessage("in", "navigate")
	m.IncWSConnections()
	m.IncWSConnections()
	m.DecWSConnections()

	assert.Equal(t, 2, testutil.CollectAndCount(m.StorageDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSMessages.WithLabelValues("in", "navigate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSConnections))
	assert.EqualValues(t, 1, m.Snapshot().ActiveConnections)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := NewMetrics()
	router := gin.New()
	router.Use(Middleware(m))
	router.POST("/api/tabs/:id/activate", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for _, id := range []string{"tab_a", "tab_b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tabs/"+id+"/activate", nil))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/api/tabs/:id/activate", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	snap := m.Snapshot()
	assert.EqualValues(t, 3, snap.TotalRequests)
	assert.EqualValues(t, 3, snap.TotalErrors)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordIntent("new_tab")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `browsim_navigations_total{intent="new_tab"} 1`)
	assert.Contains(t, string(body), "browsim_uptime_seconds")
}
