package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/browsim/internal/domain/history"
	"github.com/GriffinCanCode/browsim/internal/domain/navigation"
	"github.com/GriffinCanCode/browsim/internal/domain/resolver"
	"github.com/GriffinCanCode/browsim/internal/domain/tabs"
	"github.com/GriffinCanCode/browsim/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/browsim/internal/providers/storage"
	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router *gin.Engine
	coord  *navigation.Coordinator
	h      *Handlers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, storage.NewMemory())
}

func newFixtureWithStore(t *testing.T, kv storage.Store) *fixture {
	t.Helper()
	coord := navigation.New(resolver.Default(), tabs.New(), history.NewStore(kv))
	require.NoError(t, coord.Hydrate(context.Background()))

	h := NewHandlers(coord, history.NewFormatter("en"), monitoring.NewMetrics(), nil)
	router := gin.New()
	RegisterRoutes(router, h)
	return &fixture{router: router, coord: coord, h: h}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) navigation.State {
	t.Helper()
	var state navigation.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	return state
}

func TestRootAndHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"browsim"`)

	w = f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 1, body["tabs_open"])
	assert.Contains(t, body, "metrics")
}

func TestNavigate(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/navigate", `{"text":"example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	require.NotNil(t, state.Viewer)
	assert.Equal(t, "https://example.com", state.Viewer.Src)
	assert.Equal(t, navigation.SandboxPolicy, state.Viewer.Sandbox)
	assert.Len(t, state.History, 1)

	// the state endpoint agrees
	got := decodeState(t, f.do(t, http.MethodGet, "/api/state", ""))
	assert.Equal(t, state.ActiveTabID, got.ActiveTabID)
	require.NotNil(t, got.Current)
	assert.Equal(t, "example.com", got.Current.RawQuery)
}

func TestNavigateBlankIsNoop(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/navigate", `{"text":"   "}`)
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Nil(t, state.Viewer)
	assert.Empty(t, state.History)
}

func TestNavigateRejectsBadBodies(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{text`},
		{"null byte", `{"text":"a\u0000b"}`},
		{"too long", `{"text":"` + strings.Repeat("a", 9000) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/navigate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, f.coord.State().History)
}

func TestSetInput(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/api/input", `{"text":"half typed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "half typed", decodeState(t, w).PendingInput)
}

func TestTabLifecycle(t *testing.T) {
	f := newFixture(t)

	first := decodeState(t, f.do(t, http.MethodPost, "/api/navigate", `{"text":"a.com"}`)).ActiveTabID

	w := f.do(t, http.MethodPost, "/api/tabs", "")
	require.Equal(t, http.StatusCreated, w.Code)
	state := decodeState(t, w)
	require.Len(t, state.Tabs, 2)
	assert.True(t, state.Closable)
	assert.Nil(t, state.Viewer)
	second := state.ActiveTabID

	w = f.do(t, http.MethodPost, "/api/tabs/"+first.String()+"/activate", "")
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Equal(t, first, state.ActiveTabID)
	assert.Equal(t, "a.com", state.PendingInput)

	w = f.do(t, http.MethodDelete, "/api/tabs/"+second.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Len(t, state.Tabs, 1)
	assert.False(t, state.Closable)

	// the last tab stays
	w = f.do(t, http.MethodDelete, "/api/tabs/"+first.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeState(t, w).Tabs, 1)
}

func TestTabErrors(t *testing.T) {
	f := newFixture(t)
	unknown := id.Default().NewTabID().String()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"activate unknown", http.MethodPost, "/api/tabs/" + unknown + "/activate", http.StatusNotFound},
		{"close unknown", http.MethodDelete, "/api/tabs/" + unknown, http.StatusNotFound},
		{"activate malformed", http.MethodPost, "/api/tabs/nope/activate", http.StatusBadRequest},
		{"close history id", http.MethodDelete, "/api/tabs/" + id.Default().NewEntryID().String(), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, "")
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
	assert.Len(t, f.coord.State().Tabs, 1)
}

func TestListHistoryRelative(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/navigate", `{"text":"a.com"}`)
	f.do(t, http.MethodPost, "/api/navigate", `{"text":"golang tutorials"}`)

	visited := f.coord.State().History[0].VisitedAt
	f.h.now = func() time.Time { return visited.Add(5 * time.Minute) }

	w := f.do(t, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Entries []HistoryItem `json:"entries"`
		Count   int           `json:"count"`
		Locale  string        `json:"locale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "en", body.Locale)
	assert.Equal(t, "https://www.google.com/search?q=golang%20tutorials", body.Entries[0].URL)
	assert.Equal(t, "5 min ago", body.Entries[0].Relative)
	assert.Equal(t, "a.com", body.Entries[1].Title)
}

func TestOpenHistory(t *testing.T) {
	f := newFixture(t)
	state := decodeState(t, f.do(t, http.MethodPost, "/api/navigate", `{"text":"a.com"}`))
	entryID := state.History[0].ID
	f.do(t, http.MethodPost, "/api/tabs", "")

	w := f.do(t, http.MethodPost, "/api/history/"+entryID.String()+"/open", "")
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Len(t, state.History, 1)
	require.NotNil(t, state.Viewer)
	assert.Equal(t, "https://a.com", state.Viewer.Src)

	w = f.do(t, http.MethodPost, "/api/history/"+id.Default().NewEntryID().String()+"/open", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/history/bogus/open", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/history/"+strings.Repeat("1", 200)+"/open", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpenHistoryLegacyID(t *testing.T) {
	kv := storage.NewMemory()
	legacy := `[{"id":"1714557600000","url":"https://b.com","title":"b.com","timestamp":1714557600000}]`
	require.NoError(t, kv.Set(context.Background(), history.DefaultKey, []byte(legacy)))
	f := newFixtureWithStore(t, kv)

	w := f.do(t, http.MethodPost, "/api/history/1714557600000/open", "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.Len(t, state.History, 1)
	require.NotNil(t, state.Viewer)
	assert.Equal(t, "https://b.com", state.Viewer.Src)
	assert.Equal(t, "b.com", state.PendingInput)
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/navigate", `{"text":"a.com"}`)

	w := f.do(t, http.MethodDelete, "/api/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeState(t, w).History)
}
