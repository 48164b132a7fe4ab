package reconciler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory stand-in for the design server, tracking one
// scenario and at most one draft.
type fakeAPI struct {
	mu         sync.Mutex
	draft      *Design
	nextID     uint64
	submitFail bool
	saves      int
}

func newFakeAPI() *fakeAPI { return &fakeAPI{nextID: 7} }

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/scenarios/10", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Scenario{ID: 10, Title: "URL shortener", Difficulty: "MEDIUM"})
	})
	mux.HandleFunc("GET /v1/designs/scenario/10/draft", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]*Design{"design": f.draft})
	})
	mux.HandleFunc("POST /v1/designs", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ScenarioID      uint64 `json:"scenario_id"`
			DiagramData     string `json:"diagram_data"`
			TextExplanation string `json:"text_explanation"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.saves++
		code := http.StatusOK
		if f.draft == nil {
			f.draft = &Design{ID: f.nextID, ScenarioID: req.ScenarioID, Status: "DRAFT"}
			code = http.StatusCreated
		}
		f.draft.DiagramData = json.RawMessage(req.DiagramData)
		f.draft.TextExplanation = req.TextExplanation
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(f.draft)
	})
	mux.HandleFunc("PUT /v1/designs/7", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DiagramData     string `json:"diagram_data"`
			TextExplanation string `json:"text_explanation"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.saves++
		if f.draft == nil || f.draft.Status != "DRAFT" {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "conflicting design state"})
			return
		}
		f.draft.DiagramData = json.RawMessage(req.DiagramData)
		f.draft.TextExplanation = req.TextExplanation
		_ = json.NewEncoder(w).Encode(f.draft)
	})
	mux.HandleFunc("PATCH /v1/designs/7/submit", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.submitFail {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "conflicting design state"})
			return
		}
		f.draft.Status = "SUBMITTED"
		_ = json.NewEncoder(w).Encode(f.draft)
	})
	return mux
}

func newTestWorkspace(t *testing.T, api *fakeAPI) (*Workspace, *MemoryCache) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	cache := NewMemoryCache()
	return NewWorkspace(NewClient(srv.URL, "token"), cache, 1, 10), cache
}

func TestOpenFreshWhenNothingExists(t *testing.T) {
	ws, _ := newTestWorkspace(t, newFakeAPI())

	res, err := ws.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFresh, res.Source)
	assert.Empty(t, res.Elements)
	assert.Equal(t, "URL shortener", ws.Scenario().Title)
}

func TestOpenLoadsCloudDraft(t *testing.T) {
	api := newFakeAPI()
	api.draft = &Design{ID: 7, ScenarioID: 10, Status: "DRAFT",
		DiagramData: json.RawMessage(`[{"from":"cloud"}]`), TextExplanation: "cloud"}
	ws, _ := newTestWorkspace(t, api)

	res, err := ws.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceCloud, res.Source)
	assert.JSONEq(t, `[{"from":"cloud"}]`, res.Elements.Encode())
}

func TestOpenPrefersValidLocalCache(t *testing.T) {
	api := newFakeAPI()
	api.draft = &Design{ID: 7, ScenarioID: 10, Status: "DRAFT",
		DiagramData: json.RawMessage(`[{"from":"cloud"}]`)}
	ws, cache := newTestWorkspace(t, api)
	require.NoError(t, cache.Set(CacheKey(1, 10),
		`{"elements":[{"from":"local"}],"explanation":"local"}`))

	res, err := ws.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
	assert.JSONEq(t, `[{"from":"local"}]`, res.Elements.Encode())
}

func TestOpenDiscardsCorruptCache(t *testing.T) {
	api := newFakeAPI()
	api.draft = &Design{ID: 7, ScenarioID: 10, Status: "DRAFT",
		DiagramData: json.RawMessage(`[{"from":"cloud"}]`)}
	ws, cache := newTestWorkspace(t, api)
	require.NoError(t, cache.Set(CacheKey(1, 10), "{{{corrupt"))

	res, err := ws.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceCloud, res.Source)
	_, ok := cache.Get(CacheKey(1, 10))
	assert.False(t, ok, "corrupt cache entry must be purged")
}

func TestAutoSaveThenSaveDraftClearsCache(t *testing.T) {
	api := newFakeAPI()
	ws, cache := newTestWorkspace(t, api)
	_, err := ws.Open(context.Background())
	require.NoError(t, err)

	ws.SetCanvas(ElementList{json.RawMessage(`{"type":"box"}`)}, "notes")
	assert.Equal(t, AutoSaveOK, ws.AutoSave())
	_, ok := cache.Get(CacheKey(1, 10))
	assert.True(t, ok)

	d, err := ws.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), d.ID)

	_, ok = cache.Get(CacheKey(1, 10))
	assert.False(t, ok, "cloud save supersedes the local copy")

	// The next save goes through the update path of the known design.
	ws.SetCanvas(ElementList{json.RawMessage(`{"type":"arrow"}`)}, "more")
	_, err = ws.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.saves)
	assert.JSONEq(t, `[{"type":"arrow"}]`, string(api.draft.DiagramData))
}

func TestSubmitSavesThenSubmits(t *testing.T) {
	api := newFakeAPI()
	ws, _ := newTestWorkspace(t, api)
	_, err := ws.Open(context.Background())
	require.NoError(t, err)

	ws.SetCanvas(ElementList{json.RawMessage(`{"type":"db"}`)}, "final")
	d, err := ws.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SUBMITTED", d.Status)
	assert.JSONEq(t, `[{"type":"db"}]`, string(api.draft.DiagramData))
}

func TestSubmitFailureLeavesSavedDraft(t *testing.T) {
	api := newFakeAPI()
	api.submitFail = true
	ws, _ := newTestWorkspace(t, api)
	_, err := ws.Open(context.Background())
	require.NoError(t, err)

	ws.SetCanvas(ElementList{json.RawMessage(`{"type":"db"}`)}, "final")
	_, err = ws.Submit(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	// The draft reached the cloud even though the submit failed, so
	// nothing was lost and the submit can be retried.
	assert.NotNil(t, api.draft)
	assert.Equal(t, "DRAFT", api.draft.Status)
	assert.JSONEq(t, `[{"type":"db"}]`, string(api.draft.DiagramData))
}

func TestClearEmptiesCanvasAndCache(t *testing.T) {
	ws, cache := newTestWorkspace(t, newFakeAPI())
	_, err := ws.Open(context.Background())
	require.NoError(t, err)

	ws.SetCanvas(ElementList{json.RawMessage(`{"type":"box"}`)}, "notes")
	ws.AutoSave()
	ws.Clear()

	assert.Empty(t, ws.Elements())
	_, ok := cache.Get(CacheKey(1, 10))
	assert.False(t, ok)
}
