package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astroview/internal/maprender"
	"astroview/internal/models"
	"astroview/internal/providers"
	"astroview/internal/refresh/interfaces"
	"astroview/internal/services"
	"astroview/internal/submit"
	"astroview/internal/view"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }

type mockScheduler struct {
	outcome      interfaces.RefreshOutcome
	err          error
	refreshCalls int
}

func (m *mockScheduler) Init()      {}
func (m *mockScheduler) Stop()      {}
func (m *mockScheduler) Bootstrap() {}
func (m *mockScheduler) Refresh() (interfaces.RefreshOutcome, error) {
	m.refreshCalls++
	return m.outcome, m.err
}
func (m *mockScheduler) Restore() error { return nil }
func (m *mockScheduler) Persist() error { return nil }

type mockPipeline struct {
	result *submit.Result
	err    error

	newCalls     int
	updateCalls  int
	gotDraft     models.SiteRecord
	gotOriginal  models.SiteRecord
	gotUpdated   models.SiteRecord
	gotChanges   []models.FieldChange
}

func (m *mockPipeline) SubmitNew(_ context.Context, draft models.SiteRecord) (*submit.Result, error) {
	m.newCalls++
	m.gotDraft = draft
	return m.result, m.err
}

func (m *mockPipeline) SubmitUpdate(_ context.Context, original, updated models.SiteRecord, changes []models.FieldChange) (*submit.Result, error) {
	m.updateCalls++
	m.gotOriginal = original
	m.gotUpdated = updated
	m.gotChanges = changes
	return m.result, m.err
}

// --- helpers ---

type controllerFixture struct {
	ac        *ApiController
	service   services.SiteServiceInterface
	cache     *mockCache
	scheduler *mockScheduler
	session   *view.Controller
	pipeline  *mockPipeline
	renderer  *maprender.MemoryRenderer
}

func newControllerFixture() *controllerFixture {
	svc := services.NewSiteService()
	svc.Replace([]models.SiteRecord{
		{ID: "obs-1", Name: "Gaomei Plateau", Latitude: 30.1, Longitude: 104.0, Bortle: "3"},
		{ID: "obs-2", Name: "Lakeview Ridge", Latitude: 29.5, Longitude: 101.2},
	}, "token-1", "2026-01-01", "feed")

	fx := &controllerFixture{
		service:   svc,
		cache:     newMockCache(),
		scheduler: &mockScheduler{outcome: interfaces.RefreshUnchanged},
		session:   view.NewController(),
		pipeline:  &mockPipeline{result: &submit.Result{Message: "submitted for review"}},
		renderer:  maprender.NewMemoryRenderer(),
	}
	fx.ac = NewApiController(&mockLogger{}, svc, fx.cache, fx.scheduler, fx.session, fx.pipeline, fx.renderer)
	return fx
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

// --- GetSites ---

func TestGetSites_ServesRecordSet(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	rr := httptest.NewRecorder()
	fx.ac.GetSites(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody[map[string]any](t, rr)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "2026-01-01", body["lastUpdated"])
}

func TestGetSites_CacheKeyCarriesToken(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	fx.ac.GetSites(httptest.NewRecorder(), req)

	_, ok := fx.cache.Get("list:token-1")
	assert.True(t, ok)

	// a refresh that replaces the set changes the token, so the stale
	// entry can never be served again
	fx.service.Replace([]models.SiteRecord{{ID: "obs-9"}}, "token-2", "", "")
	rr := httptest.NewRecorder()
	fx.ac.GetSites(rr, req)

	body := decodeBody[map[string]any](t, rr)
	assert.Equal(t, float64(1), body["count"])
}

func TestGetSites_ServedFromCacheOnRepeat(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	fx.ac.GetSites(httptest.NewRecorder(), req)

	fx.cache.data["list:token-1"] = []byte(`{"cached":true}`)
	rr := httptest.NewRecorder()
	fx.ac.GetSites(rr, req)

	assert.JSONEq(t, `{"cached":true}`, rr.Body.String())
}

// --- GetSite / CloseSite ---

func TestGetSite_OpensDetailView(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodGet, "/site?id=obs-1", nil)
	rr := httptest.NewRecorder()
	fx.ac.GetSite(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	detail := decodeBody[view.DetailView](t, rr)
	assert.Equal(t, "obs-1", detail.Record.ID)
	assert.Equal(t, "Class 3 / limiting magnitude 6.6-7.0", detail.BortleLabel)
	assert.Equal(t, view.StateViewing, fx.session.State())
}

func TestGetSite_MissingID(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodGet, "/site", nil)
	rr := httptest.NewRecorder()
	fx.ac.GetSite(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetSite_UnknownID(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodGet, "/site?id=nope", nil)
	rr := httptest.NewRecorder()
	fx.ac.GetSite(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, view.StateClosed, fx.session.State())
}

func TestCloseSite_ClosesSession(t *testing.T) {
	fx := newControllerFixture()
	fx.session.Open(models.SiteRecord{ID: "obs-1"})

	req := httptest.NewRequest(http.MethodPost, "/site/close", nil)
	rr := httptest.NewRecorder()
	fx.ac.CloseSite(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, view.StateClosed, fx.session.State())
}

// --- SubmitSite ---

func TestSubmitSite_RunsPipeline(t *testing.T) {
	fx := newControllerFixture()
	fx.pipeline.result = &submit.Result{
		IssueURL:    "https://github.com/astro-maps/site-map/issues/7",
		IssueNumber: 7,
		Message:     "submitted for review",
	}

	payload := `{"name": "New Summit", "latitude": 31.5, "longitude": 102.0}`
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	fx.ac.SubmitSite(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, fx.pipeline.newCalls)
	assert.Equal(t, "New Summit", fx.pipeline.gotDraft.Name)

	resp := decodeBody[submissionResponse](t, rr)
	assert.False(t, resp.Error)
	assert.Equal(t, 7, resp.IssueNumber)
}

func TestSubmitSite_MalformedBody(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	fx.ac.SubmitSite(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, fx.pipeline.newCalls)
}

func TestSubmitSite_ValidationFailure(t *testing.T) {
	fx := newControllerFixture()
	fx.pipeline.result = nil
	fx.pipeline.err = &submit.ValidationError{Message: "name is required"}

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"latitude": 1}`))
	rr := httptest.NewRecorder()
	fx.ac.SubmitSite(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeBody[submissionResponse](t, rr)
	assert.True(t, resp.Error)
	assert.Equal(t, "name is required", resp.Message)
}

func TestSubmitSite_DispatchFailureReturnsFallback(t *testing.T) {
	fx := newControllerFixture()
	fx.pipeline.result = &submit.Result{
		Fallback:    true,
		FallbackURL: "https://github.com/astro-maps/site-map/issues/new?title=x",
	}
	fx.pipeline.err = errors.New("github: rate limited")

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"name": "X", "latitude": 1, "longitude": 2}`))
	rr := httptest.NewRecorder()
	fx.ac.SubmitSite(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	resp := decodeBody[submissionResponse](t, rr)
	assert.True(t, resp.Error)
	assert.NotEmpty(t, resp.FallbackURL)
}

// --- UpdateSite ---

func TestUpdateSite_DiffsAgainstStoreSnapshot(t *testing.T) {
	fx := newControllerFixture()

	payload := `{"id": "obs-1", "updated": {"name": "Gaomei Plateau", "latitude": 30.1, "longitude": 104.0, "bortle": "4"}}`
	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	fx.ac.UpdateSite(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, fx.pipeline.updateCalls)

	assert.Equal(t, "obs-1", fx.pipeline.gotOriginal.ID)
	assert.Equal(t, "obs-1", fx.pipeline.gotUpdated.ID)
	require.Len(t, fx.pipeline.gotChanges, 1)
	assert.Equal(t, "bortle", fx.pipeline.gotChanges[0].Field)
	assert.Equal(t, "3", fx.pipeline.gotChanges[0].Before)
	assert.Equal(t, "4", fx.pipeline.gotChanges[0].After)
}

func TestUpdateSite_MissingID(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(`{"updated": {"name": "X"}}`))
	rr := httptest.NewRecorder()
	fx.ac.UpdateSite(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateSite_UnknownID(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(`{"id": "nope", "updated": {}}`))
	rr := httptest.NewRecorder()
	fx.ac.UpdateSite(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, fx.pipeline.updateCalls)
}

func TestUpdateSite_NoChangesDetected(t *testing.T) {
	fx := newControllerFixture()

	payload := `{"id": "obs-1", "updated": {"id": "obs-1", "name": "Gaomei Plateau", "latitude": 30.1, "longitude": 104.0, "bortle": "3"}}`
	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	fx.ac.UpdateSite(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeBody[submissionResponse](t, rr)
	assert.Equal(t, "no changes detected", resp.Message)
	assert.Equal(t, 0, fx.pipeline.updateCalls)
	// the session is back in viewing, not stuck in editing
	assert.Equal(t, view.StateViewing, fx.session.State())
}

// --- RefreshSites ---

func TestRefreshSites_ReportsOutcome(t *testing.T) {
	fx := newControllerFixture()
	fx.scheduler.outcome = interfaces.RefreshChanged

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rr := httptest.NewRecorder()
	fx.ac.RefreshSites(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "changed", body["outcome"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, 1, fx.scheduler.refreshCalls)
}

func TestRefreshSites_FailureIsNotAnHTTPError(t *testing.T) {
	fx := newControllerFixture()
	fx.scheduler.outcome = ""
	fx.scheduler.err = errors.New("feed unreachable")

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rr := httptest.NewRecorder()
	fx.ac.RefreshSites(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "error", body["outcome"])
	assert.Equal(t, float64(2), body["count"])
}

// --- GetMarkers / SetLayer ---

func TestGetMarkers_ServesRendererState(t *testing.T) {
	fx := newControllerFixture()
	fx.renderer.AddMarker(maprender.Marker{Title: "Ridge", Position: maprender.NewPosition(104.0, 30.1)})

	req := httptest.NewRequest(http.MethodGet, "/markers", nil)
	rr := httptest.NewRecorder()
	fx.ac.GetMarkers(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	state := decodeBody[maprender.ViewState](t, rr)
	require.Len(t, state.Markers, 1)
	assert.Equal(t, "Ridge", state.Markers[0].Title)
	assert.Equal(t, maprender.LayerStandard, state.Layer)
}

func TestSetLayer_SwitchesLayerAndRoadNet(t *testing.T) {
	fx := newControllerFixture()

	payload := `{"layer": "satellite", "roadNet": true}`
	req := httptest.NewRequest(http.MethodPost, "/layer", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	fx.ac.SetLayer(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	state := decodeBody[maprender.ViewState](t, rr)
	assert.Equal(t, maprender.LayerSatellite, state.Layer)
	assert.True(t, state.RoadNet)
}

func TestSetLayer_UnknownLayer(t *testing.T) {
	fx := newControllerFixture()

	req := httptest.NewRequest(http.MethodPost, "/layer", strings.NewReader(`{"layer": "terrain"}`))
	rr := httptest.NewRecorder()
	fx.ac.SetLayer(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
