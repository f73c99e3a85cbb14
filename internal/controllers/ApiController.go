package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"astroview/internal/maprender"
	"astroview/internal/models"
	"astroview/internal/providers"
	"astroview/internal/refresh/interfaces"
	"astroview/internal/services"
	"astroview/internal/submit"
	"astroview/internal/view"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger    providers.Logger
	service   services.SiteServiceInterface
	cache     providers.CacheProviderInterface
	scheduler interfaces.SchedulerInterface
	session   *view.Controller
	pipeline  submit.PipelineInterface
	renderer  *maprender.MemoryRenderer
}

func NewApiController(
	logger providers.Logger,
	service services.SiteServiceInterface,
	cache providers.CacheProviderInterface,
	scheduler interfaces.SchedulerInterface,
	session *view.Controller,
	pipeline submit.PipelineInterface,
	renderer *maprender.MemoryRenderer,
) *ApiController {
	return &ApiController{
		logger:    logger,
		service:   service,
		cache:     cache,
		scheduler: scheduler,
		session:   session,
		pipeline:  pipeline,
		renderer:  renderer,
	}
}

type submissionResponse struct {
	Error       bool   `json:"error"`
	Message     string `json:"message,omitempty"`
	IssueURL    string `json:"issueUrl,omitempty"`
	IssueNumber int    `json:"issueNumber,omitempty"`
	FallbackURL string `json:"fallbackUrl,omitempty"`
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// GetSites serves the full record set. The cache key carries the current
// fingerprint token, so a refresh that changes the data changes the key
// and a hit can never serve a superseded set.
func (ac *ApiController) GetSites(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "list:"+ac.service.Token(), func() (any, error) {
		return map[string]any{
			"observatories": ac.service.Records(),
			"lastUpdated":   ac.service.LastUpdated(),
			"source":        ac.service.Source(),
			"count":         ac.service.Count(),
		}, nil
	})
}

// GetSite opens the detail view session for one record.
func (ac *ApiController) GetSite(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: "missing id parameter"})
		return
	}

	rec, ok := ac.service.Get(id)
	if !ok {
		ac.writeJSON(w, http.StatusNotFound, submissionResponse{Error: true, Message: "unknown site: " + id})
		return
	}

	detail := ac.session.Open(rec)
	ac.writeJSON(w, http.StatusOK, detail)
}

// CloseSite closes the detail view session, discarding any edit draft.
func (ac *ApiController) CloseSite(w http.ResponseWriter, r *http.Request) {
	ac.session.Close()
	w.WriteHeader(http.StatusNoContent)
}

// SubmitSite accepts a new-site draft and runs it down the submission
// pipeline.
func (ac *ApiController) SubmitSite(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var draft models.SiteRecord
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: "malformed request body"})
		return
	}

	result, err := ac.pipeline.SubmitNew(r.Context(), draft)
	ac.writeSubmission(w, result, err)
}

type updateRequest struct {
	ID      string            `json:"id"`
	Updated models.SiteRecord `json:"updated"`
}

// UpdateSite runs the edit flow for an existing record: open, edit, diff,
// dispatch. The original snapshot comes from the store, never from the
// client.
func (ac *ApiController) UpdateSite(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: "malformed request body"})
		return
	}
	if req.ID == "" {
		ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: "missing required field: id"})
		return
	}

	rec, ok := ac.service.Get(req.ID)
	if !ok {
		ac.writeJSON(w, http.StatusNotFound, submissionResponse{Error: true, Message: "unknown site: " + req.ID})
		return
	}

	ac.session.Open(rec)
	if _, err := ac.session.BeginEdit(); err != nil {
		ac.writeJSON(w, http.StatusConflict, submissionResponse{Error: true, Message: err.Error()})
		return
	}

	// carry over what the form never shows
	req.Updated.ID = rec.ID

	original, changes, err := ac.session.SubmitEdit(req.Updated)
	if err != nil {
		if errors.Is(err, view.ErrNoChanges) {
			_ = ac.session.CancelEdit()
			ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: "no changes detected"})
			return
		}
		ac.writeJSON(w, http.StatusConflict, submissionResponse{Error: true, Message: err.Error()})
		return
	}

	result, err := ac.pipeline.SubmitUpdate(r.Context(), original, req.Updated, changes)
	ac.writeSubmission(w, result, err)
}

func (ac *ApiController) writeSubmission(w http.ResponseWriter, result *submit.Result, err error) {
	if err != nil {
		var vErr *submit.ValidationError
		if errors.As(err, &vErr) {
			ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: vErr.Message})
			return
		}
		// dispatch failure: the action is not lost, the fallback link
		// travels with the error
		resp := submissionResponse{Error: true, Message: err.Error()}
		if result != nil {
			resp.FallbackURL = result.FallbackURL
		}
		ac.writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	ac.writeJSON(w, http.StatusOK, submissionResponse{
		Error:       false,
		Message:     result.Message,
		IssueURL:    result.IssueURL,
		IssueNumber: result.IssueNumber,
		FallbackURL: result.FallbackURL,
	})
}

// RefreshSites is the manual refresh action. Failures are not surfaced as
// HTTP errors: the map keeps its last-good data and the outcome is
// reported as-is.
func (ac *ApiController) RefreshSites(w http.ResponseWriter, r *http.Request) {
	outcome, err := ac.scheduler.Refresh()
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Manual refresh failed: %s", err)
		outcome = "error"
	}
	ac.writeJSON(w, http.StatusOK, map[string]any{
		"outcome": string(outcome),
		"count":   ac.service.Count(),
	})
}

// GetMarkers serves the rendered marker model.
func (ac *ApiController) GetMarkers(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.renderer.State())
}

type layerRequest struct {
	Layer   maprender.TileLayer `json:"layer"`
	RoadNet bool                `json:"roadNet"`
}

// SetLayer switches the tile layer and road-net overlay.
func (ac *ApiController) SetLayer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req layerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: "malformed request body"})
		return
	}
	if req.Layer != maprender.LayerStandard && req.Layer != maprender.LayerSatellite {
		ac.writeJSON(w, http.StatusBadRequest, submissionResponse{Error: true, Message: "unknown layer: " + string(req.Layer)})
		return
	}

	ac.renderer.SetTileLayer(req.Layer)
	ac.renderer.SetRoadNet(req.RoadNet)
	ac.writeJSON(w, http.StatusOK, ac.renderer.State())
}
