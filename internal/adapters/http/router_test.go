package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/greenchainz/carbon-analysis/internal/config"
	"github.com/greenchainz/carbon-analysis/internal/core/domain"
)

type submitterFake struct {
	job        *domain.AnalysisJob
	err        error
	gotOwnerID string
	gotRequest domain.AnalysisRequest
}

func (f *submitterFake) Submit(_ context.Context, ownerID string, req domain.AnalysisRequest) (*domain.AnalysisJob, error) {
	f.gotOwnerID = ownerID
	f.gotRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

type readerFake struct {
	job   *domain.AnalysisJob
	err   error
	gotID string
}

func (f *readerFake) GetByID(_ context.Context, id string) (*domain.AnalysisJob, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

func testConfig() config.Config {
	return config.Config{
		APIRateLimitRPS:   100,
		APIRateLimitBurst: 100,
		APIMaxConcurrent:  8,
	}
}

func TestSubmitAnalysisAccepted(t *testing.T) {
	submitter := &submitterFake{job: &domain.AnalysisJob{
		ID:     "an-1",
		Status: domain.StatusProcessing,
	}}
	router := NewRouter(submitter, &readerFake{}, nil, testConfig())
	handler := router.Handler()

	body := strings.NewReader(`{"model_urn":"abc123","model_name":"Office Tower"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", body)
	req.Header.Set("X-Owner-Id", "owner-1")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["analysis_id"] != "an-1" || payload["status"] != "processing" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if submitter.gotOwnerID != "owner-1" {
		t.Fatalf("expected owner from header, got %q", submitter.gotOwnerID)
	}
	if submitter.gotRequest.ModelURN != "abc123" {
		t.Fatalf("unexpected request: %+v", submitter.gotRequest)
	}
}

func TestSubmitAnalysisDefaultsOwner(t *testing.T) {
	submitter := &submitterFake{job: &domain.AnalysisJob{ID: "an-1", Status: domain.StatusProcessing}}
	router := NewRouter(submitter, &readerFake{}, nil, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{"model_urn":"abc","model_name":"x"}`))
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if submitter.gotOwnerID != "anonymous" {
		t.Fatalf("expected anonymous owner fallback, got %q", submitter.gotOwnerID)
	}
}

func TestSubmitAnalysisMapsValidationError(t *testing.T) {
	submitter := &submitterFake{err: domain.WrapError(domain.ErrInvalidIdentifier, "validate model urn", errors.New("urn contains '/'"))}
	router := NewRouter(submitter, &readerFake{}, nil, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{"model_urn":"a/b","model_name":"x"}`))
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestSubmitAnalysisRejectsInvalidJSON(t *testing.T) {
	router := NewRouter(&submitterFake{}, &readerFake{}, nil, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(`{`))
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", res.Code)
	}
}

func TestGetAnalysisByID(t *testing.T) {
	reader := &readerFake{job: &domain.AnalysisJob{
		ID:            "an-1",
		Status:        domain.StatusCompleted,
		TotalCarbonKg: 4200,
	}}
	router := NewRouter(&submitterFake{}, reader, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses/an-1", nil)
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if reader.gotID != "an-1" {
		t.Fatalf("expected lookup for an-1, got %q", reader.gotID)
	}
	var job domain.AnalysisJob
	if err := json.NewDecoder(res.Body).Decode(&job); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if job.TotalCarbonKg != 4200 {
		t.Fatalf("unexpected job payload: %+v", job)
	}
}

func TestGetAnalysisByIDNotFound(t *testing.T) {
	reader := &readerFake{err: domain.ErrAnalysisNotFound}
	router := NewRouter(&submitterFake{}, reader, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses/missing", nil)
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestGetAnalysisRejectsNestedPath(t *testing.T) {
	router := NewRouter(&submitterFake{}, &readerFake{}, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/v1/analyses/an-1/extra", nil)
	res := httptest.NewRecorder()
	router.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for nested path, got %d", res.Code)
	}
}

func TestHealthzBypassesRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.APIRateLimitRPS = 1
	cfg.APIRateLimitBurst = 1
	router := NewRouter(&submitterFake{}, &readerFake{}, nil, cfg)
	handler := router.Handler()

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusOK {
			t.Fatalf("healthz request %d expected 200, got %d", i, res.Code)
		}
	}
}
