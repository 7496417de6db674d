package api

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

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/httpclient"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/limiter"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/metrics"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/deck"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/orchestrator"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/outline"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/storage"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/submission"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/pkg/errors"
)

func newTestRouter(t *testing.T, lim *limiter.Limiter) *gin.Engine {
	t.Helper()
	return newTestRouterWithOutline(t, lim, outline.New("", "", httpclient.New(httpclient.Options{}), logger.NewNop()))
}

func newTestRouterWithOutline(t *testing.T, lim *limiter.Limiter, outlineSvc *outline.Service) *gin.Engine {
	t.Helper()
	log := logger.NewNop()
	store, err := storage.New(storage.TypeLocal, t.TempDir(), "/files", log)
	require.NoError(t, err)
	m := metrics.New()
	orch := orchestrator.New(
		outlineSvc,
		deck.New(log),
		store,
		lim,
		m,
		log,
	)
	r, err := NewRouter(orch, store, m, log)
	require.NoError(t, err)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreatePresentation_ThenDownload(t *testing.T) {
	r := newTestRouter(t, limiter.New(4, 100))

	rec := do(r, http.MethodPost, "/api/presentation",
		`{"topic":"  Quantum computing ","slides_count":20,"style":"minimal","requirements":"add references"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CreatePresentationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Presentation, "/files/"), resp.Presentation)
	assert.True(t, strings.HasSuffix(resp.Presentation, deck.Extension))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "Quantum computing", resp.Title)

	file := do(r, http.MethodGet, resp.Presentation, "")
	require.Equal(t, http.StatusOK, file.Code)
	assert.Contains(t, file.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, 20, strings.Count(file.Body.String(), "\n## "))
	assert.Contains(t, file.Body.String(), "add references")
}

func TestCreatePresentation_DefaultsStyle(t *testing.T) {
	r := newTestRouter(t, limiter.New(4, 100))

	rec := do(r, http.MethodPost, "/api/presentation", `{"topic":"Bees","slides_count":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCreatePresentation_InvalidRequests(t *testing.T) {
	r := newTestRouter(t, limiter.New(4, 100))

	bodies := map[string]string{
		"not json":      `{"topic":`,
		"missing topic": `{"slides_count":10,"style":"academic"}`,
		"blank topic":   `{"topic":"   ","slides_count":10,"style":"academic"}`,
		"bad slides":    `{"topic":"x","slides_count":12,"style":"academic"}`,
		"bad style":     `{"topic":"x","slides_count":10,"style":"baroque"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/presentation", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, errors.ErrCodeInvalidReq, resp.Error.Code)
		})
	}
}

func TestCreatePresentation_RateLimited(t *testing.T) {
	lim := limiter.New(1, 100)
	hold, ok := lim.TryAcquire()
	require.True(t, ok)
	defer hold()
	r := newTestRouter(t, lim)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- do(r, http.MethodPost, "/api/presentation", `{"topic":"x","slides_count":10,"style":"academic"}`)
	}()

	select {
	case rec := <-done:
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, errors.ErrCodeRateLimited, resp.Error.Code)
	case <-time.After(5 * time.Second):
		t.Fatal("request waited for the limiter instead of being rejected")
	}
}

func TestCreatePresentation_GeminiFailureHidesCause(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ol := outline.New("super-secret-key", "test-model", httpclient.New(httpclient.Options{}), logger.NewNop()).WithBaseURL(url)
	r := newTestRouterWithOutline(t, limiter.New(1, 100), ol)

	rec := do(r, http.MethodPost, "/api/presentation", `{"topic":"x","slides_count":10,"style":"academic"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "super-secret-key")
	assert.NotContains(t, rec.Body.String(), url)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodeGeminiAPI, resp.Error.Code)
	assert.Equal(t, "gemini API request failed", resp.Error.Message)
}

func TestDownloadFile_NotFound(t *testing.T) {
	r := newTestRouter(t, limiter.New(1, 100))

	rec := do(r, http.MethodGet, "/files/nope.md", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndexHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, limiter.New(1, 100))

	index := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, index.Body.String(), "Telegram.WebApp.ready()")

	health := do(r, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, health.Body.String())

	do(r, http.MethodPost, "/api/presentation", `{"topic":"x","slides_count":10,"style":"academic"}`)
	scrape := do(r, http.MethodGet, "/metrics", "")
	assert.Contains(t, scrape.Body.String(), `presentation_requests_total{code="OK"} 1`)
}

// The submission controller and the API agree on the wire contract.
func TestSubmissionControllerAgainstRouter(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, limiter.New(2, 100)))
	defer srv.Close()

	c := submission.New(submission.Options{Endpoint: srv.URL})
	require.NoError(t, c.Submit(context.Background(),
		presentation.NewRequest("Photosynthesis", 15, presentation.StyleCreative, "")))

	state := c.State()
	require.Equal(t, submission.StatusDone, state.Status)
	assert.True(t, strings.HasPrefix(state.ResultLink, "/files/"))

	require.NoError(t, c.Submit(context.Background(),
		presentation.NewRequest("Photosynthesis", 12, presentation.StyleCreative, "")))
	assert.Equal(t, submission.State{Status: submission.StatusError, ErrorMessage: submission.FailureMessage}, c.State())
}
