package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/governance-assessor/internal/catalog"
	"github.com/jonathan/governance-assessor/internal/db"
	"github.com/jonathan/governance-assessor/internal/server/ratelimit"
)

const validProjectJSON = `{
	"name": "Contoso Tenant",
	"standards": [
		{
			"id": "dlp-policy",
			"name": "DLP Policy",
			"questions": [
				{"id": "dlp-1", "text": "Tenant-wide DLP policy exists", "type": "boolean", "answer": true},
				{"id": "dlp-2", "text": "Connectors are classified", "type": "scale", "answer": 4}
			]
		}
	]
}`

// newTestServer creates a server backed by a temporary SQLite store
func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	store, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "assessor.db"))
	require.NoError(t, err)

	cat, err := catalog.Default()
	require.NoError(t, err)

	s := NewWithStore(Config{Port: 0}, store, cat)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(s.Close)
	return s
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestScore_Valid(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/score", validProjectJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody(t, w)
	// boolean true scores 5, scale 4 scores 4: weighted mean 4.5
	assert.Equal(t, 4.5, resp["overallScore"])
	assert.Equal(t, "green", resp["overallRAG"])

	standards := resp["standardScores"].([]any)
	require.Len(t, standards, 1)
	assert.Equal(t, "DLP Policy", standards[0].(map[string]any)["standardName"])
}

func TestScore_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/score", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "not valid JSON")
}

func TestScore_SchemaViolation(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/score", `{"standards": []}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "validation failed")
}

func TestScore_StructValidationWithoutSchema(t *testing.T) {
	s := newTestServer(t)
	s.skipValidation = true

	body := `{"name": "", "standards": [{"name": "S", "questions": [{"text": "q", "type": "boolean", "answer": true}]}]}`
	w := doRequest(t, s, http.MethodPost, "/score", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "validation error: project")
}

func TestScoreStream(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/score/stream", validProjectJSON)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: standard")
	assert.Contains(t, body, "event: complete")
	assert.Less(t, strings.Index(body, "event: standard"), strings.Index(body, "event: complete"))
}

func TestProjects_Lifecycle(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/projects", validProjectJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeBody(t, w)["id"].(string)

	w = doRequest(t, s, http.MethodGet, "/projects/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Contoso Tenant", decodeBody(t, w)["name"])

	w = doRequest(t, s, http.MethodGet, "/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = doRequest(t, s, http.MethodGet, "/projects/"+id+"/score", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4.5, decodeBody(t, w)["overallScore"])

	updated := strings.Replace(validProjectJSON, `"answer": 4`, `"answer": 1`, 1)
	w = doRequest(t, s, http.MethodPut, "/projects/"+id, updated)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, s, http.MethodGet, "/projects/"+id+"/score", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, float64(3), resp["overallScore"])
	assert.Equal(t, "red", resp["overallRAG"])

	w = doRequest(t, s, http.MethodDelete, "/projects/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, s, http.MethodGet, "/projects/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjects_Versions(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/projects", validProjectJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doRequest(t, s, http.MethodPost, "/projects/"+id+"/versions", `{"label": "baseline"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decodeBody(t, w)
	assert.Equal(t, float64(1), first["version_number"])
	assert.Equal(t, "baseline", first["label"])

	w = doRequest(t, s, http.MethodPost, "/projects/"+id+"/versions", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decodeBody(t, w)
	assert.Equal(t, float64(2), second["version_number"])
	assert.Equal(t, "2026-03-01T09:00:00Z", second["label"])

	w = doRequest(t, s, http.MethodGet, "/projects/"+id+"/versions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	w = doRequest(t, s, http.MethodGet, "/versions/"+first["id"].(string), "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeBody(t, w)["result"].(map[string]any)
	assert.Equal(t, 4.5, result["overallScore"])
}

func TestProjects_Report(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/projects", validProjectJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doRequest(t, s, http.MethodGet, "/projects/"+id+"/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown"))
	assert.Contains(t, w.Body.String(), "# Contoso Tenant - Governance Assessment")

	w = doRequest(t, s, http.MethodGet, "/projects/"+id+"/report?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "OVERALL,4.50,green")

	w = doRequest(t, s, http.MethodGet, "/projects/"+id+"/report?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjects_InvalidAndMissingIDs(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"invalid project id", http.MethodGet, "/projects/not-a-uuid", http.StatusBadRequest},
		{"missing project", http.MethodGet, "/projects/4b7d3c1e-9f7a-4a38-9a53-0a8c7a0f2e11", http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/projects/4b7d3c1e-9f7a-4a38-9a53-0a8c7a0f2e11", http.StatusNotFound},
		{"score missing", http.MethodGet, "/projects/4b7d3c1e-9f7a-4a38-9a53-0a8c7a0f2e11/score", http.StatusNotFound},
		{"missing version", http.MethodGet, "/versions/4b7d3c1e-9f7a-4a38-9a53-0a8c7a0f2e11", http.StatusNotFound},
		{"invalid version id", http.MethodGet, "/versions/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, tt.method, tt.target, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(6), decodeBody(t, w)["count"])

	w = doRequest(t, s, http.MethodPost, "/catalog/projects", `{"name": "Fabrikam", "standards": ["dlp-policy", "alm"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	project := decodeBody(t, w)
	assert.Equal(t, "Fabrikam", project["name"])
	assert.Len(t, project["standards"], 2)

	w = doRequest(t, s, http.MethodPost, "/catalog/projects", `{"name": "Fabrikam", "standards": ["nope"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodPost, "/catalog/projects", `{"name": "Fabrikam", "save": true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decodeBody(t, w)["id"])
}

func TestRateLimit_Exceeded(t *testing.T) {
	s := newTestServer(t)
	s.rateLimiter.Stop()
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})

	w := doRequest(t, s, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = doRequest(t, s, http.MethodGet, "/catalog", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody(t, w)["error"])
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodOptions, "/projects", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", s.extractClientID(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", s.extractClientID(req))
}
