package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/persistence"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/service"
	"github.com/spec-kit/grievance-service/internal/triage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zaptest.NewLogger(t)
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	store := repository.NewStore(nil)
	svc := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: store.Complaints,
		HistoryRepo:   store.History,
		Engine:        triage.NewEngine(nil, metrics.TriageHooks()),
		Metrics:       metrics,
		Logger:        logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler("grievance-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Complaints: handlers.NewComplaintsHandler(svc),
		Dashboard:  handlers.NewDashboardHandler(svc),
		Gatherer:   registry,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestComplaintLifecycle(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, fiber.MethodPost, "/api/complaints",
		`{"user_id":"citizen-9","description":"someone stole my bike","location_code":"560001"}`)
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, 1.0, data["complaint_id"])
	assert.Equal(t, "Law & Order", data["sector"])
	assert.Equal(t, "High", data["priority"])
	assert.Equal(t, "560001-Law & Order", data["cluster_key"])
	assert.True(t, strings.HasPrefix(data["reference_key"].(string), "GRV-"))

	status, body = do(t, app, fiber.MethodPatch, "/api/complaints/1/status", `{"status":"In Progress","comment":"assigned to beat officer"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "In Progress", body["data"].(map[string]any)["status"])

	status, body = do(t, app, fiber.MethodPatch, "/api/complaints/1/status", `{"status":"Submitted"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, body = do(t, app, fiber.MethodGet, "/api/complaints/1", "")
	require.Equal(t, fiber.StatusOK, status)
	detail := body["data"].(map[string]any)
	assert.Equal(t, "someone stole my bike", detail["description"])
	history := detail["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "assigned to beat officer", history[0].(map[string]any)["new_value"].(map[string]any)["comment"])

	status, body = do(t, app, fiber.MethodGet, "/api/users/citizen-9/complaints?page=1&page_size=5", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	status, body = do(t, app, fiber.MethodGet, "/api/admin/stats", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1.0, body["total"])
	assert.Equal(t, 1.0, body["high"])
	assert.Equal(t, 1.0, body["processing"])
	clusters := body["clusters"].([]any)
	require.Len(t, clusters, 1)
	assert.Equal(t, "Law & Order Issue in 560001", clusters[0].(map[string]any)["topic"])
	assert.Len(t, body["recent_complaints"].([]any), 1)
}

func TestSubmitValidation(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, fiber.MethodPost, "/api/complaints", `{"user_id":"u1","description":""}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = do(t, app, fiber.MethodPost, "/api/complaints", `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestComplaintLookupErrors(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/api/complaints/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = do(t, app, fiber.MethodGet, "/api/complaints/99", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = do(t, app, fiber.MethodGet, "/api/nowhere", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestListByUserPaginationBounds(t *testing.T) {
	app := newTestApp(t)
	status, _ := do(t, app, fiber.MethodPost, "/api/complaints",
		`{"user_id":"citizen-3","description":"pothole on main road","location_code":"110001"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, body := do(t, app, fiber.MethodGet, "/api/users/citizen-3/complaints?page_size=5000", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
	assert.Equal(t, 100.0, body["pagination"].(map[string]any)["page_size"])

	status, body = do(t, app, fiber.MethodGet, "/api/users/citizen-3/complaints?page=9223372036854775807&page_size=100", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"].([]any))
	assert.Equal(t, 10000.0, body["pagination"].(map[string]any)["page"])
}

func TestEmptyDashboard(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/api/admin/stats", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, body["total"])
	assert.Equal(t, []any{}, body["recent_complaints"])
	assert.Equal(t, []any{}, body["clusters"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/health/live", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = do(t, app, fiber.MethodGet, "/health/ready", "")
	require.Equal(t, fiber.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "skipped", deps["postgres"])
	assert.Equal(t, "skipped", deps["redis"])

	do(t, app, fiber.MethodPost, "/api/complaints", `{"user_id":"u1","description":"pothole on main road","location_code":"110001"}`)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `grievance_complaints_classified_total{priority="Low",rule="default",sector="Roads"} 1`)
	assert.Contains(t, string(raw), "grievance_http_requests_total{")
}
