package http

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"custmaker/core/domain"
	"custmaker/core/port/in"
	"custmaker/infra/middleware"
	"custmaker/pkg/apperr"
	"custmaker/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCustomerService struct {
	lastReq *in.GenerateRequest
	reset   bool
	runs    []*domain.GenerationRun
	err     error
}

func (f *fakeCustomerService) Generate(_ context.Context, req *in.GenerateRequest) (*domain.GenerationRun, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.GenerationRun{ID: uuid.New(), Count: req.Count, JoinDate: req.JoinDate, Status: domain.RunStatusSucceeded}, nil
}

func (f *fakeCustomerService) Reset(context.Context) error {
	f.reset = true
	return f.err
}

func (f *fakeCustomerService) ImportReference(context.Context, domain.Category, io.Reader) (int, error) {
	return 0, nil
}

func (f *fakeCustomerService) RecentRuns(_ context.Context, limit int) ([]*domain.GenerationRun, error) {
	return f.runs, f.err
}

type fakeComparisonService struct {
	top      int
	from, to int
	name     string
	ageLabel string
}

func (f *fakeComparisonService) Sex(context.Context) (*domain.Comparison, error) {
	return &domain.Comparison{
		Title:     "sex",
		Reference: []domain.RatioRow{{Label: "Male", Ratio: 50}, {Label: "Female", Ratio: 50}},
		Actual:    []domain.RatioRow{{Label: "Male", Ratio: 40, Count: 4}, {Label: "Female", Ratio: 60, Count: 6}},
	}, nil
}

func (f *fakeComparisonService) LastNames(_ context.Context, top int) (*domain.Comparison, error) {
	f.top = top
	return &domain.Comparison{Title: "lastname"}, nil
}

func (f *fakeComparisonService) FirstNames(_ context.Context, name string) (*domain.Comparison, error) {
	f.name = name
	return &domain.Comparison{Title: "firstname", Message: "Wrong Name!"}, nil
}

func (f *fakeComparisonService) Ages(_ context.Context, from, to int) (*domain.Comparison, error) {
	f.from, f.to = from, to
	return &domain.Comparison{Title: "age"}, nil
}

func (f *fakeComparisonService) Age(_ context.Context, label string) (*domain.PointComparison, error) {
	f.ageLabel = label
	if label == "77" {
		return nil, apperr.NotFound("77 years")
	}
	return &domain.PointComparison{Label: label + " years", Reference: 1.5, Actual: 1.25}, nil
}

const testSecret = "handler-secret"

func newTestApp(customers in.CustomerService, compare in.ComparisonService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(middleware.RequestID())

	NewHealthHandler().Register(app)
	NewDashboardHandler().Register(app)

	api := app.Group("/api/v1")
	NewCompareHandler(compare).Register(api)
	NewCustomerHandler(customers, metrics.NewGenerationTracker(10)).Register(api, middleware.AdminAuth(testSecret, false), nil)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, target, body string, admin bool) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		token, err := middleware.SignAdminToken(testSecret, "test")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	app := newTestApp(&fakeCustomerService{}, &fakeComparisonService{})

	status, _ := do(t, app, "GET", "/health", "", false)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, "GET", "/ready", "", false)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

type okPinger struct{ err error }

func (p okPinger) Ping(context.Context) error { return p.err }

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"healthy", nil, fiber.StatusOK},
		{"db down", errors.New("refused"), fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandlerWithDeps(okPinger{tt.err}, nil, nil).Register(app)
			resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestDashboard(t *testing.T) {
	app := newTestApp(&fakeCustomerService{}, &fakeComparisonService{})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/api/v1/compare")
}

func TestCompareRoutes(t *testing.T) {
	cmp := &fakeComparisonService{}
	app := newTestApp(&fakeCustomerService{}, cmp)

	status, env := do(t, app, "GET", "/api/v1/compare/sex", "", false)
	assert.Equal(t, fiber.StatusOK, status)
	var sex domain.Comparison
	require.NoError(t, json.Unmarshal(env.Data, &sex))
	assert.Len(t, sex.Actual, 2)

	_, _ = do(t, app, "GET", "/api/v1/compare/lastname", "", false)
	assert.Equal(t, 5, cmp.top)
	_, _ = do(t, app, "GET", "/api/v1/compare/lastname?top=40", "", false)
	assert.Equal(t, 25, cmp.top)

	status, env = do(t, app, "GET", "/api/v1/compare/firstname?name=%EB%AF%BC%EC%A4%80", "", false)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "민준", cmp.name)
	var first domain.Comparison
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, "Wrong Name!", first.Message)

	_, _ = do(t, app, "GET", "/api/v1/compare/age?from=-3&to=120", "", false)
	assert.Equal(t, 0, cmp.from)
	assert.Equal(t, 99, cmp.to)

	status, env = do(t, app, "GET", "/api/v1/compare/age/30", "", false)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "30", cmp.ageLabel)
	var point domain.PointComparison
	require.NoError(t, json.Unmarshal(env.Data, &point))
	assert.Equal(t, 1.25, point.Actual)

	status, env = do(t, app, "GET", "/api/v1/compare/age/77", "", false)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, apperr.CodeNotFound, env.Error.Code)
}

func TestGenerate(t *testing.T) {
	svc := &fakeCustomerService{}
	app := newTestApp(svc, &fakeComparisonService{})

	status, _ := do(t, app, "POST", "/api/v1/customers/generate", `{"count":10,"join_date":"20230101"}`, false)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Nil(t, svc.lastReq)

	status, env := do(t, app, "POST", "/api/v1/customers/generate", `{"count":10,"join_date":"20230101"}`, true)
	assert.Equal(t, fiber.StatusCreated, status)
	require.NotNil(t, svc.lastReq)
	assert.Equal(t, 10, svc.lastReq.Count)
	var run domain.GenerationRun
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, "20230101", run.JoinDate)

	status, env = do(t, app, "POST", "/api/v1/customers/generate", `{"count":10}`, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeMissingField, env.Error.Code)

	status, _ = do(t, app, "POST", "/api/v1/customers/generate", `{not json`, true)
	assert.Equal(t, fiber.StatusBadRequest, status)

	svc.err = apperr.InvalidInput("join_date", "bad")
	status, env = do(t, app, "POST", "/api/v1/customers/generate", `{"count":1,"join_date":"2023"}`, true)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, apperr.CodeInvalidInput, env.Error.Code)
}

func TestReset(t *testing.T) {
	svc := &fakeCustomerService{}
	app := newTestApp(svc, &fakeComparisonService{})

	status, _ := do(t, app, "DELETE", "/api/v1/customers", "", false)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, svc.reset)

	status, _ = do(t, app, "DELETE", "/api/v1/customers", "", true)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.True(t, svc.reset)
}

func TestListRuns(t *testing.T) {
	svc := &fakeCustomerService{runs: []*domain.GenerationRun{{ID: uuid.New(), Count: 3}}}
	app := newTestApp(svc, &fakeComparisonService{})

	status, env := do(t, app, "GET", "/api/v1/runs?limit=5", "", false)
	assert.Equal(t, fiber.StatusOK, status)
	var runs []domain.GenerationRun
	require.NoError(t, json.Unmarshal(env.Data, &runs))
	assert.Len(t, runs, 1)

	status, _ = do(t, app, "GET", "/api/v1/stats", "", false)
	assert.Equal(t, fiber.StatusOK, status)
}
