package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/referral-service/internal/api/http"
	"github.com/spec-kit/referral-service/internal/api/http/handlers"
	"github.com/spec-kit/referral-service/internal/config"
	"github.com/spec-kit/referral-service/internal/events"
	"github.com/spec-kit/referral-service/internal/observability"
	"github.com/spec-kit/referral-service/internal/repository"
	"github.com/spec-kit/referral-service/internal/service"
	"github.com/spec-kit/referral-service/internal/worker"
)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Name: "referral-service", Version: "test"},
		Referral: config.ReferralConfig{
			MinNameLength:   2,
			MaxNameLength:   50,
			MinEmailLength:  5,
			MaxEmailLength:  100,
			CodeLength:      6,
			MaxCodeAttempts: 100,
			Bonus:           10,
			InitialPoints:   0,
		},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := testConfig()
	directory, err := repository.NewDirectory(cfg.Referral, repository.DefaultSeed())
	if err != nil {
		t.Fatalf("failed to build directory: %v", err)
	}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	referralService := service.NewReferralService(cfg, service.ReferralDependencies{
		Directory:  directory,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, directory),
		Users:   handlers.NewUsersHandler(referralService),
		Metrics: handlers.NewMetricsHandler(metrics),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func errorMessage(t *testing.T, body map[string]any) string {
	t.Helper()
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	msg, _ := errObj["message"].(string)
	return msg
}

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/users/register", map[string]any{
		"name":         "John Doe",
		"email":        "john@example.com",
		"referralCode": "ABC123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	if user["email"] != "john@example.com" {
		t.Fatalf("unexpected email %v", user["email"])
	}
	if user["points"].(float64) != 0 {
		t.Fatalf("expected 0 points, got %v", user["points"])
	}
	code, _ := user["referralCode"].(string)
	if len(code) != 6 || code == "ABC123" {
		t.Fatalf("expected fresh 6-char code, got %q", code)
	}
	if _, err := time.Parse(time.RFC3339, user["createdAt"].(string)); err != nil {
		t.Fatalf("createdAt not ISO-8601: %v", user["createdAt"])
	}

	// The referrer was credited.
	resp = doJSON(t, app, http.MethodGet, "/api/users/referral/ABC123", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("referrer lookup: expected 200, got %d", resp.StatusCode)
	}
	referrer := decodeBody(t, resp)["data"].(map[string]any)["user"].(map[string]any)
	if referrer["points"].(float64) != 10 {
		t.Fatalf("expected referrer points 10, got %v", referrer["points"])
	}
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/users/register", map[string]any{
		"name":  "Test",
		"email": "alice@example.com",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if msg := errorMessage(t, decodeBody(t, resp)); msg != "Email already exists" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRegisterUnknownReferralCodeEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/users/register", map[string]any{
		"name":         "Test",
		"email":        "t@example.com",
		"referralCode": "ZZZZZZ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if msg := errorMessage(t, decodeBody(t, resp)); msg != "Invalid referral code" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestRegisterValidationEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/users/register", map[string]any{
		"name":  "A",
		"email": "t@example.com",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	msg := errorMessage(t, decodeBody(t, resp))
	if !strings.Contains(msg, "Name must be at least 2 characters long") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestListUsersEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/users", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeBody(t, resp)["data"].(map[string]any)
	if data["count"].(float64) != 3 {
		t.Fatalf("expected 3 seed users, got %v", data["count"])
	}
	users := data["users"].([]any)
	first := users[0].(map[string]any)
	if first["email"] != "alice@example.com" {
		t.Fatalf("expected insertion order, first user %v", first["email"])
	}
}

func TestGetUserByIDEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/users/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/users/999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/users/abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", resp.StatusCode)
	}
}

func TestUpdatePointsEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPatch, "/api/users/2/points", map[string]any{"delta": 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	user := decodeBody(t, resp)["data"].(map[string]any)["user"].(map[string]any)
	if user["points"].(float64) != 25 {
		t.Fatalf("expected 25 points, got %v", user["points"])
	}

	resp = doJSON(t, app, http.MethodPatch, "/api/users/999/points", map[string]any{"delta": 5})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPatch, "/api/users/2/points", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing delta, got %d", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeBody(t, resp)["data"].(map[string]any)
	if data["totalUsers"].(float64) != 3 || data["totalPoints"].(float64) != 70 || data["averagePoints"].(float64) != 23 {
		t.Fatalf("unexpected stats %v", data)
	}
	top := data["topUsers"].([]any)
	if top[0].(map[string]any)["email"] != "carol@example.com" {
		t.Fatalf("expected Carol first, got %v", top[0])
	}
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/health/live", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", resp.StatusCode)
	}
	if decodeBody(t, resp)["status"] != "alive" {
		t.Fatal("unexpected liveness body")
	}

	resp = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, http.MethodGet, "/api/users", nil)

	resp := doJSON(t, app, http.MethodGet, "/admin/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := decodeBody(t, resp)["data"].(map[string]any)
	requests := data["requests"].(map[string]any)
	if len(requests) == 0 {
		t.Fatal("expected request counters to be populated")
	}
}
