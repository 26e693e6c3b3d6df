package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/practice/internal/config"
	"github.com/simp-lee/practice/internal/middleware"
	"github.com/simp-lee/practice/internal/pkg"
)

const testSecret = "Abcd1234!Abcd1234!Abcd1234!Abcd1234!"

type fakeHTTPServer struct {
	listenErr      error
	listenStarted  chan struct{}
	shutdownCalled bool
	stopCh         chan struct{}
	mu             sync.Mutex
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenStarted != nil {
		close(f.listenStarted)
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	if f.stopCh != nil {
		<-f.stopCh
		return http.ErrServerClosed
	}
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdownCalled = true
	f.mu.Unlock()
	if f.stopCh != nil {
		close(f.stopCh)
	}
	return nil
}

func (f *fakeHTTPServer) wasShutdownCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdownCalled
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Mode: gin.TestMode,
		},
		Database: config.DatabaseConfig{
			Driver:  "sqlite",
			Migrate: config.MigrateAuto,
			SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "practice.db")},
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "text",
		},
		Telemetry: config.TelemetryConfig{
			Exporter:    config.ExporterNone,
			ServiceName: "practice-test",
			SampleRatio: 1,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { cleanupTestApp(a) })
	return a
}

func cleanupTestApp(a *App) {
	if a == nil {
		return
	}
	_ = a.telemetry.Shutdown(context.Background())
	_ = config.CloseDatabase(a.db)
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestResolveCORSConfig(t *testing.T) {
	defaults := middleware.DefaultCORSConfig()

	tests := []struct {
		name            string
		mode            string
		cfg             config.CORSConfig
		wantOrigins     []string
		wantMethods     []string
		wantHeaders     []string
		wantCredentials bool
		wantMaxAge      string
	}{
		{
			name:        "debug mode uses permissive default when not configured",
			mode:        gin.DebugMode,
			wantOrigins: []string{"*"},
			wantMethods: defaults.AllowMethods,
			wantHeaders: defaults.AllowHeaders,
			wantMaxAge:  defaults.MaxAge,
		},
		{
			name:        "release mode denies cross-origin when not configured",
			mode:        gin.ReleaseMode,
			wantOrigins: []string{},
			wantMethods: defaults.AllowMethods,
			wantHeaders: defaults.AllowHeaders,
			wantMaxAge:  defaults.MaxAge,
		},
		{
			name: "explicit settings override defaults",
			mode: gin.ReleaseMode,
			cfg: config.CORSConfig{
				AllowOrigins:     []string{"https://admin.example.com"},
				AllowMethods:     []string{"GET", "POST"},
				AllowHeaders:     []string{"Authorization", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           "600",
			},
			wantOrigins:     []string{"https://admin.example.com"},
			wantMethods:     []string{"GET", "POST"},
			wantHeaders:     []string{"Authorization", "Content-Type"},
			wantCredentials: true,
			wantMaxAge:      "600",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveCORSConfig(tt.mode, tt.cfg)
			if !reflect.DeepEqual(got.AllowOrigins, tt.wantOrigins) {
				t.Errorf("AllowOrigins = %v, want %v", got.AllowOrigins, tt.wantOrigins)
			}
			if !reflect.DeepEqual(got.AllowMethods, tt.wantMethods) {
				t.Errorf("AllowMethods = %v, want %v", got.AllowMethods, tt.wantMethods)
			}
			if !reflect.DeepEqual(got.AllowHeaders, tt.wantHeaders) {
				t.Errorf("AllowHeaders = %v, want %v", got.AllowHeaders, tt.wantHeaders)
			}
			if got.AllowCredentials != tt.wantCredentials {
				t.Errorf("AllowCredentials = %v, want %v", got.AllowCredentials, tt.wantCredentials)
			}
			if got.MaxAge != tt.wantMaxAge {
				t.Errorf("MaxAge = %q, want %q", got.MaxAge, tt.wantMaxAge)
			}
		})
	}
}

func TestValidateGinMode(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode} {
		if err := validateGinMode(mode); err != nil {
			t.Errorf("validateGinMode(%q) error = %v", mode, err)
		}
	}
	if err := validateGinMode("production"); err == nil {
		t.Error("validateGinMode(production) error = nil, want error")
	}
}

func TestAuthConfig(t *testing.T) {
	disabled := authConfig(config.AuthConfig{JWTSecret: testSecret})
	if !disabled.AllowHeaders || disabled.Secret != nil {
		t.Errorf("disabled auth = %+v, want headers only", disabled)
	}

	enabled := authConfig(config.AuthConfig{Enabled: true, JWTSecret: testSecret, Issuer: "practice"})
	if enabled.AllowHeaders {
		t.Error("enabled auth should not accept headers unless allow_headers is set")
	}
	if string(enabled.Secret) != testSecret || enabled.Issuer != "practice" {
		t.Errorf("enabled auth = %+v", enabled)
	}

	both := authConfig(config.AuthConfig{Enabled: true, JWTSecret: testSecret, AllowHeaders: true})
	if !both.AllowHeaders {
		t.Error("allow_headers should be honoured with auth enabled")
	}
}

func TestNew_ReturnsError_WhenDatabaseSetupFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "unsupported"

	app, err := New(cfg)
	if err == nil {
		t.Fatalf("New() error = nil, want error")
	}
	if app != nil {
		t.Fatalf("New() app = %#v, want nil", app)
	}
	if !strings.Contains(err.Error(), "setup database") {
		t.Fatalf("New() error = %q, want contains %q", err.Error(), "setup database")
	}
}

func TestNew_ReturnsError_WhenMigrationFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Migrate = "flyway"

	if _, err := New(cfg); err == nil || !strings.Contains(err.Error(), "migrate") {
		t.Fatalf("New() error = %v, want migrate error", err)
	}
}

func TestNew_RejectsInvalidMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Mode = "production"

	if _, err := New(cfg); err == nil || !strings.Contains(err.Error(), "server.mode") {
		t.Fatalf("New() error = %v, want server.mode error", err)
	}
}

func TestNew_ServesEntityRoutes(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	h := a.Handler()
	identity := map[string]string{
		middleware.OrganizationHeader: "org-1",
		middleware.UserHeader:         "user-1",
	}

	for _, path := range []string{
		"/api/v1/clients", "/api/v1/patients", "/api/v1/professionals",
		"/api/v1/appointments", "/api/v1/items", "/api/v1/sales", "/api/v1/sale-lines",
	} {
		if w := serve(h, http.MethodGet, path, "", identity); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}

	w := serve(h, http.MethodPost, "/api/v1/clients", `{"name":"Ana"}`, identity)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /clients = %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID on responses")
	}

	if w := serve(h, http.MethodGet, "/api/v1/clients", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("GET without organization = %d, want 401", w.Code)
	}
}

func TestNew_AuthEnabled_RequiresToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth = config.AuthConfig{Enabled: true, JWTSecret: testSecret, Issuer: "practice", TokenExpiry: "1h"}
	h := newTestApp(t, cfg).Handler()

	headers := map[string]string{middleware.OrganizationHeader: "org-1"}
	if w := serve(h, http.MethodGet, "/api/v1/clients", "", headers); w.Code != http.StatusUnauthorized {
		t.Errorf("header identity with auth enabled = %d, want 401", w.Code)
	}

	token, err := middleware.SignToken(authConfig(cfg.Auth), middleware.Identity{
		OrganizationID: "org-1",
		UserID:         "user-1",
		Roles:          []string{middleware.RoleAdmin},
	}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}
	bearer := map[string]string{"Authorization": "Bearer " + token}

	w := serve(h, http.MethodPost, "/api/v1/items", `{"name":"Vaccine","price":10}`, bearer)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /items with token = %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Data struct {
			ID             string `json:"id"`
			OrganizationID string `json:"organization_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Data.OrganizationID != "org-1" {
		t.Errorf("organization_id = %q, want org-1", created.Data.OrganizationID)
	}

	if w := serve(h, http.MethodDelete, "/api/v1/items/"+created.Data.ID+"/hard", "", bearer); w.Code != http.StatusOK {
		t.Errorf("admin hard delete = %d, want 200", w.Code)
	}
}

func TestNew_OperationalRoutes(t *testing.T) {
	h := newTestApp(t, testConfig(t)).Handler()

	if w := serve(h, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("/health = %d, want 200", w.Code)
	}

	w := serve(h, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "practice_http_requests_total") {
		t.Error("/metrics does not expose practice_http_requests_total")
	}

	w = serve(h, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("/nope = %d, want 404", w.Code)
	}
	var resp pkg.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message != "not found" {
		t.Errorf("message = %q, want not found", resp.Message)
	}
}

func TestRun_ReturnsError_WhenListenFails(t *testing.T) {
	originalNewHTTPServer := newHTTPServer
	originalNotifyContext := notifyContext
	defer func() {
		newHTTPServer = originalNewHTTPServer
		notifyContext = originalNotifyContext
	}()

	listenErr := errors.New("listen failed")
	server := &fakeHTTPServer{listenErr: listenErr}
	newHTTPServer = func(string, http.Handler, time.Duration) httpServer {
		return server
	}
	notifyContext = func(context.Context, ...os.Signal) (context.Context, context.CancelFunc) {
		return context.WithCancel(context.Background())
	}

	a := &App{
		engine: gin.New(),
		logger: logger.Default(),
		cfg:    &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080}},
	}

	err := a.Run()
	if err == nil {
		t.Fatalf("Run() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "server error") {
		t.Fatalf("Run() error = %q, want contains %q", err.Error(), "server error")
	}
	if !errors.Is(err, listenErr) {
		t.Fatalf("Run() error = %v, want wraps %v", err, listenErr)
	}
}

func TestRun_ShutdownSignal_ClosesDatabase(t *testing.T) {
	originalNewHTTPServer := newHTTPServer
	originalNotifyContext := notifyContext
	defer func() {
		newHTTPServer = originalNewHTTPServer
		notifyContext = originalNotifyContext
	}()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}

	server := &fakeHTTPServer{listenStarted: make(chan struct{}), stopCh: make(chan struct{})}
	var gotTimeout time.Duration
	newHTTPServer = func(_ string, _ http.Handler, timeout time.Duration) httpServer {
		gotTimeout = timeout
		return server
	}

	ctx, cancel := context.WithCancel(context.Background())
	notifyContext = func(context.Context, ...os.Signal) (context.Context, context.CancelFunc) {
		return ctx, cancel
	}

	a := &App{
		engine: gin.New(),
		db:     db,
		logger: logger.Default(),
		cfg: &config.Config{Server: config.ServerConfig{
			Host:    "127.0.0.1",
			Port:    8080,
			Timeout: "15s",
		}},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run()
	}()

	select {
	case <-server.listenStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start listening in time")
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return in time after shutdown signal")
	}

	if !server.wasShutdownCalled() {
		t.Fatal("expected server Shutdown() to be called")
	}
	if gotTimeout != 15*time.Second {
		t.Errorf("server timeout = %v, want 15s", gotTimeout)
	}
	if pingErr := sqlDB.Ping(); pingErr == nil {
		t.Fatal("expected database connection to be closed, but Ping() succeeded")
	}
}
