package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/user-directory/internal/api"
	"github.com/dom/user-directory/internal/config"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/repository"
	"github.com/dom/user-directory/internal/repository/memory"
	"github.com/dom/user-directory/internal/service"
	"github.com/dom/user-directory/internal/websocket"
)

// TestOrigin is the frontend origin the test server trusts.
const TestOrigin = "http://localhost:5173"

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	insecure := false
	return &config.Config{
		Port:        "0", // Random port
		Environment: "test",
		Storage:     config.StorageMemory,
		JWT: config.JWT{
			Secret: "test-jwt-secret-key-for-testing-only",
			TTL:    time.Hour,
		},
		// httptest serves plain http, so the cookie jar would drop a Secure cookie.
		Cookie: config.Cookie{Secure: &insecure, SameSite: "lax"},
		CORS:   config.CORS{AllowedOrigins: []string{TestOrigin}},
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Config   *config.Config
}

// NewTestServer creates a complete test server backed by the in-memory store
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()
	log := logger.Nop()

	repos := memory.NewRepositories()
	hub := websocket.NewHub(log)
	go hub.Run()

	services := service.NewServices(repos, cfg, hub, log)
	router := api.NewRouter(services, hub, cfg, log)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}

// WebSocketURL returns the URL of the change-notification stream
func (ts *TestServer) WebSocketURL() string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/api/ws"
}

// NewHTTPClient returns a client with its own cookie jar, like a browser tab.
func NewHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

// Do sends a request with the trusted Origin and an optional JSON body.
func Do(t *testing.T, client *http.Client, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Origin", TestOrigin)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// Login posts credentials and leaves the session cookie in client's jar.
func (ts *TestServer) Login(t *testing.T, client *http.Client, email, password string) {
	t.Helper()

	resp := Do(t, client, http.MethodPost, ts.APIURL("/login"), map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}
}
