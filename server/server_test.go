package server

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/usermodel/logger"
	"github.com/kbukum/usermodel/metrics"
	"github.com/kbukum/usermodel/security"
	"github.com/kbukum/usermodel/security/tlstest"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, io.Discard, "test")
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", -1},
		{"2048", 2048},
		{"512KB", 512 * 1024},
		{"10mb", 10 * 1024 * 1024},
		{" 1GB ", 1024 * 1024 * 1024},
		{"lots", -1},
	}
	for _, tt := range tests {
		if got := ParseSize(tt.in, -1); got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.MaxBodySize != "10MB" {
		t.Errorf("unexpected defaults: port=%d max_body_size=%q", cfg.Port, cfg.MaxBodySize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"negative read timeout", func(c *Config) { c.ReadTimeout = -1 }},
		{"bad body size", func(c *Config) { c.MaxBodySize = "huge" }},
		{"tls key missing", func(c *Config) { c.TLS = security.TLSConfig{CertFile: "cert.pem"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func newTestServer(cfg Config) *Server {
	cfg.ApplyDefaults()
	s := New(cfg, testLogger(), false)
	s.ApplyMiddleware(Middleware{})
	s.GinEngine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return s
}

func TestServer_DefaultEndpointsAndMux(t *testing.T) {
	s := newTestServer(Config{})
	s.RegisterDefaultEndpoints("usermodel")
	s.Handle("/extra", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	tests := []struct {
		path string
		want int
	}{
		{"/ping", http.StatusOK},
		{"/health", http.StatusOK},
		{"/info", http.StatusOK},
		{"/extra", http.StatusAccepted},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.want)
		}
	}
}

func TestServer_PanicIsObserved(t *testing.T) {
	mcfg := metrics.Config{}
	mcfg.ApplyDefaults()
	collector, err := metrics.NewCollector(mcfg)
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}

	var logs bytes.Buffer
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.NewWithWriter(&logger.Config{Level: "warn", Format: "json"}, &logs, "test"), false)
	s.ApplyMiddleware(Middleware{Metrics: collector})
	s.GinEngine().GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	if !strings.Contains(logs.String(), `"message":"Request completed"`) || !strings.Contains(logs.String(), `"status":500`) {
		t.Errorf("expected request log with status 500, got:\n%s", logs.String())
	}

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), `route="/boom",status="500"`) {
		t.Errorf("expected request duration sample for the panic, got:\n%s", rr.Body.String())
	}
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(Config{Host: "127.0.0.1"})
	// ApplyDefaults turns port 0 into 8080, so bind an ephemeral port directly.
	s.httpServer.Addr = "127.0.0.1:0"

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop(ctx)

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "pong" {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}
}

func TestServer_StartTLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	s := newTestServer(Config{
		Host: "127.0.0.1",
		TLS:  security.TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile, ClientCAFile: certs.CAFile},
	})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop(ctx)

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{
		RootCAs:      certs.CertPool,
		Certificates: []tls.Certificate{certs.Leaf},
		MinVersion:   tls.VersionTLS12,
	}}}
	resp, err := client.Get("https://" + s.Addr() + "/ping")
	if err != nil {
		t.Fatalf("GET over mutual TLS failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	noCert := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: certs.CertPool, MinVersion: tls.VersionTLS12}}}
	if resp, err := noCert.Get("https://" + s.Addr() + "/ping"); err == nil {
		resp.Body.Close()
		t.Error("expected handshake failure without a client certificate")
	}
}

func TestServer_StartTLSBadCert(t *testing.T) {
	s := newTestServer(Config{TLS: security.TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}})
	s.httpServer.Addr = "127.0.0.1:0"
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail with a missing certificate")
	}
}
