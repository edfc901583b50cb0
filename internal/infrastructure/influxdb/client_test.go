package influxdb_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/casos-demo/casos-core/internal/infrastructure/config"
	"github.com/casos-demo/casos-core/internal/infrastructure/influxdb"
)

// fakeInflux answers /ping and captures line protocol posted to /api/v2/write.
type fakeInflux struct {
	mu      sync.Mutex
	lines   []string
	healthy bool
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/ping"):
		if !f.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case strings.HasSuffix(r.URL.Path, "/api/v2/write"):
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
			if line != "" {
				f.lines = append(f.lines, line)
			}
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeInflux) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

func newFake(t *testing.T) (*fakeInflux, config.InfluxDBConfig) {
	t.Helper()
	fake := &fakeInflux{healthy: true}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return fake, config.InfluxDBConfig{
		Enabled:       true,
		URL:           srv.URL,
		Token:         "test-token",
		Org:           "casos",
		Bucket:        "metrics",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

// ─── Connection ────────────────────────────────────────────────────

func TestConnect_Disabled(t *testing.T) {
	client, err := influxdb.Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Fatalf("Connect() error = %v, want ErrDisabled", err)
	}
	if client != nil {
		t.Error("Connect() returned a client for disabled config")
	}
}

func TestConnect_Unhealthy(t *testing.T) {
	fake, cfg := newFake(t)
	fake.healthy = false

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Fatalf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_HealthCheck(t *testing.T) {
	_, cfg := newFake(t)

	client, err := influxdb.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
	if err := client.HealthCheck(t.Context()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	_, cfg := newFake(t)

	client, err := influxdb.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
	if err := client.HealthCheck(t.Context()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() after Close error = %v, want ErrNotConnected", err)
	}
}

// ─── Writes ────────────────────────────────────────────────────────

func TestWriteCaseOperation(t *testing.T) {
	fake, cfg := newFake(t)

	client, err := influxdb.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	client.WriteCaseOperation("create", influxdb.OutcomeOK, 1500*time.Microsecond)
	client.WriteCaseCount(6)
	client.Flush()

	lines := fake.written()
	if len(lines) != 2 {
		t.Fatalf("written lines = %d, want 2: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "caso_operations,operation=create,outcome=ok duration_ms=1.5 ") {
		t.Errorf("operation line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "caso_count count=6i ") {
		t.Errorf("count line = %q", lines[1])
	}
}

func TestWrite_NilAndClosedClientNoop(t *testing.T) {
	var nilClient *influxdb.Client
	nilClient.WriteCaseOperation("list", influxdb.OutcomeOK, time.Millisecond)
	nilClient.WriteCaseCount(1)
	nilClient.Flush()
	if err := nilClient.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}

	fake, cfg := newFake(t)
	client, err := influxdb.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close()

	client.WriteCaseOperation("delete", influxdb.OutcomeNotFound, time.Millisecond)
	client.Flush()
	if lines := fake.written(); len(lines) != 0 {
		t.Errorf("closed client wrote %d lines", len(lines))
	}
}
