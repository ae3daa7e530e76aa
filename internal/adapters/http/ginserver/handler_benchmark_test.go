package ginserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fulviofreitas/eero-exporter/internal/adapters/prom"
	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/services/mapper"
	"github.com/fulviofreitas/eero-exporter/internal/store"
)

// newBenchRouter serves a snapshot sized like a busy home mesh: three
// eeros and sixty tracked devices.
func newBenchRouter(b *testing.B) *gin.Engine {
	b.Helper()
	gin.SetMode(gin.ReleaseMode)

	cache := store.NewSnapshotCache()
	health := store.NewHealth()

	add := func(samples []domain.Sample, name string, value float64, labels ...string) []domain.Sample {
		s, ok := mapper.NewSample(name, value, labels...)
		if !ok {
			b.Fatalf("sample %q not in catalog", name)
		}
		return append(samples, s)
	}

	samples := make([]domain.Sample, 0, 200)
	samples = add(samples, mapper.MetricNetworkStatus, 1, "4321", "Home")
	samples = add(samples, mapper.MetricNetworkClientsCount, 60, "4321", "Home")
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("100%d", i)
		loc := fmt.Sprintf("room-%d", i)
		samples = add(samples, mapper.MetricEeroStatus, 1, "4321", id, loc, "eero Pro 6")
		samples = add(samples, mapper.MetricEeroClients, 20, "4321", id, loc, "eero Pro 6")
		samples = add(samples, mapper.MetricEeroMeshQuality, 5, "4321", id, loc, "eero Pro 6")
	}
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("200%02d", i)
		name := fmt.Sprintf("client-%d", i)
		mac := fmt.Sprintf("00:11:22:33:44:%02x", i)
		samples = add(samples, mapper.MetricDeviceConnected, 1, "4321", id, name, mac)
		samples = add(samples, mapper.MetricDeviceSignalStrength, -55, "4321", id, name)
	}

	cache.Replace(&domain.Snapshot{CollectedAt: time.Now(), Samples: samples, Success: true})
	health.Record(store.Outcome{
		Time:         time.Now(),
		Duration:     900 * time.Millisecond,
		Samples:      len(samples),
		Success:      true,
		SessionValid: true,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(prom.NewBridge(cache, health))
	return NewRouter(NewHandler(cache, health, reg, "bench"))
}

func BenchmarkRouterMetrics(b *testing.B) {
	engine := newBenchRouter(b)

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status: %d", w.Code)
		}
	}
}

func BenchmarkRouterHealth(b *testing.B) {
	engine := newBenchRouter(b)

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status: %d", w.Code)
		}
	}
}
