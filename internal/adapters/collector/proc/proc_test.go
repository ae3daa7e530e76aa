package proc

import (
	"testing"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/services/mapper"
)

func TestSampler_Sample(t *testing.T) {
	samples := New().Sample()
	if len(samples) == 0 {
		t.Fatal("expected at least the goroutine gauge")
	}

	byName := make(map[string]domain.Sample, len(samples))
	for _, s := range samples {
		if _, ok := mapper.Lookup(s.Name); !ok {
			t.Fatalf("sample %q is not in the catalog", s.Name)
		}
		if s.Kind != domain.Gauge {
			t.Fatalf("sample %q kind = %q, want gauge", s.Name, s.Kind)
		}
		byName[s.Name] = s
	}

	g, ok := byName[mapper.MetricGoroutines]
	if !ok {
		t.Fatal("goroutine gauge missing")
	}
	if g.Value < 1 {
		t.Fatalf("goroutine count = %v, want >= 1", g.Value)
	}

	// CPU and RSS depend on platform support; when present they must be
	// sane.
	if cpu, ok := byName[mapper.MetricProcessCPU]; ok {
		if cpu.Value < 0 || cpu.Value > 100 {
			t.Fatalf("cpu percent = %v, want [0,100]", cpu.Value)
		}
	}
	if rss, ok := byName[mapper.MetricProcessRSS]; ok {
		if rss.Value <= 0 {
			t.Fatalf("rss = %v, want > 0", rss.Value)
		}
	}
}

func TestSampler_SampleRepeatable(t *testing.T) {
	s := New()
	first := s.Sample()
	second := s.Sample()
	if len(second) < len(first) {
		t.Fatalf("second sample lost gauges: %d -> %d", len(first), len(second))
	}
}
