// Package proc samples the exporter's own process footprint. The collection
// loop invokes it once per cycle and folds the gauges into the snapshot.
package proc

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/services/mapper"
)

// Sampler reads CPU and resident memory of this process through gopsutil.
type Sampler struct {
	proc *process.Process
}

// New binds the sampler to the current PID. If the platform refuses process
// inspection the sampler still reports the goroutine count.
func New() *Sampler {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return &Sampler{}
	}
	return &Sampler{proc: p}
}

// Sample returns the process gauges in catalog form. CPU is a percentage of
// one core, clamped at 100 so multi-core bursts do not distort dashboards.
func (s *Sampler) Sample() []domain.Sample {
	out := make([]domain.Sample, 0, 3)

	if s.proc != nil {
		if pct, err := s.proc.CPUPercent(); err == nil {
			if pct > 100 {
				pct = 100
			}
			if smp, ok := mapper.NewSample(mapper.MetricProcessCPU, pct); ok {
				out = append(out, smp)
			}
		}
		if mi, err := s.proc.MemoryInfo(); err == nil && mi != nil {
			if smp, ok := mapper.NewSample(mapper.MetricProcessRSS, float64(mi.RSS)); ok {
				out = append(out, smp)
			}
		}
	}

	if smp, ok := mapper.NewSample(mapper.MetricGoroutines, float64(runtime.NumGoroutine())); ok {
		out = append(out, smp)
	}
	return out
}
