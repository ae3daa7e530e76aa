package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/services/mapper"
	"github.com/fulviofreitas/eero-exporter/internal/store"
)

// Bridge exposes the cached snapshot plus collection telemetry as a
// prometheus.Collector. Descriptors are built once from the metric catalog;
// Collect only reads the cache and health state, so a scrape never reaches
// the upstream.
type Bridge struct {
	cache  *store.SnapshotCache
	health *store.Health
	descs  map[string]*prometheus.Desc
}

var _ prometheus.Collector = (*Bridge)(nil)

// NewBridge builds the catalog descriptors and wraps the shared stores.
func NewBridge(cache *store.SnapshotCache, health *store.Health) *Bridge {
	descs := make(map[string]*prometheus.Desc, len(mapper.Catalog))
	for _, spec := range mapper.Catalog {
		descs[spec.Name] = prometheus.NewDesc(spec.Name, spec.Help, spec.Labels, nil)
	}
	return &Bridge{cache: cache, health: health, descs: descs}
}

// Describe sends every catalog descriptor.
func (b *Bridge) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range b.descs {
		ch <- d
	}
}

// Collect renders the current snapshot. Before the first successful cycle
// there is nothing to expose and the scrape body stays empty; afterwards
// the last snapshot keeps serving through upstream outages.
func (b *Bridge) Collect(ch chan<- prometheus.Metric) {
	snap, ok := b.cache.Read()
	if !ok {
		return
	}
	for _, s := range snap.Samples {
		b.emit(ch, s)
	}
	b.collectTelemetry(ch)
}

// collectTelemetry derives the exporter's own metrics from the health state
// at gather time instead of storing them in the snapshot, so they move with
// failed cycles too.
func (b *Bridge) collectTelemetry(ch chan<- prometheus.Metric) {
	h := b.health.Read()

	var success float64
	if h.LastCycleOK {
		success = 1
	}
	b.emitValue(ch, mapper.MetricScrapeDuration, h.LastDuration.Seconds())
	b.emitValue(ch, mapper.MetricScrapeSuccess, success)

	for kind, n := range h.CycleErrors {
		b.emitValue(ch, mapper.MetricScrapeErrors, float64(n), string(kind))
	}
	for key, n := range h.APIRequests {
		b.emitValue(ch, mapper.MetricAPIRequests, float64(n), key.Endpoint, key.Status)
	}
}

func (b *Bridge) emitValue(ch chan<- prometheus.Metric, name string, value float64, labelValues ...string) {
	if sample, ok := mapper.NewSample(name, value, labelValues...); ok {
		b.emit(ch, sample)
	}
}

// emit converts one sample to a const metric, zipping label values into the
// catalog's order. Samples that do not match the catalog are dropped rather
// than poisoning the whole gather.
func (b *Bridge) emit(ch chan<- prometheus.Metric, s domain.Sample) {
	spec, ok := mapper.Lookup(s.Name)
	if !ok {
		return
	}
	values := make([]string, len(spec.Labels))
	for i, k := range spec.Labels {
		values[i] = s.Labels[k]
	}
	m, err := prometheus.NewConstMetric(b.descs[s.Name], valueType(s.Kind), s.Value, values...)
	if err != nil {
		return
	}
	ch <- m
}

func valueType(k domain.MetricKind) prometheus.ValueType {
	if k == domain.Counter {
		return prometheus.CounterValue
	}
	// Info metrics are constant gauges whose payload lives in the labels.
	return prometheus.GaugeValue
}
