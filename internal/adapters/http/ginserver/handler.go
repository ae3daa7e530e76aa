package ginserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/store"
)

// maxGoroutines trips the liveness probe when the exporter leaks goroutines.
const maxGoroutines = 500

// Handler serves the exporter's HTTP surface: the Prometheus exposition,
// health and probe endpoints, and a small landing page. Every handler reads
// shared state only; nothing here calls the upstream.
type Handler struct {
	cache   *store.SnapshotCache
	health  *store.Health
	metrics http.Handler
	probes  healthcheck.Handler
	version string
}

// NewHandler wires the shared stores and the metric gatherer into the HTTP
// facade. The gatherer is the dedicated registry holding the snapshot
// bridge, which keeps default Go collectors out of the exposition.
func NewHandler(cache *store.SnapshotCache, health *store.Health, g prometheus.Gatherer, version string) *Handler {
	probes := healthcheck.NewHandler()
	probes.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))

	return &Handler{
		cache:   cache,
		health:  health,
		metrics: promhttp.HandlerFor(g, promhttp.HandlerOpts{}),
		probes:  probes,
		version: version,
	}
}

// Metrics renders the cached snapshot in text exposition format. Before the
// first successful cycle the registry gathers nothing and the body is empty.
func (h *Handler) Metrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

// Health reports collection health as JSON: 200 when the session is valid
// and the latest cycle succeeded, 503 otherwise.
func (h *Handler) Health(c *gin.Context) {
	snap := h.health.Read()

	body := gin.H{
		"status":                  "unhealthy",
		"session_valid":           snap.SessionValid,
		"last_collection_success": snap.LastCycleOK,
		"collections_total":       snap.CollectionsTotal,
		"collections_failed":      snap.CollectionsFailed,
	}
	code := http.StatusServiceUnavailable
	if snap.Healthy() {
		body["status"] = "healthy"
		code = http.StatusOK
	}
	if snap.LastError != domain.KindNone {
		body["last_error"] = string(snap.LastError)
	}
	c.JSON(code, body)
}

// Ready answers 200 as soon as the listener is up. Orchestrators poll this
// before routing traffic; collection health deliberately does not gate it.
func (h *Handler) Ready(c *gin.Context) {
	h.probes.ReadyEndpoint(c.Writer, c.Request)
}

// Live answers 200 until the goroutine threshold trips.
func (h *Handler) Live(c *gin.Context) {
	h.probes.LiveEndpoint(c.Writer, c.Request)
}

// Index renders the landing page: version, health summary, endpoint links
// and a scrape-config hint built from the requested host.
func (h *Handler) Index(c *gin.Context) {
	snap := h.health.Read()

	status, session := "Unhealthy", "Invalid"
	if snap.Healthy() {
		status = "Healthy"
	}
	if snap.SessionValid {
		session = "Valid"
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>eero exporter</title>")
	sb.WriteString("<style>body{font-family:system-ui,Arial,sans-serif;max-width:650px;margin:40px auto;padding:0 16px}table{border-collapse:collapse}td,th{border:1px solid #ddd;padding:6px 10px;text-align:left}code{background:#f4f4f4;padding:2px 6px}</style>")
	sb.WriteString("</head><body>")
	sb.WriteString("<h1>Eero Exporter <small>")
	sb.WriteString(h.version)
	sb.WriteString("</small></h1>")
	sb.WriteString("<p>Prometheus metrics for eero mesh networks.</p>")
	sb.WriteString("<ul>")
	sb.WriteString(`<li><a href="/metrics">/metrics</a> - Prometheus exposition</li>`)
	sb.WriteString(`<li><a href="/health">/health</a> - collection health</li>`)
	sb.WriteString(`<li><a href="/ready">/ready</a> - readiness probe</li>`)
	sb.WriteString(`<li><a href="/live">/live</a> - liveness probe</li>`)
	sb.WriteString("</ul>")

	sb.WriteString("<table>")
	sb.WriteString("<tr><th>Status</th><td>")
	sb.WriteString(status)
	sb.WriteString("</td></tr>")
	sb.WriteString("<tr><th>Session</th><td>")
	sb.WriteString(session)
	sb.WriteString("</td></tr>")
	sb.WriteString("<tr><th>Collections</th><td>")
	sb.WriteString(strconv.FormatUint(snap.CollectionsTotal, 10))
	sb.WriteString(" total, ")
	sb.WriteString(strconv.FormatUint(snap.CollectionsFailed, 10))
	sb.WriteString(" failed</td></tr>")
	if cached, ok := h.cache.Read(); ok {
		sb.WriteString("<tr><th>Snapshot</th><td>#")
		sb.WriteString(strconv.FormatUint(cached.Sequence, 10))
		sb.WriteString(", ")
		sb.WriteString(strconv.Itoa(len(cached.Samples)))
		sb.WriteString(" samples</td></tr>")
	}
	sb.WriteString("</table>")

	sb.WriteString("<p>Scrape config:</p><code>- targets: ['")
	sb.WriteString(c.Request.Host)
	sb.WriteString("']</code>")
	sb.WriteString("</body></html>")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}
