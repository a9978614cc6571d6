package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ http.Flusher  = (*metricsResponseWriter)(nil)
	_ http.Hijacker = (*metricsResponseWriter)(nil)
)

// findMetric pulls the first metric from c whose labels contain all of want.
func findMetric(c prometheus.Collector, want map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		got := make(map[string]string, len(d.GetLabel()))
		for _, lp := range d.GetLabel() {
			got[lp.GetName()] = lp.GetValue()
		}
		matched := true
		for k, v := range want {
			if got[k] != v {
				matched = false
				break
			}
		}
		if matched {
			return d
		}
	}
	return nil
}

func metricsRouter(service string, h http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/projects/{slug}", h)
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	router := metricsRouter("count-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, slug := range []string{"alpha", "beta", "gamma"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/"+slug, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	// All three slugs collapse into the route pattern label.
	m := findMetric(httpRequestsTotal, map[string]string{
		"service": "count-svc", "method": "GET", "path": "/projects/{slug}", "status": "200",
	})
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(3))
}

func TestPrometheusMetrics_ObservesDuration(t *testing.T) {
	router := metricsRouter("hist-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/x", nil))

	m := findMetric(httpRequestDuration, map[string]string{
		"service": "hist-svc", "status": "201",
	})
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	seen := float64(-1)
	router := metricsRouter("inflight-svc", func(w http.ResponseWriter, r *http.Request) {
		if m := findMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"}); m != nil {
			seen = m.GetGauge().GetValue()
		}
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/x", nil))

	assert.GreaterOrEqual(t, seen, float64(1))
}

func TestPrometheusMetrics_ImplicitStatusIs200(t *testing.T) {
	router := metricsRouter("implicit-svc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/x", nil))

	m := findMetric(httpRequestsTotal, map[string]string{"service": "implicit-svc", "status": "200"})
	require.NotNil(t, m)
}

type flushRecorder struct {
	http.ResponseWriter
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestMetricsResponseWriter_FlushDelegates(t *testing.T) {
	inner := &flushRecorder{ResponseWriter: httptest.NewRecorder()}
	rw := &metricsResponseWriter{ResponseWriter: inner, statusCode: http.StatusOK}

	rw.Flush()
	assert.True(t, inner.flushed)
}

type hijackRecorder struct {
	http.ResponseWriter
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestMetricsResponseWriter_HijackDelegates(t *testing.T) {
	inner := &hijackRecorder{ResponseWriter: httptest.NewRecorder()}
	rw := &metricsResponseWriter{ResponseWriter: inner, statusCode: http.StatusOK}

	_, _, err := rw.Hijack()
	assert.NoError(t, err)
	assert.True(t, inner.hijacked)
}

type bareResponseWriter struct {
	header http.Header
}

func (b *bareResponseWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

func (b *bareResponseWriter) Write(p []byte) (int, error) { return len(p), nil }
func (b *bareResponseWriter) WriteHeader(int)             {}

func TestMetricsResponseWriter_UnsupportedUnderlying(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: &bareResponseWriter{}, statusCode: http.StatusOK}

	rw.Flush() // must not panic

	_, _, err := rw.Hijack()
	assert.ErrorIs(t, err, http.ErrNotSupported)
}
