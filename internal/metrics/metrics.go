package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vagondeck_http_requests_total",
		Help: "Total number of dashboard HTTP requests",
	}, []string{"method", "route", "status"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vagondeck_http_request_duration_seconds",
		Help:    "Dashboard HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	vendorRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vagondeck_vendor_requests_total",
		Help: "Total number of proxied Vagon API requests",
	}, []string{"method", "endpoint", "status"})
	vendorRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vagondeck_vendor_request_duration_seconds",
		Help:    "Vagon API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(httpRequestsTotal, httpRequestDuration, vendorRequestsTotal, vendorRequestDuration)
}

// ObserveHTTPRequest records one handled dashboard request.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveVendorRequest records one proxied vendor API call. Status 0 means
// the request never produced a response.
func ObserveVendorRequest(method, endpoint string, status int, elapsed time.Duration) {
	vendorRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	vendorRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// NormalizeEndpoint replaces numeric path segments with :id to keep the
// endpoint label cardinality bounded.
func NormalizeEndpoint(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
