package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ratoneando/scrapers"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"method", "endpoint", "status"},
	)
	retailerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratoneando_retailer_requests_total",
			Help: "Retailer searches by outcome.",
		},
		[]string{"retailer", "outcome"},
	)
	retailerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ratoneando_retailer_request_duration_seconds",
			Help:    "Latency of retailer searches.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"retailer"},
	)
	retailerProductsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratoneando_retailer_products_total",
			Help: "Products returned per retailer.",
		},
		[]string{"retailer"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(retailerRequestsTotal)
	prometheus.MustRegister(retailerRequestDuration)
	prometheus.MustRegister(retailerProductsTotal)
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// GinMiddleware records every request under its route pattern.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RecordRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// AdapterObserver feeds retailer search outcomes into prometheus.
type AdapterObserver struct{}

func (AdapterObserver) ObserveFetch(retailer scrapers.RetailerID, products int, err error, elapsed time.Duration) {
	r := string(retailer)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case products == 0:
		outcome = "empty"
	}
	retailerRequestsTotal.WithLabelValues(r, outcome).Inc()
	retailerRequestDuration.WithLabelValues(r).Observe(elapsed.Seconds())
	retailerProductsTotal.WithLabelValues(r).Add(float64(products))
}
