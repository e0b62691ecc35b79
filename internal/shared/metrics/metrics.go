package metrics

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docverify_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docverify_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docverify_transactions_submitted_total",
			Help: "Persisted transactions by outcome and error code",
		},
		[]string{"result", "code"},
	)

	imageBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docverify_image_bytes",
			Help:    "Size of submitted document images in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
	)
)

// ObserveTransaction counts a persisted transaction. code is 0 for accepted ones.
func ObserveTransaction(accepted bool, code int) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	transactionsTotal.WithLabelValues(result, strconv.Itoa(code)).Inc()
}

// ObserveImageBytes records the size of one decoded image.
func ObserveImageBytes(n int64) {
	if n < 0 {
		n = 0
	}
	imageBytes.Observe(float64(n))
}

// Middleware records request count and latency labelled by route template,
// which keeps ids out of the label set.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RegisterDB exports connection pool stats for database under the db_name label.
// Registering the same name twice is not an error.
func RegisterDB(database *sql.DB, name string) error {
	if database == nil {
		return nil
	}
	err := prometheus.Register(collectors.NewDBStatsCollector(database, name))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
