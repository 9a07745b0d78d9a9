package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taxbridge/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPMetrics records request count and latency per route.
// It is a pass-through when meter is nil or instruments cannot be created.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	noop := func(c *gin.Context) { c.Next() }
	if meter == nil {
		return noop
	}

	requests, err := telemetry.NewCounter(meter,
		"http_server_request_total",
		"Total number of HTTP requests",
		"{request}",
	)
	if err != nil {
		log.Warn("HTTP metrics disabled", zap.Error(err))
		return noop
	}
	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		log.Warn("HTTP metrics disabled", zap.Error(err))
		return noop
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := telemetry.AttrHTTPMethod.String(c.Request.Method)
		path := telemetry.AttrHTTPRoute.String(route)

		requests.Inc(ctx, method, path, telemetry.AttrHTTPStatus.Int(c.Writer.Status()))
		duration.RecordDuration(ctx, time.Since(start), method, path)
	}
}
