// Package observability groups the logging, metrics and tracing support of
// the news site.
//
// Subpackages:
//   - logging: slog setup driven by LOG_LEVEL and LOG_FORMAT
//   - metrics: Prometheus collectors for HTTP traffic, articles and storage
//   - tracing: OpenTelemetry tracer and HTTP middleware
//
// Example usage:
//
//	import (
//	    "news-site/internal/observability/logging"
//	    "news-site/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordPageRender("index")
//	}
package observability
