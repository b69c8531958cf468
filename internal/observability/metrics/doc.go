// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Business metrics (articles created, updated, deleted, slug conflicts)
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint of the admin listener.
//
// Example usage:
//
//	import "news-site/internal/observability/metrics"
//
//	func publish(ctx context.Context) {
//	    start := time.Now()
//	    // ... insert article ...
//	    metrics.RecordArticleMutation("create")
//	    metrics.RecordOperationDuration("create_article", time.Since(start))
//	}
package metrics
