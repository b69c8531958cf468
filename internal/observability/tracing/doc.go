// Package tracing provides OpenTelemetry tracing integration.
//
// Features:
//   - Automatic HTTP request tracing (Middleware)
//   - Spans around article store operations (StartSpan)
//   - W3C Trace Context propagation
//   - Trace ID returned to clients in the X-Trace-Id header
//
// Example usage:
//
//	import "news-site/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.InitTracer("news-site", version)
//	    defer func() { _ = shutdown(context.Background()) }()
//	}
//
//	func loadArticle(ctx context.Context) {
//	    ctx, span := tracing.StartSpan(ctx, "article.GetBySlug")
//	    defer span.End()
//	    // ...
//	}
package tracing
