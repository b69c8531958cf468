// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes circuit breakers and retry logic used around the database connection.
//
// The package supports:
//   - A circuit breaker wrapping the article database
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("database"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return repo.Get(ctx, id)
//	})
//
//	retryConfig := retry.DBConnectConfig()
//	err := retry.WithBackoff(ctx, retryConfig, func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
