package metrics

// RecordArticleMutation records a successful article write.
// Operation should be one of "create", "update" or "delete".
func RecordArticleMutation(operation string) {
	ArticleMutationsTotal.WithLabelValues(operation).Inc()
}

// RecordArticlesDeleted records a bulk deletion of count articles.
func RecordArticlesDeleted(count int64) {
	if count <= 0 {
		return
	}
	ArticleMutationsTotal.WithLabelValues("delete").Add(float64(count))
}

// RecordSlugConflict records a write rejected because of a duplicate slug.
func RecordSlugConflict() {
	SlugConflictsTotal.Inc()
}

// RecordFallbackSlug records that a title produced no usable slug characters.
func RecordFallbackSlug() {
	FallbackSlugsTotal.Inc()
}

// RecordAssetOperation records the result of an asset store operation.
func RecordAssetOperation(operation string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AssetOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordPageRender records a rendered public page.
func RecordPageRender(page string) {
	PageRendersTotal.WithLabelValues(page).Inc()
}

// UpdateArticlesTotal updates the total count of articles in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

// SetCircuitBreakerState publishes the state of the named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
