// Package logging builds the structured slog loggers used by the servers and the CLI.
//
// Log level and format come from the environment:
//
//	LOG_LEVEL=debug|info|warn|error  (default info)
//	LOG_FORMAT=json|text             (default json)
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.WithRequestID(r.Context(), h.Logger)
//	    logger.Info("listing articles")
//	}
package logging
