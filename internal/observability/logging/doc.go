// Package logging configures log/slog for every command.
//
// Records logged through the *Context methods pick up request_id and
// trace_id from the context automatically:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//	slog.InfoContext(r.Context(), "contact submission stored")
//
// Errors that may carry credentials go through Err, which masks API keys,
// webhook URLs and DSN passwords before they reach the log.
package logging
