package httpkit

import (
	"net/http"
	"time"

	"locsync/internal/platform/config"
	"locsync/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware slice for the versioned API
// CORS origins come from CORS_ORIGINS on the given view, timeouts from REQUEST_TIMEOUT and SLOW_REQUEST
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	cors := middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
	})
	return append([]func(http.Handler) http.Handler{cors}, middleware.Defaults(
		cfg.MayDuration("REQUEST_TIMEOUT", 5*time.Minute),
		cfg.MayDuration("SLOW_REQUEST", 2*time.Second),
	)...)
}
