package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// loginLimiterIdleTTL evicts per-client limiters that have been quiet this long.
	loginLimiterIdleTTL = 15 * time.Minute

	// sessionCleanupInterval is how often expired sessions are purged.
	sessionCleanupInterval = time.Hour
)
