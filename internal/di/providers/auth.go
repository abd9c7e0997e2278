package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/auth"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/ratelimit"
)

// AuthKey wraps the session key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the session key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Auth.SessionKey = key

	log.Info("Session key loaded",
		"session_duration", cfg.Auth.SessionDuration,
		"remember_duration", cfg.Auth.RememberDuration,
	)

	return AuthKey(key), nil
}

// ProvideSessionTokens provides the PASETO session cookie codec.
func ProvideSessionTokens(i do.Injector) (*auth.SessionTokens, error) {
	return auth.NewSessionTokens(do.MustInvoke[AuthKey](i))
}

// LoginLimiterHandle wraps the per-client login limiter with shutdown capability.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	return h.KeyedRateLimiter.Shutdown()
}

// ProvideLoginLimiter provides the login attempt limiter.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &LoginLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst, loginLimiterIdleTTL),
	}, nil
}
