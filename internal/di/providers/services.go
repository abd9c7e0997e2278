package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/auth"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/content"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/service"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// ProvideValidator provides the form validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSanitizer provides the rich text allow-list.
func ProvideSanitizer(i do.Injector) (*content.Sanitizer, error) {
	return content.NewSanitizer(), nil
}

// ProvideRenderer provides the Markdown renderer.
func ProvideRenderer(i do.Injector) (*content.Renderer, error) {
	return content.NewRenderer(do.MustInvoke[*content.Sanitizer](i)), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.SessionTokens](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(
		storeHandle.Store,
		tokens,
		limiter.KeyedRateLimiter,
		validator,
		service.AuthConfig{
			SessionDuration:  cfg.Auth.SessionDuration,
			RememberDuration: cfg.Auth.RememberDuration,
		},
		log.Logger,
	), nil
}

// ProvideCatalogService provides the book catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(
		storeHandle.Store,
		do.MustInvoke[*validation.Validator](i),
		do.MustInvoke[*content.Sanitizer](i),
		do.MustInvoke[*content.Renderer](i),
		cfg.Catalog.PageSize,
		log.Logger,
	), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(
		storeHandle.Store,
		do.MustInvoke[*validation.Validator](i),
		do.MustInvoke[*content.Renderer](i),
		log.Logger,
	), nil
}

// ProvideAuditService provides the request action log.
func ProvideAuditService(i do.Injector) (*service.AuditService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuditService(storeHandle.Store, log.Logger), nil
}
