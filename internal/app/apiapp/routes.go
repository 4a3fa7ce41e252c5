package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/profilehub/internal/config"
	authsvc "github.com/ivankudzin/profilehub/internal/services/auth"
	mediasvc "github.com/ivankudzin/profilehub/internal/services/media"
	prefsvc "github.com/ivankudzin/profilehub/internal/services/preferences"
	profilesvc "github.com/ivankudzin/profilehub/internal/services/profiles"
	ratesvc "github.com/ivankudzin/profilehub/internal/services/rate"
	"github.com/ivankudzin/profilehub/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	ProfileService    *profilesvc.Service
	PreferenceService *prefsvc.Service
	MediaService      *mediasvc.Service
	RateLimiter       *ratesvc.Limiter
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	pingHandler := handlers.NewPingHandler()
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	prefHandler := handlers.NewPreferenceHandler(deps.PreferenceService)
	photoHandler := handlers.NewPhotoHandler(deps.MediaService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	rateMW := RateLimitMiddleware(deps.RateLimiter, deps.Logger)

	r.Get("/ping", pingHandler.Ping)

	r.Route("/users", func(r chi.Router) {
		r.Use(authMW)

		r.Post("/profiles", profileHandler.Create)
		r.Get("/profiles", profileHandler.List)

		r.Route("/{telegramID}", func(r chi.Router) {
			r.Use(rateMW)

			r.Get("/profiles", profileHandler.Get)
			r.Patch("/profiles", profileHandler.Patch)
			r.Delete("/profiles", profileHandler.Delete)

			r.Post("/preferences", prefHandler.Create)
			r.Get("/preferences", prefHandler.Get)

			r.Post("/photos", photoHandler.Upload)
			r.Get("/photos", photoHandler.List)
		})
	})
}
