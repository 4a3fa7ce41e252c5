package apiapp

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authsvc "github.com/ivankudzin/profilehub/internal/services/auth"
	ratesvc "github.com/ivankudzin/profilehub/internal/services/rate"
	httperrors "github.com/ivankudzin/profilehub/internal/transport/http/errors"
)

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(recoverer(log))
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// recoverer converts any panic into the uniform error body so internals
// never leak to the caller.
func recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if log != nil {
						log.Error("panic recovered",
							zap.Any("panic", rec),
							zap.String("method", r.Method),
							zap.String("path", r.URL.Path),
						)
					}
					httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
						Detail: "Internal Server Error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware admits a request carrying either a bot bearer token or a
// fresh HMAC signature over the X-Timestamp header.
func AuthMiddleware(authService *authsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService == nil {
				httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{
					Detail: "auth service is unavailable",
				})
				return
			}

			if token, ok := extractBearerToken(r.Header.Get("Authorization")); ok {
				if _, err := authService.JWT.Parse(token); err == nil {
					next.ServeHTTP(w, r)
					return
				}
				if log != nil {
					log.Debug("bearer token rejected", zap.String("path", r.URL.Path))
				}
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Detail: "invalid bearer token",
				})
				return
			}

			timestamp := r.Header.Get("X-Timestamp")
			signature := r.Header.Get("X-Signature")
			if err := authService.Signer.Verify(timestamp, signature); err != nil {
				if log != nil {
					log.Debug("hmac signature rejected", zap.String("path", r.URL.Path), zap.Error(err))
				}
				httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{
					Detail: "Invalid authentication",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware throttles mutating requests per profile. Redis
// outages fail open: a broken limiter must not take writes down with it.
func RateLimitMiddleware(limiter *ratesvc.Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			id, ok := rateKeyFromRequest(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter, allowed, err := limiter.AllowWrite(r.Context(), id)
			if err != nil {
				if log != nil {
					log.Warn("rate limiter unavailable, failing open", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{
					Detail: "too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func rateKeyFromRequest(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "telegramID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func extractBearerToken(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
