package middleware

import (
	"net/http"

	"github.com/rs/cors"
	"pbp-backend/internal/config"
)

// NewCORS builds the CORS layer for the volunteer-facing admin frontend,
// which is served from a different origin than this API.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300, // preflight cache, seconds
	})

	return c.Handler
}
