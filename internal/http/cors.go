package http

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS envuelve el handler con la politica CORS. allowAll abre todos los origenes.
func WithCORS(next http.Handler, origins []string, allowAll bool) http.Handler {
	if allowAll || len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}
