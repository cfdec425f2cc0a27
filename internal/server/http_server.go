package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/oggyb/liftlink/internal/api"
	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/logger"
)

// NewRouter builds the HTTP handler: shared middleware, the health probe and
// every registrar's routes under /api.
func NewRouter(appCtx *app.AppContext, registrars ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(appCtx))
	r.Use(middleware.Recoverer)
	r.Use(corsHeaders(appCtx.Config.HTTP.CORSMaxAge))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         appCtx.Config.HTTP.CORSMaxAge,
	}))

	// set before mounting so /api inherits them
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthCheck)
		for _, reg := range registrars {
			reg.RegisterRoutes(r)
		}
	})
	return r
}

// NewHTTPServer wraps the router in an http.Server bound to HTTP_HOST:HTTP_PORT.
func NewHTTPServer(appCtx *app.AppContext, registrars ...RouteRegistrar) *http.Server {
	cfg := appCtx.Config
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           NewRouter(appCtx, registrars...),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "LiftLink API is running",
	})
}

// corsHeaders stamps the permissive CORS headers on every response, with or
// without an Origin header. cors.Handler still answers preflights.
func corsHeaders(maxAge int) func(http.Handler) http.Handler {
	age := strconv.Itoa(maxAge)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Max-Age", age)
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger puts a request-scoped logger on the context and logs one
// line per request once it completes.
func requestLogger(appCtx *app.AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := appCtx.Logger.With("request_id", middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), log)))

			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
