package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/study-assistant/internal/api"
	apiMiddleware "github.com/phrazzld/study-assistant/internal/api/middleware"
)

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 300

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{apiMiddleware.TraceIDHeader, "Retry-After"},
		MaxAge:         corsMaxAge,
	}))
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout()))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	rateLimiter := apiMiddleware.NewRateLimiter(app.config.RateLimit)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordHasher)
	chatHandler := api.NewChatHandler(app.chatStore)
	aiHandler := api.NewAIHandler(app.generator)

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}
	healthHandler := api.NewHealthHandler(pinger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(authMiddleware.Authenticate).Get("/me", authHandler.Me)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Get("/modes", aiHandler.Modes)
			r.With(authMiddleware.Authenticate, rateLimiter.Limit).Post("/generate", aiHandler.Generate)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/history", chatHandler.History)
			r.Post("/save", chatHandler.Save)
			r.Get("/{chatId}", chatHandler.Get)
			r.Delete("/{chatId}", chatHandler.Delete)
			r.Delete("/", chatHandler.Clear)
		})
	})

	return r
}
