package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers собирает все обработчики сервера.
type Handlers struct {
	Pages    *PageHandlers
	Listings *ListingHandlers
	Auth     *AuthHandlers
	Password *PasswordHandlers
	Contact  *ContactHandlers
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter отделен от NewServer, чтобы тесты гоняли запросы через httptest.
func NewRouter(cfg ServerConfig, h Handlers, resolveSessionUC usecases_port.ResolveSessionUseCasePort, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(SessionMiddleware(resolveSessionUC))

	r.NotFound(h.Pages.NotFound)
	r.Get("/healthz", Healthz)
	r.Get("/", h.Pages.Home)

	r.Get("/listings/{listingID}", h.Listings.ListingPage)
	r.Get("/contact/{userRef}", h.Contact.ContactPage)

	r.Get("/sign-in", h.Auth.SignInPage)
	r.Post("/sign-in", h.Auth.SignIn)
	r.Get("/sign-up", h.Auth.SignUpPage)
	r.Post("/sign-up", h.Auth.SignUp)
	r.Post("/sign-out", h.Auth.SignOut)

	r.Get("/forgot-password", h.Password.ForgotPasswordPage)
	r.Post("/forgot-password", h.Password.ForgotPassword)
	r.Get("/reset-password", h.Password.ResetPasswordPage)
	r.Post("/reset-password", h.Password.ResetPassword)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", traceHeader},
			ExposedHeaders:   []string{traceHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/listings/{listingID}", h.Listings.GetListing)
		r.Post("/auth/password-reset", h.Password.RequestPasswordReset)
	})

	return r
}

func NewServer(cfg ServerConfig, handler http.Handler, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
	}
}

// Start блокируется до остановки сервера.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server...", nil)
	return s.httpServer.Shutdown(ctx)
}
