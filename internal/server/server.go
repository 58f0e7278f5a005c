package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/smart-door/smart_door/internal/config"
	"github.com/smart-door/smart_door/internal/routes"
)

// Server wraps the Fiber application receiving capture-event triggers.
type Server struct {
	app *fiber.App
	cfg config.Config
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(d routes.Deps) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName: d.Cfg.AppName,
		// Frame extraction, enrollment and SMS dispatch are sequential
		// remote calls; a capture needs longer than a typical API request.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	if err := routes.Setup(app, d); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: d.Cfg}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
