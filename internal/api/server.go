// Package api exposes the storefront over HTTP.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chrisdamba/greengrocer/internal/catalog"
	"github.com/chrisdamba/greengrocer/internal/checkout"
	"github.com/chrisdamba/greengrocer/internal/favorites"
	"github.com/chrisdamba/greengrocer/internal/tracking"
)

type Server struct {
	Version   string
	Catalog   *catalog.Catalog
	Favorites *favorites.Store
	Tracker   *tracking.Simulator
	Checkout  *checkout.Service
}

// App builds the fiber application with every route mounted under /api.
func (s *Server) App() *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/api")

	group.Get("/version", s.apiVersion)

	s.catalogRouter(group.Group("/catalog"))
	s.favoritesRouter(group.Group("/favorites"))
	s.trackingRouter(group.Group("/tracking"))
	s.checkoutRouter(group.Group("/checkout"))

	return webApp
}

func (s *Server) Listen(listen string) error {
	return s.App().Listen(listen)
}

func (s *Server) apiVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": s.Version,
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func errorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
