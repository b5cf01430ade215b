package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/tracking"
)

func (s *Server) trackingRouter(router fiber.Router) {
	router.Get("/", s.getTracking)
	router.Post("/start", s.startTracking)
	router.Post("/stop", s.stopTracking)
	router.Post("/reset", s.resetTracking)
	router.Put("/route", s.setTrackingRoute)
}

func (s *Server) getTracking(c *fiber.Ctx) error {
	return c.JSON(s.Tracker.State())
}

func (s *Server) startTracking(c *fiber.Ctx) error {
	s.Tracker.Start()
	return c.JSON(s.Tracker.State())
}

func (s *Server) stopTracking(c *fiber.Ctx) error {
	s.Tracker.Stop()
	return c.JSON(s.Tracker.State())
}

func (s *Server) resetTracking(c *fiber.Ctx) error {
	s.Tracker.Reset()
	return c.JSON(s.Tracker.State())
}

func (s *Server) setTrackingRoute(c *fiber.Ctx) error {
	var requestBody struct {
		Pickup  models.TrackedLocation `json:"pickup"`
		Dropoff models.TrackedLocation `json:"dropoff"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	err := s.Tracker.SetRoute(requestBody.Pickup, requestBody.Dropoff)
	switch {
	case errors.Is(err, tracking.ErrRunning):
		return errorResponse(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, tracking.ErrInvalidRoute):
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}
	return c.JSON(s.Tracker.State())
}
