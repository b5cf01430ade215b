package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chrisdamba/greengrocer/internal/checkout"
	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/repositories"
)

func (s *Server) checkoutRouter(router fiber.Router) {
	router.Post("/pin", s.pinAddress)
	router.Post("/quote", s.quote)
	router.Post("/orders", s.placeOrder)
	router.Get("/orders", s.listOrders)
	router.Get("/orders/:id", s.getOrder)
}

func (s *Server) pinAddress(c *fiber.Ctx) error {
	var pin models.Location
	if err := c.BodyParser(&pin); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	addr, err := s.Checkout.PinAddress(c.UserContext(), pin)
	if err != nil {
		return checkoutError(c, err)
	}
	return c.JSON(addr)
}

func (s *Server) quote(c *fiber.Ctx) error {
	var req checkout.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	quote, err := s.Checkout.Quote(req)
	if err != nil {
		return checkoutError(c, err)
	}
	return c.JSON(quote)
}

func (s *Server) placeOrder(c *fiber.Ctx) error {
	var req checkout.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	order, err := s.Checkout.PlaceOrder(c.UserContext(), req)
	if err != nil {
		return checkoutError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	orders, err := s.Checkout.ListOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	order, err := s.Checkout.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return checkoutError(c, err)
	}
	return c.JSON(order)
}

func checkoutError(c *fiber.Ctx, err error) error {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, repositories.ErrNotFound):
		return errorResponse(c, fiber.StatusNotFound, "order not found")
	default:
		return err
	}
}
