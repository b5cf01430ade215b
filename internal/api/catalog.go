package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) catalogRouter(router fiber.Router) {
	router.Get("/", s.listCatalog)
	router.Get("/categories", s.listCategories)
	router.Get("/:id", s.getCatalogItem)
}

func (s *Server) listCatalog(c *fiber.Ctx) error {
	return c.JSON(s.Catalog.List(c.Query("category")))
}

func (s *Server) listCategories(c *fiber.Ctx) error {
	return c.JSON(s.Catalog.Categories())
}

func (s *Server) getCatalogItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "id must be a number")
	}
	item, ok := s.Catalog.Get(id)
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, "item not found")
	}
	return c.JSON(item)
}
