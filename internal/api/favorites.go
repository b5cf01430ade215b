package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chrisdamba/greengrocer/internal/models"
)

func (s *Server) favoritesRouter(router fiber.Router) {
	router.Get("/", s.listFavorites)
	router.Post("/", s.addFavorite)
	router.Get("/:id", s.getFavorite)
	router.Delete("/:id", s.removeFavorite)
	router.Post("/:id/toggle", s.toggleFavorite)
}

func (s *Server) listFavorites(c *fiber.Ctx) error {
	return c.JSON(s.Favorites.List())
}

// addFavorite accepts a full item or just {"id": n}, which is looked up in
// the catalog.
func (s *Server) addFavorite(c *fiber.Ctx) error {
	var item models.Vegetable
	if err := c.BodyParser(&item); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if item.ID == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "id is required")
	}
	if item.Name == "" {
		known, ok := s.Catalog.Get(item.ID)
		if !ok {
			return errorResponse(c, fiber.StatusNotFound, "item not found")
		}
		item = known
	}

	added := s.Favorites.Add(c.UserContext(), item)
	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"added":     added,
		"favorites": s.Favorites.List(),
	})
}

func (s *Server) getFavorite(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "id must be a number")
	}
	return c.JSON(fiber.Map{
		"id":       id,
		"favorite": s.Favorites.IsFavorite(id),
	})
}

func (s *Server) removeFavorite(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "id must be a number")
	}
	removed := s.Favorites.Remove(c.UserContext(), id)
	return c.JSON(fiber.Map{
		"removed":   removed,
		"favorites": s.Favorites.List(),
	})
}

func (s *Server) toggleFavorite(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "id must be a number")
	}

	item, ok := s.Catalog.Get(id)
	if !ok {
		// Items dropped from the catalog can still be un-favorited.
		for _, fav := range s.Favorites.List() {
			if fav.ID == id {
				item, ok = fav, true
				break
			}
		}
	}
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, "item not found")
	}

	favorite := s.Favorites.Toggle(c.UserContext(), item)
	return c.JSON(fiber.Map{
		"id":       id,
		"favorite": favorite,
	})
}
