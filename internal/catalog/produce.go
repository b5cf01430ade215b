package catalog

import "github.com/chrisdamba/greengrocer/internal/models"

const (
	CategoryLeafyGreens = "leafy greens"
	CategoryRoots       = "roots"
	CategoryAlliums     = "alliums"
	CategoryFruiting    = "fruiting"
	CategoryBrassicas   = "brassicas"
	CategoryHerbs       = "herbs"
)

// Produce is the storefront's built-in vegetable list.
func Produce() []models.Vegetable {
	return []models.Vegetable{
		{ID: 1, Name: "Tomato", Category: CategoryFruiting, Price: 2.49, Unit: "500g"},
		{ID: 2, Name: "Onion", Category: CategoryAlliums, Price: 0.99, Unit: "1kg"},
		{ID: 3, Name: "Carrot", Category: CategoryRoots, Price: 0.89, Unit: "1kg"},
		{ID: 4, Name: "Spinach", Category: CategoryLeafyGreens, Price: 1.75, Unit: "250g"},
		{ID: 5, Name: "Broccoli", Category: CategoryBrassicas, Price: 1.20, Unit: "each"},
		{ID: 6, Name: "Potato", Category: CategoryRoots, Price: 1.49, Unit: "2kg"},
		{ID: 7, Name: "Garlic", Category: CategoryAlliums, Price: 0.65, Unit: "bulb"},
		{ID: 8, Name: "Cucumber", Category: CategoryFruiting, Price: 0.79, Unit: "each"},
		{ID: 9, Name: "Kale", Category: CategoryLeafyGreens, Price: 1.50, Unit: "200g"},
		{ID: 10, Name: "Cauliflower", Category: CategoryBrassicas, Price: 1.35, Unit: "each"},
		{ID: 11, Name: "Bell Pepper", Category: CategoryFruiting, Price: 1.95, Unit: "3 pack"},
		{ID: 12, Name: "Beetroot", Category: CategoryRoots, Price: 1.10, Unit: "500g"},
		{ID: 13, Name: "Leek", Category: CategoryAlliums, Price: 1.25, Unit: "each"},
		{ID: 14, Name: "Lettuce", Category: CategoryLeafyGreens, Price: 0.85, Unit: "each"},
		{ID: 15, Name: "Basil", Category: CategoryHerbs, Price: 1.00, Unit: "30g"},
		{ID: 16, Name: "Courgette", Category: CategoryFruiting, Price: 0.95, Unit: "each"},
		{ID: 17, Name: "Brussels Sprouts", Category: CategoryBrassicas, Price: 1.60, Unit: "500g"},
		{ID: 18, Name: "Parsley", Category: CategoryHerbs, Price: 0.90, Unit: "30g"},
	}
}
