package catalog

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"

	"github.com/chrisdamba/greengrocer/internal/models"
)

// VegetableFactory fills display fields for demo data. A factory built from
// the same seed produces the same values.
type VegetableFactory struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewVegetableFactory(seed int64) *VegetableFactory {
	return &VegetableFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Enrich sets any empty display field on item. ID, Name and any value
// already present are left alone.
func (vf *VegetableFactory) Enrich(item models.Vegetable) models.Vegetable {
	if item.Description == "" {
		item.Description = fmt.Sprintf("%s %s. %s", generateFreshness(vf.rng), strings.ToLower(item.Name), vf.fake.Lorem().Sentence(8))
	}
	if item.Price == 0 {
		item.Price = vf.fake.Float64(2, 1, 6)
	}
	if item.Unit == "" {
		item.Unit = generateUnit(vf.rng)
	}
	if item.Category == "" {
		item.Category = generateCategory(vf.rng)
	}
	if item.ImageURL == "" {
		item.ImageURL = fmt.Sprintf("/images/produce/%s.jpg", slug(item.Name))
	}
	if !item.Organic {
		item.Organic = vf.fake.Bool()
	}
	return item
}

// CreateVegetable makes a random catalog item with the given id.
func (vf *VegetableFactory) CreateVegetable(id int) models.Vegetable {
	return vf.Enrich(models.Vegetable{
		ID:   id,
		Name: vf.fake.Food().Vegetable(),
	})
}

func generateFreshness(rng *rand.Rand) string {
	phrases := []string{"Freshly picked", "Locally grown", "Farm fresh", "Seasonal", "Hand harvested"}
	return phrases[rng.Intn(len(phrases))]
}

func generateUnit(rng *rand.Rand) string {
	units := []string{"each", "250g", "500g", "1kg", "bunch"}
	return units[rng.Intn(len(units))]
}

func generateCategory(rng *rand.Rand) string {
	categories := []string{CategoryLeafyGreens, CategoryRoots, CategoryAlliums, CategoryFruiting, CategoryBrassicas, CategoryHerbs}
	return categories[rng.Intn(len(categories))]
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
