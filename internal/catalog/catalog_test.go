package catalog

import (
	"testing"

	"github.com/chrisdamba/greengrocer/internal/models"
)

func TestCatalog_GetAndList(t *testing.T) {
	c := New(Produce())

	item, ok := c.Get(1)
	if !ok || item.Name != "Tomato" {
		t.Fatalf("Get(1) = %+v, %v, want Tomato", item, ok)
	}
	if _, ok := c.Get(999); ok {
		t.Fatal("Get(999) found an item")
	}
	if got := len(c.List("")); got != len(Produce()) {
		t.Fatalf("List(\"\") returned %d items, want %d", got, len(Produce()))
	}
	for _, item := range c.List(CategoryRoots) {
		if item.Category != CategoryRoots {
			t.Fatalf("List(roots) returned %+v", item)
		}
	}
	if got := len(c.List("fungi")); got != 0 {
		t.Fatalf("List(fungi) returned %d items, want 0", got)
	}
}

func TestCatalog_DuplicateIDsKeepFirst(t *testing.T) {
	c := New([]models.Vegetable{{ID: 1, Name: "Tomato"}, {ID: 1, Name: "Onion"}})

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if item, _ := c.Get(1); item.Name != "Tomato" {
		t.Fatalf("Get(1).Name = %q, want %q", item.Name, "Tomato")
	}
}

func TestCatalog_Categories(t *testing.T) {
	c := New(Produce())

	got := c.Categories()
	want := []string{CategoryAlliums, CategoryBrassicas, CategoryFruiting, CategoryHerbs, CategoryLeafyGreens, CategoryRoots}
	if len(got) != len(want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Categories = %v, want %v", got, want)
		}
	}
}

func TestFromConfig_EnrichKeepsCoreFields(t *testing.T) {
	c := FromConfig(models.CatalogConfig{Seed: 7, Enrich: true})

	for _, want := range Produce() {
		got, ok := c.Get(want.ID)
		if !ok {
			t.Fatalf("item %d missing", want.ID)
		}
		if got.Name != want.Name || got.Price != want.Price || got.Category != want.Category {
			t.Fatalf("enriched %+v changed core fields of %+v", got, want)
		}
		if got.Description == "" || got.ImageURL == "" {
			t.Fatalf("item %d not enriched: %+v", want.ID, got)
		}
	}
}

func TestVegetableFactory_SameSeedSameData(t *testing.T) {
	a := NewVegetableFactory(42).Enrich(models.Vegetable{ID: 1, Name: "Tomato"})
	b := NewVegetableFactory(42).Enrich(models.Vegetable{ID: 1, Name: "Tomato"})

	if a != b {
		t.Fatalf("factories with equal seeds disagree:\n%+v\n%+v", a, b)
	}
	if a.ImageURL != "/images/produce/tomato.jpg" {
		t.Fatalf("ImageURL = %q", a.ImageURL)
	}
}

func TestVegetableFactory_CreateVegetable(t *testing.T) {
	item := NewVegetableFactory(1).CreateVegetable(100)
	if item.ID != 100 || item.Name == "" || item.Price <= 0 {
		t.Fatalf("CreateVegetable = %+v", item)
	}
}
