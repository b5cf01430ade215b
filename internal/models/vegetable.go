package models

// Vegetable is a catalog item of the storefront. Only ID and Name matter to
// the favorites list; the remaining fields are display data.
type Vegetable struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image,omitempty"`
	Organic     bool    `json:"organic,omitempty"`
}
