package models

import "time"

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type OrderLine struct {
	VegetableID int     `json:"vegetable_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type OrderTotals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

type Order struct {
	ID             string          `json:"id"`
	Customer       CustomerDetails `json:"customer"`
	Address        Address         `json:"delivery_address"`
	DeliveryMethod string          `json:"delivery_method"` // "standard", "express", "pickup"
	PaymentMethod  string          `json:"payment_method"`  // "card", "cash", "wallet"
	Lines          []OrderLine     `json:"lines"`
	Totals         OrderTotals     `json:"totals"`
	Status         string          `json:"status"`
	PlacedAt       time.Time       `json:"placed_at"`
}
