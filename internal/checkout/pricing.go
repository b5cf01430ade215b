package checkout

import (
	"math"

	"github.com/chrisdamba/greengrocer/internal/models"
)

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) calculateDeliveryFee(method string, subtotal float64) float64 {
	if method == models.DeliveryMethodPickup {
		return 0
	}
	if subtotal >= s.cfg.FreeDeliveryThreshold {
		return 0
	}

	fee := s.cfg.StandardDeliveryFee
	if method == models.DeliveryMethodExpress {
		fee = s.cfg.ExpressDeliveryFee
	}

	// Additional fee for small orders
	if subtotal < s.cfg.SmallOrderThreshold {
		fee += s.cfg.SmallOrderFee
	}

	return fee
}

func (s *Service) calculateTotals(method string, lines []models.OrderLine) models.OrderTotals {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.LineTotal
	}
	subtotal = roundCents(subtotal)

	deliveryFee := roundCents(s.calculateDeliveryFee(method, subtotal))
	tax := roundCents(subtotal * s.cfg.TaxRate)

	return models.OrderTotals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       roundCents(subtotal + deliveryFee + tax),
	}
}
