// Package checkout prices baskets and records orders placed through the
// storefront's multi-step checkout. Payment is recorded, never charged.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/catalog"
	"github.com/chrisdamba/greengrocer/internal/models"
	"github.com/chrisdamba/greengrocer/internal/output"
	"github.com/chrisdamba/greengrocer/internal/repositories"
)

// MaxLineQuantity bounds the quantity of one item in a basket.
const MaxLineQuantity = 999

// AddressResolver resolves a map pin to a readable address, returning a
// placeholder on failure.
type AddressResolver interface {
	ResolveOrPlaceholder(ctx context.Context, loc models.Location) string
}

type LineRequest struct {
	VegetableID int `json:"vegetable_id"`
	Quantity    int `json:"quantity"`
}

type QuoteRequest struct {
	DeliveryMethod string        `json:"delivery_method"`
	Lines          []LineRequest `json:"lines"`
}

type Quote struct {
	Lines  []models.OrderLine `json:"lines"`
	Totals models.OrderTotals `json:"totals"`
}

type OrderRequest struct {
	Customer       models.CustomerDetails `json:"customer"`
	Address        models.Address         `json:"delivery_address"`
	DeliveryMethod string                 `json:"delivery_method"`
	PaymentMethod  string                 `json:"payment_method"`
	Lines          []LineRequest          `json:"lines"`
}

type Service struct {
	cfg      models.CheckoutConfig
	catalog  *catalog.Catalog
	orders   repositories.OrderRepository
	resolver AddressResolver
	events   output.Destination
	now      func() time.Time
}

func NewService(cfg models.CheckoutConfig, cat *catalog.Catalog, orders repositories.OrderRepository, resolver AddressResolver, events output.Destination) *Service {
	if events == nil {
		events = output.Discard{}
	}
	return &Service{
		cfg:      cfg,
		catalog:  cat,
		orders:   orders,
		resolver: resolver,
		events:   events,
		now:      time.Now,
	}
}

// PinAddress builds the shipping address for a dropped map pin.
func (s *Service) PinAddress(ctx context.Context, loc models.Location) (models.Address, error) {
	if !loc.Valid() {
		verr := &ValidationError{}
		verr.add("pin", "coordinates are out of range")
		return models.Address{}, verr
	}
	addr := models.Address{Pin: loc}
	if s.resolver != nil {
		addr.Label = s.resolver.ResolveOrPlaceholder(ctx, loc)
	}
	return addr, nil
}

// Quote prices a basket without validating customer details.
func (s *Service) Quote(req QuoteRequest) (*Quote, error) {
	verr := &ValidationError{}
	validateDeliveryMethod(verr, req.DeliveryMethod)
	lines := s.priceLines(verr, req.Lines)
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return &Quote{Lines: lines, Totals: s.calculateTotals(req.DeliveryMethod, lines)}, nil
}

// PlaceOrder validates every checkout step, prices the basket, stores the
// order and publishes an order_placed event.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	verr := &ValidationError{}
	validateCustomer(verr, req.Customer)
	if req.DeliveryMethod != models.DeliveryMethodPickup {
		validateAddress(verr, req.Address)
	}
	validateDeliveryMethod(verr, req.DeliveryMethod)
	validatePaymentMethod(verr, req.PaymentMethod)
	lines := s.priceLines(verr, req.Lines)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	address := req.Address
	if address.HasPin() && address.Label == "" && s.resolver != nil {
		address.Label = s.resolver.ResolveOrPlaceholder(ctx, address.Pin)
	}

	order := &models.Order{
		ID:             cuid.New(),
		Customer:       req.Customer,
		Address:        address,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  req.PaymentMethod,
		Lines:          lines,
		Totals:         s.calculateTotals(req.DeliveryMethod, lines),
		Status:         models.OrderStatusPlaced,
		PlacedAt:       s.now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}
	s.publishOrderPlaced(order)

	log.Info().
		Str("order_id", order.ID).
		Int("lines", len(order.Lines)).
		Float64("total", order.Totals.Total).
		Msg("Order placed")
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return s.orders.List(ctx)
}

func (s *Service) priceLines(verr *ValidationError, requested []LineRequest) []models.OrderLine {
	if len(requested) == 0 {
		verr.add("lines", "basket is empty")
		return nil
	}

	// Repeated items are merged into one line.
	index := make(map[int]int)
	var lines []models.OrderLine
	for i, req := range requested {
		field := fmt.Sprintf("lines[%d]", i)
		if req.Quantity <= 0 {
			verr.add(field+".quantity", "must be positive")
			continue
		}
		if req.Quantity > MaxLineQuantity {
			verr.add(field+".quantity", fmt.Sprintf("must be at most %d", MaxLineQuantity))
			continue
		}
		item, ok := s.catalog.Get(req.VegetableID)
		if !ok {
			verr.add(field+".vegetable_id", fmt.Sprintf("unknown item %d", req.VegetableID))
			continue
		}
		if j, ok := index[item.ID]; ok {
			if lines[j].Quantity+req.Quantity > MaxLineQuantity {
				verr.add(field+".quantity", fmt.Sprintf("%s exceeds %d in total", item.Name, MaxLineQuantity))
				continue
			}
			lines[j].Quantity += req.Quantity
			lines[j].LineTotal = roundCents(lines[j].UnitPrice * float64(lines[j].Quantity))
			continue
		}
		index[item.ID] = len(lines)
		lines = append(lines, models.OrderLine{
			VegetableID: item.ID,
			Name:        item.Name,
			Quantity:    req.Quantity,
			UnitPrice:   item.Price,
			LineTotal:   roundCents(item.Price * float64(req.Quantity)),
		})
	}
	return lines
}

func (s *Service) publishOrderPlaced(order *models.Order) {
	itemCount := 0
	for _, line := range order.Lines {
		itemCount += line.Quantity
	}
	event := models.OrderPlacedEvent{
		Timestamp:      order.PlacedAt.Unix(),
		EventType:      "OrderPlaced",
		OrderID:        order.ID,
		CustomerEmail:  order.Customer.Email,
		DeliveryMethod: order.DeliveryMethod,
		PaymentMethod:  order.PaymentMethod,
		ItemCount:      int32(itemCount),
		TotalAmount:    order.Totals.Total,
		Status:         order.Status,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Error serializing order placed event")
		return
	}
	if err := s.events.WriteMessage(models.TopicOrderPlaced, data); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("Error writing order placed event")
	}
}

func validateCustomer(verr *ValidationError, c models.CustomerDetails) {
	if strings.TrimSpace(c.FirstName) == "" {
		verr.add("customer.first_name", "is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		verr.add("customer.last_name", "is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil || !strings.Contains(c.Email, "@") {
		verr.add("customer.email", "is not a valid email address")
	}
	if !validPhone(c.Phone) {
		verr.add("customer.phone", "is not a valid phone number")
	}
}

func validPhone(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// validateAddress accepts either street lines or a map pin.
func validateAddress(verr *ValidationError, a models.Address) {
	if a.Pin != (models.Location{}) && !a.Pin.Valid() {
		verr.add("delivery_address.pin", "coordinates are out of range")
		return
	}
	if a.HasPin() {
		return
	}
	if strings.TrimSpace(a.Address1) == "" {
		verr.add("delivery_address.address1", "is required without a map pin")
	}
	if strings.TrimSpace(a.City) == "" {
		verr.add("delivery_address.city", "is required without a map pin")
	}
	if strings.TrimSpace(a.Postcode) == "" {
		verr.add("delivery_address.postcode", "is required without a map pin")
	}
}

func validateDeliveryMethod(verr *ValidationError, method string) {
	switch method {
	case models.DeliveryMethodStandard, models.DeliveryMethodExpress, models.DeliveryMethodPickup:
	default:
		verr.add("delivery_method", fmt.Sprintf("unsupported delivery method %q", method))
	}
}

func validatePaymentMethod(verr *ValidationError, method string) {
	switch method {
	case models.PaymentMethodCard, models.PaymentMethodCash, models.PaymentMethodWallet:
	default:
		verr.add("payment_method", fmt.Sprintf("unsupported payment method %q", method))
	}
}
