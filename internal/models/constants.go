package models

const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
	OrderStatusInTransit = "in_transit"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	DeliveryMethodStandard = "standard"
	DeliveryMethodExpress  = "express"
	DeliveryMethodPickup   = "pickup"

	PaymentMethodCard   = "card"
	PaymentMethodCash   = "cash"
	PaymentMethodWallet = "wallet"

	TopicVehicleLocation        = "vehicle_location_events"
	TopicDeliveryStatus         = "delivery_status_events"
	TopicOrderPlaced            = "order_placed_events"
	TopicFavoritesNotifications = "favorites_notifications"

	// FavoritesKey is the storage key holding the serialized favorites list.
	FavoritesKey = "favorites"
)
