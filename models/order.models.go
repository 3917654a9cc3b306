package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the order lifecycle status
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ShippingStatus tracks the shipment independently of the lifecycle status
type ShippingStatus string

const (
	ShippingPending        ShippingStatus = "pending"
	ShippingProcessing     ShippingStatus = "processing"
	ShippingShipped        ShippingStatus = "shipped"
	ShippingInTransit      ShippingStatus = "in_transit"
	ShippingOutForDelivery ShippingStatus = "out_for_delivery"
	ShippingDelivered      ShippingStatus = "delivered"
)

// ValidShippingStatus reports whether s is one of the known transitions.
func ValidShippingStatus(s ShippingStatus) bool {
	switch s {
	case ShippingPending, ShippingProcessing, ShippingShipped,
		ShippingInTransit, ShippingOutForDelivery, ShippingDelivered:
		return true
	}
	return false
}

// Address represents a shipping address as returned by the payment provider
type Address struct {
	Name        string `bson:"name" json:"name"`
	Line1       string `bson:"line1" json:"line1"`
	Line2       string `bson:"line2,omitempty" json:"line2,omitempty"`
	City        string `bson:"city" json:"city"`
	Region      string `bson:"region" json:"region"`
	PostalCode  string `bson:"postal_code" json:"postal_code"`
	CountryCode string `bson:"country_code" json:"country_code"`
}

// OrderItem is a purchased line item with its variant selection embedded
type OrderItem struct {
	ProductID    string            `bson:"product_id" json:"product_id"`
	ProductName  string            `bson:"product_name" json:"product_name"`
	ProductSlug  string            `bson:"product_slug" json:"product_slug"`
	ProductImage string            `bson:"product_image" json:"product_image"`
	UnitPrice    float64           `bson:"unit_price" json:"unit_price"`
	Variants     map[string]string `bson:"variants" json:"variants"`
	Quantity     int               `bson:"quantity" json:"quantity"`
}

// Order represents a placed order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProviderOrderID string             `bson:"provider_order_id" json:"provider_order_id"`
	CustomerName    string             `bson:"customer_name" json:"customer_name"`
	CustomerEmail   string             `bson:"customer_email" json:"customer_email"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Discount        float64            `bson:"discount" json:"discount"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Tax             float64            `bson:"tax" json:"tax"`
	Total           float64            `bson:"total" json:"total"`
	Status          Status             `bson:"status" json:"status"`
	ShippingStatus  ShippingStatus     `bson:"shipping_status" json:"shipping_status"`
	Address         Address            `bson:"address" json:"address"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
