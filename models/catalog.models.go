package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents one catalog item
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	Images        []string           `bson:"images" json:"images"` // blob ids, resolved to URLs via the cache
	Stock         int                `bson:"stock" json:"stock"`
	Sold          int                `bson:"sold" json:"sold"`
	OrderIndex    int                `bson:"order_index" json:"order_index"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	IsMostPopular bool               `bson:"is_most_popular" json:"is_most_popular"`
	IsTrending    bool               `bson:"is_trending" json:"is_trending"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Variant represents one selectable option for a product, e.g. size "7"
type Variant struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID  primitive.ObjectID `bson:"product_id" json:"product_id"`
	Type       string             `bson:"type" json:"type"` // e.g. "size", "metal"
	Value      string             `bson:"value" json:"value"`
	OrderIndex int                `bson:"order_index" json:"order_index"`
}

// Review represents a customer review on a product
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Author    string             `bson:"author" json:"author"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// HeroSlide represents a banner on the storefront landing page
type HeroSlide struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title      string             `bson:"title" json:"title"`
	Subtitle   string             `bson:"subtitle" json:"subtitle"`
	Image      string             `bson:"image" json:"image"` // blob id
	Link       string             `bson:"link" json:"link"`
	OrderIndex int                `bson:"order_index" json:"order_index"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
}
