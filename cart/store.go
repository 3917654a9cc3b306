// cart/store.go
package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists carts per browsing session so the cart survives across
// visits. One document per session id.
type Store struct {
	Collection *mongo.Collection
}

// NewStore creates a cart store backed by the carts collection.
func NewStore(client *mongo.Client) *Store {
	collection := client.Database("jewelry").Collection("carts")
	return &Store{Collection: collection}
}

type lineItemDoc struct {
	ProductID    string            `bson:"product_id"`
	ProductName  string            `bson:"product_name"`
	ProductSlug  string            `bson:"product_slug"`
	ProductImage string            `bson:"product_image"`
	UnitPrice    string            `bson:"unit_price"` // decimal as string, no float drift
	Variants     map[string]string `bson:"variants"`
	Quantity     int               `bson:"quantity"`
}

type cartDoc struct {
	SessionID string        `bson:"session_id"`
	Items     []lineItemDoc `bson:"items"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// Load returns the persisted line items for a session. A missing cart is
// not an error; it loads as empty.
func (s *Store) Load(ctx context.Context, sessionID string) ([]LineItem, error) {
	var doc cartDoc
	err := s.Collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(doc.Items))
	for _, d := range doc.Items {
		price, err := decimal.NewFromString(d.UnitPrice)
		if err != nil {
			price = decimal.Zero
		}
		items = append(items, LineItem{
			ProductID:    d.ProductID,
			ProductName:  d.ProductName,
			ProductSlug:  d.ProductSlug,
			ProductImage: d.ProductImage,
			UnitPrice:    price,
			Variants:     d.Variants,
			Quantity:     d.Quantity,
		})
	}
	return items, nil
}

// Save upserts the full item list for a session.
func (s *Store) Save(ctx context.Context, sessionID string, items []LineItem) error {
	docs := make([]lineItemDoc, 0, len(items))
	for _, li := range items {
		docs = append(docs, lineItemDoc{
			ProductID:    li.ProductID,
			ProductName:  li.ProductName,
			ProductSlug:  li.ProductSlug,
			ProductImage: li.ProductImage,
			UnitPrice:    li.UnitPrice.String(),
			Variants:     li.Variants,
			Quantity:     li.Quantity,
		})
	}

	update := bson.M{"$set": cartDoc{
		SessionID: sessionID,
		Items:     docs,
		UpdatedAt: time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.Collection.UpdateOne(ctx, bson.M{"session_id": sessionID}, update, opts)
	return err
}

// Clear deletes the session's cart document.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	_, err := s.Collection.DeleteOne(ctx, bson.M{"session_id": sessionID})
	return err
}
