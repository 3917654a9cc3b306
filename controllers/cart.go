package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	"jewelry-commerce/cache"
	"jewelry-commerce/cart"
	"jewelry-commerce/events"
	"jewelry-commerce/pricing"
)

// cartSessionCookie keys the durable cart per browsing session
const cartSessionCookie = "cart_session"

// CartController handles cart requests
type CartController struct {
	Store      *cart.Store
	Prefetcher *cache.Prefetcher
	Sink       events.Sink
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client, prefetcher *cache.Prefetcher, sink events.Sink) *CartController {
	return &CartController{
		Store:      cart.NewStore(client),
		Prefetcher: prefetcher,
		Sink:       sink,
	}
}

// sessionID reads the cart session cookie, minting one if absent.
func (cc *CartController) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(cartSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartSessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// load restores the session's cart from durable storage.
func (cc *CartController) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	items, err := cc.Store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.Restore(items, cc.Sink), nil
}

// GetCart retrieves the session's cart with its pricing summary
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := cc.sessionID(w, r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := cc.load(ctx, sessionID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	cc.respondWithCart(w, c)
}

// AddToCart adds a product with its variant selection to the cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	sessionID := cc.sessionID(w, r)

	var input struct {
		ProductID string            `json:"product_id"`
		Variants  map[string]string `json:"variants"`
		Quantity  int               `json:"quantity"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Quantity < 1 {
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The unit price and display fields come from the catalog, never from
	// the client.
	products, err := cc.Prefetcher.Products(ctx)
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}
	var item *cart.LineItem
	for _, p := range products {
		if p.ID.Hex() == input.ProductID {
			image := ""
			if len(p.Images) > 0 {
				image = p.Images[0]
			}
			item = &cart.LineItem{
				ProductID:    input.ProductID,
				ProductName:  p.Name,
				ProductSlug:  p.Slug,
				ProductImage: image,
				UnitPrice:    decimal.NewFromFloat(p.Price),
				Variants:     input.Variants,
				Quantity:     input.Quantity,
			}
			break
		}
	}
	if item == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	// Every variant type the product offers must have a selected value.
	variants, err := cc.Prefetcher.Variants(ctx, input.ProductID)
	if err != nil {
		http.Error(w, "Error fetching variants", http.StatusInternalServerError)
		return
	}
	for _, variantType := range variantTypes(variants) {
		if input.Variants[variantType] == "" {
			http.Error(w, "Please select a "+variantType, http.StatusBadRequest)
			return
		}
	}

	c, err := cc.load(ctx, sessionID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	if err := c.AddItem(*item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := cc.Store.Save(ctx, sessionID, c.Items()); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	cc.respondWithCart(w, c)
}

// UpdateQuantity changes a line item's quantity; zero removes it
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := cc.sessionID(w, r)
	params := mux.Vars(r)

	var input struct {
		Quantity int `json:"quantity"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := cc.load(ctx, sessionID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	if err := c.UpdateQuantity(params["key"], input.Quantity); err != nil {
		http.Error(w, "Item not found in cart", http.StatusNotFound)
		return
	}
	if err := cc.Store.Save(ctx, sessionID, c.Items()); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	cc.respondWithCart(w, c)
}

// RemoveFromCart removes a line item entirely
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sessionID := cc.sessionID(w, r)
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := cc.load(ctx, sessionID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	if err := c.RemoveItem(params["key"]); err != nil {
		http.Error(w, "Item not found in cart", http.StatusNotFound)
		return
	}
	if err := cc.Store.Save(ctx, sessionID, c.Items()); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	cc.respondWithCart(w, c)
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := cc.sessionID(w, r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cc.Store.Clear(ctx, sessionID); err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}

	cc.respondWithCart(w, cart.New(cc.Sink))
}

// cartSummary is every derived figure the storefront displays.
type cartSummary struct {
	Items                []cart.LineItem `json:"items"`
	TotalQuantity        int             `json:"total_quantity"`
	DiscountApplied      bool            `json:"discount_applied"`
	OriginalSubtotal     decimal.Decimal `json:"original_subtotal"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	Shipping             decimal.Decimal `json:"shipping"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
	FreeShippingProgress float64         `json:"free_shipping_progress"`
	AmountToFreeShipping decimal.Decimal `json:"amount_to_free_shipping"`
}

func (cc *CartController) respondWithCart(w http.ResponseWriter, c *cart.Cart) {
	lines := c.Lines()
	subtotal := pricing.DiscountedSubtotal(lines)

	summary := cartSummary{
		Items:                c.Items(),
		TotalQuantity:        c.TotalQuantity(),
		DiscountApplied:      pricing.ShouldApplyDiscount(lines),
		OriginalSubtotal:     pricing.OriginalSubtotal(lines),
		DiscountAmount:       pricing.DiscountAmount(lines),
		Subtotal:             subtotal,
		Shipping:             pricing.Shipping(subtotal),
		Tax:                  pricing.Tax(subtotal),
		Total:                pricing.Total(lines),
		FreeShippingProgress: pricing.ProgressTowardThreshold(subtotal),
		AmountToFreeShipping: pricing.AmountRemainingToThreshold(subtotal),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
