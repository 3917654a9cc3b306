package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"jewelry-commerce/cart"
	"jewelry-commerce/events"
	"jewelry-commerce/models"
	"jewelry-commerce/pricing"
	"jewelry-commerce/utils"
)

// CheckoutController handles the payment flow
type CheckoutController struct {
	OrderCollection *mongo.Collection
	CartStore       *cart.Store
	Source          *CatalogSource
	PaymentService  *utils.PaymentService
	EmailService    *utils.EmailService
	AdminMail       *utils.AdminMailService
	Sink            events.Sink
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(client *mongo.Client, source *CatalogSource, paymentService *utils.PaymentService, emailService *utils.EmailService, adminMail *utils.AdminMailService, sink events.Sink) *CheckoutController {
	orderCollection := client.Database("jewelry").Collection("orders")
	return &CheckoutController{
		OrderCollection: orderCollection,
		CartStore:       cart.NewStore(client),
		Source:          source,
		PaymentService:  paymentService,
		EmailService:    emailService,
		AdminMail:       adminMail,
		Sink:            sink,
	}
}

// CreateIntent registers the purchase with the payment provider. The total
// is computed server-side from the persisted cart; the client never supplies
// an amount.
func (cc *CheckoutController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cartSessionCookie)
	if err != nil || cookie.Value == "" {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := cc.CartStore.Load(ctx, cookie.Value)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	c := cart.Restore(items, events.NopSink{})
	if len(c.Items()) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	paymentItems := make([]utils.PaymentItem, 0, len(c.Items()))
	for _, li := range c.Items() {
		paymentItems = append(paymentItems, utils.PaymentItem{
			Name:      li.ProductName,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
		})
	}

	intentID, err := cc.PaymentService.CreateIntent(ctx, pricing.Total(c.Lines()), "USD", paymentItems)
	if err != nil {
		log.Printf("create payment intent failed: %v", err)
		http.Error(w, "Payment provider unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"intent_id": intentID})
}

// Capture finalizes the payment and fans out the post-capture side effects.
// Capture must succeed before anything is persisted; after it succeeds,
// order creation, both emails and the inventory update run concurrently and
// independently. None of them is retried or rolled back, and none of them
// blocks the response.
func (cc *CheckoutController) Capture(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cartSessionCookie)
	if err != nil || cookie.Value == "" {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}
	sessionID := cookie.Value

	var input struct {
		IntentID string `json:"intent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.IntentID == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := cc.CartStore.Load(ctx, sessionID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	c := cart.Restore(items, events.NopSink{})
	if len(c.Items()) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	// Point of no return. A declined or failed capture leaves the cart
	// untouched so the user can retry.
	capture, err := cc.PaymentService.Capture(ctx, input.IntentID)
	if err != nil {
		log.Printf("payment capture failed: %v", err)
		http.Error(w, "Payment was not completed", http.StatusPaymentRequired)
		return
	}

	// The provider charged whatever the intent was created for. If the cart
	// changed since then the captured amount no longer covers it, and the
	// order must not be recorded against the current cart.
	if !amountMatchesTotal(capture, c.Lines()) {
		log.Printf("captured amount %s does not match cart total %s for intent %s",
			capture.Amount.StringFixed(2), pricing.Total(c.Lines()).StringFixed(2), input.IntentID)
		http.Error(w, "Captured amount does not match the cart total", http.StatusConflict)
		return
	}

	order := cc.buildOrder(c, capture)

	// Independent side effects. A failure in any one is logged and does
	// not stop the others or reverse the captured payment.
	go cc.persistOrder(order)
	go cc.sendCustomerConfirmation(order)
	go cc.sendAdminAlert(order)
	go cc.updateInventory(order)

	cc.Sink.Emit(events.Event{Name: "checkout.completed", Fields: map[string]interface{}{
		"provider_order_id": order.ProviderOrderID,
		"total":             order.Total,
	}})

	// Clear the cart once the batch is issued; the user is not kept
	// waiting on email delivery.
	if err := cc.CartStore.Clear(ctx, sessionID); err != nil {
		log.Printf("failed to clear cart for session %s: %v", sessionID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"provider_order_id": order.ProviderOrderID,
		"total":             order.Total,
		"message":           "Payment captured. Your order is confirmed.",
	})
}

// amountMatchesTotal reports whether the captured amount equals the cart's
// current total.
func amountMatchesTotal(capture utils.CaptureResult, lines []pricing.Line) bool {
	return capture.Amount.Equal(pricing.Total(lines))
}

// buildOrder snapshots the cart and capture result into an order document.
// Tax is recorded as zero on orders; the tax line shown in the cart summary
// is display-only.
func (cc *CheckoutController) buildOrder(c *cart.Cart, capture utils.CaptureResult) models.Order {
	lines := c.Lines()
	subtotal := pricing.DiscountedSubtotal(lines)

	orderItems := make([]models.OrderItem, 0, len(c.Items()))
	for _, li := range c.Items() {
		price, _ := li.UnitPrice.Float64()
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    li.ProductID,
			ProductName:  li.ProductName,
			ProductSlug:  li.ProductSlug,
			ProductImage: li.ProductImage,
			UnitPrice:    price,
			Variants:     li.Variants,
			Quantity:     li.Quantity,
		})
	}

	originalSubtotal, _ := pricing.OriginalSubtotal(lines).Float64()
	discount, _ := pricing.DiscountAmount(lines).Float64()
	shipping, _ := pricing.Shipping(subtotal).Float64()
	total, _ := pricing.Total(lines).Float64()

	return models.Order{
		ProviderOrderID: capture.ProviderOrderID,
		CustomerName:    capture.PayerName,
		CustomerEmail:   capture.PayerEmail,
		Items:           orderItems,
		Subtotal:        originalSubtotal,
		Discount:        discount,
		Shipping:        shipping,
		Tax:             0,
		Total:           total,
		Status:          models.StatusPending,
		ShippingStatus:  models.ShippingPending,
		Address:         capture.Shipping,
		CreatedAt:       time.Now(),
	}
}

func (cc *CheckoutController) persistOrder(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := cc.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Printf("failed to persist order %s: %v", order.ProviderOrderID, err)
	}
}

func (cc *CheckoutController) sendCustomerConfirmation(order models.Order) {
	if err := cc.EmailService.SendOrderConfirmationEmail(order); err != nil {
		log.Printf("failed to send confirmation for order %s: %v", order.ProviderOrderID, err)
	}
}

func (cc *CheckoutController) sendAdminAlert(order models.Order) {
	if err := cc.AdminMail.SendNewOrderAlert(order); err != nil {
		log.Printf("failed to send admin alert for order %s: %v", order.ProviderOrderID, err)
	}
}

func (cc *CheckoutController) updateInventory(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, item := range order.Items {
		if err := cc.Source.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("failed to update stock for product %s: %v", item.ProductID, err)
		}
	}
}
