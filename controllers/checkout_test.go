package controllers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"jewelry-commerce/cart"
	"jewelry-commerce/pricing"
	"jewelry-commerce/utils"
)

func restoredCart(t *testing.T, items ...cart.LineItem) *cart.Cart {
	t.Helper()
	return cart.Restore(items, nil)
}

func TestCaptureAmountMustMatchCartTotal(t *testing.T) {
	c := restoredCart(t, cart.LineItem{
		ProductID: "p1",
		UnitPrice: decimal.NewFromInt(1000),
		Quantity:  1,
	})

	// An underpaying capture, e.g. from a cart that grew after the intent
	// was created, is rejected.
	short := utils.CaptureResult{Amount: decimal.NewFromInt(1)}
	assert.False(t, amountMatchesTotal(short, c.Lines()))

	exact := utils.CaptureResult{Amount: pricing.Total(c.Lines())}
	assert.True(t, amountMatchesTotal(exact, c.Lines()))
}

func TestCaptureAmountChecksDiscountedTotal(t *testing.T) {
	c := restoredCart(t,
		cart.LineItem{ProductID: "p1", UnitPrice: decimal.NewFromInt(50), Quantity: 1},
		cart.LineItem{ProductID: "p2", UnitPrice: decimal.NewFromInt(30), Quantity: 1},
	)

	// 80 - 10% discount = 72, plus 15 shipping = 87.
	assert.True(t, amountMatchesTotal(utils.CaptureResult{Amount: decimal.NewFromInt(87)}, c.Lines()))

	// The undiscounted figure does not pass.
	assert.False(t, amountMatchesTotal(utils.CaptureResult{Amount: decimal.NewFromInt(95)}, c.Lines()))
}

func TestBuildOrderTotalEqualsCapturedAmount(t *testing.T) {
	cc := &CheckoutController{}
	c := restoredCart(t,
		cart.LineItem{ProductID: "p1", ProductName: "Gold Ring", UnitPrice: decimal.NewFromInt(50), Quantity: 2},
	)

	capture := utils.CaptureResult{
		ProviderOrderID: "PROV-1",
		Amount:          pricing.Total(c.Lines()),
		PayerName:       "Ada Buyer",
		PayerEmail:      "ada@example.com",
	}
	assert.True(t, amountMatchesTotal(capture, c.Lines()))

	order := cc.buildOrder(c, capture)
	captured, _ := capture.Amount.Float64()
	assert.Equal(t, captured, order.Total)
	assert.Equal(t, "PROV-1", order.ProviderOrderID)
}
