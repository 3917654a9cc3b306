// pricing/pricing.go
package pricing

import (
	"github.com/shopspring/decimal"
)

// Pricing constants. These are business configuration, not derived values.
var (
	// DiscountRate is the bulk discount applied when the cart holds more
	// than one unit in total.
	DiscountRate = decimal.NewFromFloat(0.10)

	// FlatShippingFee is charged whenever the discounted subtotal is below
	// FreeShippingThreshold.
	FlatShippingFee = decimal.NewFromInt(15)

	// FreeShippingThreshold is the discounted subtotal at which shipping
	// becomes free. Exactly at the threshold shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(100)

	// TaxRate is a display-only rate. Total does not include tax; callers
	// that show a tax line add Tax(subtotal) themselves.
	TaxRate = decimal.NewFromFloat(0.075)
)

// Line is the minimal view of a cart line item the pricing functions need.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// ShouldApplyDiscount reports whether the bulk discount applies: true iff
// the total quantity across all lines is strictly greater than 1. A single
// line with quantity 2 qualifies the same as two lines of quantity 1.
func ShouldApplyDiscount(lines []Line) bool {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total > 1
}

// OriginalSubtotal sums unit price times quantity over all lines, with no
// discount applied. An empty cart yields zero.
func OriginalSubtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return subtotal
}

// DiscountAmount is zero when the discount does not apply, otherwise the
// original subtotal times DiscountRate rounded to cents.
func DiscountAmount(lines []Line) decimal.Decimal {
	if !ShouldApplyDiscount(lines) {
		return decimal.Zero
	}
	return OriginalSubtotal(lines).Mul(DiscountRate).Round(2)
}

// DiscountedSubtotal is the original subtotal minus the discount amount.
// Computed by subtraction so that DiscountedSubtotal + DiscountAmount
// equals OriginalSubtotal exactly.
func DiscountedSubtotal(lines []Line) decimal.Decimal {
	return OriginalSubtotal(lines).Sub(DiscountAmount(lines))
}

// Shipping returns the flat fee when subtotal is below the free-shipping
// threshold, zero otherwise.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// Tax is a constant-rate function of the subtotal, rounded to cents. It is
// never folded into Total.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// Total is the discounted subtotal plus shipping on that subtotal.
func Total(lines []Line) decimal.Decimal {
	subtotal := DiscountedSubtotal(lines)
	return subtotal.Add(Shipping(subtotal))
}

// ProgressTowardThreshold is the linear ratio of subtotal to the
// free-shipping threshold as a percentage, clamped to [0, 100].
func ProgressTowardThreshold(subtotal decimal.Decimal) float64 {
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct := subtotal.Div(FreeShippingThreshold).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	f, _ := pct.Float64()
	return f
}

// AmountRemainingToThreshold is max(0, threshold - subtotal).
func AmountRemainingToThreshold(subtotal decimal.Decimal) decimal.Decimal {
	remaining := FreeShippingThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
