package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModeCreateIntent(t *testing.T) {
	t.Setenv("MOCK_MODE", "true")
	ps := NewPaymentService()

	intentID, err := ps.CreateIntent(context.Background(), decimal.NewFromInt(87), "USD", []PaymentItem{
		{Name: "Gold Ring", UnitPrice: decimal.NewFromInt(50), Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(intentID, "MOCK-"))
}

func TestMockModeCaptureReturnsPayerAndAddress(t *testing.T) {
	t.Setenv("MOCK_MODE", "true")
	ps := NewPaymentService()

	result, err := ps.Capture(context.Background(), "MOCK-abc")
	require.NoError(t, err)
	assert.Equal(t, "MOCK-abc", result.ProviderOrderID)
	assert.NotEmpty(t, result.PayerName)
	assert.NotEmpty(t, result.PayerEmail)
	assert.NotEmpty(t, result.Shipping.Line1)
	assert.NotEmpty(t, result.Shipping.CountryCode)
}

func TestMockModeCaptureEchoesIntentAmount(t *testing.T) {
	t.Setenv("MOCK_MODE", "true")
	ps := NewPaymentService()

	total := decimal.RequireFromString("87.00")
	intentID, err := ps.CreateIntent(context.Background(), total, "USD", nil)
	require.NoError(t, err)

	result, err := ps.Capture(context.Background(), intentID)
	require.NoError(t, err)
	assert.True(t, result.Amount.Equal(total), "captured %s, intent was for %s", result.Amount, total)
}

func TestMockModeBlobResolve(t *testing.T) {
	t.Setenv("MOCK_MODE", "true")
	t.Setenv("BLOB_STORE_URL", "https://blobs.test")
	bs := NewBlobService()

	urls, err := bs.ResolveURLs(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, urls, 2)
	assert.Equal(t, "https://blobs.test/blob/a", urls["a"])

	urls, err = bs.ResolveURLs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, urls)
}
