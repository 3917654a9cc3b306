// utils/payment.go
package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"jewelry-commerce/models"
)

// PaymentItem is one line sent to the payment provider when creating an
// intent.
type PaymentItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_amount"`
	Quantity  int             `json:"quantity"`
}

// CaptureResult is what a successful capture returns: the provider's order
// id, the captured amount, the payer identity and the shipping address they
// entered with the provider.
type CaptureResult struct {
	ProviderOrderID string
	Amount          decimal.Decimal
	PayerName       string
	PayerEmail      string
	Shipping        models.Address
}

// PaymentService talks to the external payment provider. With MOCK_MODE set
// it approves everything locally, which keeps development and tests off the
// network.
type PaymentService struct {
	clientID   string
	secret     string
	baseURL    string
	mockMode   bool
	httpClient *http.Client

	mu          sync.Mutex
	mockAmounts map[string]decimal.Decimal
}

// NewPaymentService reads provider credentials from the environment.
func NewPaymentService() *PaymentService {
	return &PaymentService{
		clientID: os.Getenv("PAYMENT_CLIENT_ID"),
		secret:   os.Getenv("PAYMENT_CLIENT_SECRET"),
		baseURL:  os.Getenv("PAYMENT_API_URL"),
		mockMode: os.Getenv("MOCK_MODE") == "true",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		mockAmounts: make(map[string]decimal.Decimal),
	}
}

// CreateIntent registers the purchase with the provider and returns the
// provider's order id for the client to approve.
func (ps *PaymentService) CreateIntent(ctx context.Context, total decimal.Decimal, currency string, items []PaymentItem) (string, error) {
	if ps.mockMode {
		id := "MOCK-" + uuid.NewString()
		ps.mu.Lock()
		ps.mockAmounts[id] = total
		ps.mu.Unlock()
		return id, nil
	}

	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"amount": map[string]string{
				"currency_code": currency,
				"value":         total.StringFixed(2),
			},
			"items": items,
		}},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := ps.post(ctx, "/v2/checkout/orders", body, &resp); err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return resp.ID, nil
}

// Capture finalizes an approved payment. Once this succeeds there is no
// abandoning the checkout; downstream bookkeeping is best-effort.
func (ps *PaymentService) Capture(ctx context.Context, providerOrderID string) (CaptureResult, error) {
	if ps.mockMode {
		// The mock captures exactly what the intent was created with, like
		// a real provider would.
		ps.mu.Lock()
		amount := ps.mockAmounts[providerOrderID]
		ps.mu.Unlock()
		return CaptureResult{
			ProviderOrderID: providerOrderID,
			Amount:          amount,
			PayerName:       "Mock Payer",
			PayerEmail:      "payer@example.com",
			Shipping: models.Address{
				Name:        "Mock Payer",
				Line1:       "1 Mock Street",
				City:        "Mocktown",
				Region:      "MK",
				PostalCode:  "00000",
				CountryCode: "US",
			},
		}, nil
	}

	var resp struct {
		ID    string `json:"id"`
		Payer struct {
			Name struct {
				GivenName string `json:"given_name"`
				Surname   string `json:"surname"`
			} `json:"name"`
			Email string `json:"email_address"`
		} `json:"payer"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					Amount struct {
						Value string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
			Shipping struct {
				Name struct {
					FullName string `json:"full_name"`
				} `json:"name"`
				Address struct {
					AddressLine1 string `json:"address_line_1"`
					AddressLine2 string `json:"address_line_2"`
					AdminArea2   string `json:"admin_area_2"`
					AdminArea1   string `json:"admin_area_1"`
					PostalCode   string `json:"postal_code"`
					CountryCode  string `json:"country_code"`
				} `json:"address"`
			} `json:"shipping"`
		} `json:"purchase_units"`
	}

	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", providerOrderID)
	if err := ps.post(ctx, path, map[string]interface{}{}, &resp); err != nil {
		return CaptureResult{}, fmt.Errorf("capture payment: %w", err)
	}

	result := CaptureResult{
		ProviderOrderID: resp.ID,
		PayerName:       resp.Payer.Name.GivenName + " " + resp.Payer.Name.Surname,
		PayerEmail:      resp.Payer.Email,
	}
	if len(resp.PurchaseUnits) > 0 {
		unit := resp.PurchaseUnits[0]
		if len(unit.Payments.Captures) > 0 {
			amount, err := decimal.NewFromString(unit.Payments.Captures[0].Amount.Value)
			if err == nil {
				result.Amount = amount
			}
		}
		result.Shipping = models.Address{
			Name:        unit.Shipping.Name.FullName,
			Line1:       unit.Shipping.Address.AddressLine1,
			Line2:       unit.Shipping.Address.AddressLine2,
			City:        unit.Shipping.Address.AdminArea2,
			Region:      unit.Shipping.Address.AdminArea1,
			PostalCode:  unit.Shipping.Address.PostalCode,
			CountryCode: unit.Shipping.Address.CountryCode,
		}
	}
	return result, nil
}

func (ps *PaymentService) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ps.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(ps.clientID, ps.secret)

	resp, err := ps.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
