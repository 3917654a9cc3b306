// utils/adminmail.go
package utils

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"jewelry-commerce/models"
)

// AdminMailService sends back-office alerts via SendGrid
type AdminMailService struct {
	client     *sendgrid.Client
	adminEmail string
}

// NewAdminMailService initializes and returns a new AdminMailService
func NewAdminMailService() *AdminMailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		panic("SENDGRID_API_KEY is not set in environment variables")
	}
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		panic("ADMIN_EMAIL is not set in environment variables")
	}
	return &AdminMailService{
		client:     sendgrid.NewSendClient(apiKey),
		adminEmail: adminEmail,
	}
}

// SendNewOrderAlert notifies the admin address about a freshly captured
// order.
func (as *AdminMailService) SendNewOrderAlert(order models.Order) error {
	from := mail.NewEmail("Storefront", os.Getenv("EMAIL_SENDER"))
	to := mail.NewEmail("Admin", as.adminEmail)
	subject := fmt.Sprintf("New order %s - $%.2f", order.ProviderOrderID, order.Total)

	plain := fmt.Sprintf(
		"New order from %s <%s>\nItems: %d\nSubtotal: $%.2f\nDiscount: $%.2f\nShipping: $%.2f\nTotal: $%.2f",
		order.CustomerName, order.CustomerEmail, len(order.Items),
		order.Subtotal, order.Discount, order.Shipping, order.Total,
	)
	html := fmt.Sprintf(
		"<strong>New order from %s</strong> (%s)<br>%s<br>Total: <strong>$%.2f</strong>",
		order.CustomerName, order.CustomerEmail, itemLines(order.Items), order.Total,
	)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := as.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send admin alert: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("admin alert rejected: status %d", resp.StatusCode)
	}
	return nil
}
