// utils/email.go
package utils

import (
	"fmt"
	"os"
	"sort"

	"github.com/keighl/postmark"

	"jewelry-commerce/models"
)

// EmailService handles sending customer emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		panic("POSTMARK_API_TOKEN is not set in environment variables")
	}
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation to the customer
func (es *EmailService) SendOrderConfirmationEmail(order models.Order) error {
	subject := "Order Confirmation - Thank You for Your Purchase"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order <strong>%s</strong> has been placed successfully.<br><br>%s<br>Subtotal: <strong>$%.2f</strong><br>Discount: <strong>-$%.2f</strong><br>Shipping: <strong>$%.2f</strong><br>Total: <strong>$%.2f</strong><br><br>We will email you as soon as your order ships.",
		order.CustomerName,
		order.ProviderOrderID,
		itemLines(order.Items),
		order.Subtotal,
		order.Discount,
		order.Shipping,
		order.Total,
	)

	return es.SendEmail(order.CustomerEmail, subject, htmlContent)
}

// shippingTemplates maps each shipping-status transition to its subject and
// body line. One template per transition.
var shippingTemplates = map[models.ShippingStatus]struct {
	Subject string
	Body    string
}{
	models.ShippingPending:        {"Order Received", "Your order has been received and is awaiting processing."},
	models.ShippingProcessing:     {"Order Being Prepared", "Our jewelers are preparing your order for shipment."},
	models.ShippingShipped:        {"Order Shipped", "Your order has left our workshop."},
	models.ShippingInTransit:      {"Order In Transit", "Your order is on its way to you."},
	models.ShippingOutForDelivery: {"Out for Delivery", "Your order is out for delivery and should arrive today."},
	models.ShippingDelivered:      {"Order Delivered", "Your order has been delivered. We hope you love it!"},
}

// SendShippingStatusEmail sends the template matching the order's current
// shipping status to the customer.
func (es *EmailService) SendShippingStatusEmail(order models.Order, status models.ShippingStatus) error {
	tpl, ok := shippingTemplates[status]
	if !ok {
		return fmt.Errorf("no email template for shipping status %q", status)
	}

	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>%s<br><br>Order: <strong>%s</strong><br>%s<br>Total: <strong>$%.2f</strong>",
		order.CustomerName,
		tpl.Body,
		order.ProviderOrderID,
		itemLines(order.Items),
		order.Total,
	)

	return es.SendEmail(order.CustomerEmail, tpl.Subject, htmlContent)
}

func itemLines(items []models.OrderItem) string {
	lines := ""
	for _, item := range items {
		lines += fmt.Sprintf("%d × %s", item.Quantity, item.ProductName)
		types := make([]string, 0, len(item.Variants))
		for variantType := range item.Variants {
			types = append(types, variantType)
		}
		sort.Strings(types)
		for _, variantType := range types {
			lines += fmt.Sprintf(" [%s: %s]", variantType, item.Variants[variantType])
		}
		lines += "<br>"
	}
	return lines
}
