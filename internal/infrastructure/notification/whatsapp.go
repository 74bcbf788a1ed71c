package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/config"
)

const (
	twilioAPIBaseURL   = "https://api.twilio.com/2010-04-01"
	defaultSendTimeout = 10 * time.Second
)

// WhatsAppNotifier sends order messages over the Twilio WhatsApp API: an
// alert to the store admin and a confirmation to the customer. When
// messaging is disabled in the config every call is a no-op, so callers
// never need to special-case it.
type WhatsAppNotifier struct {
	config     config.WhatsAppConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWhatsAppNotifier creates a notifier from the gateway configuration
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultSendTimeout
	}
	return &WhatsAppNotifier{
		config:  cfg,
		baseURL: twilioAPIBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// NotifyOrderPlaced sends a new-order alert to the configured admin number
// and an order confirmation to the customer's number
func (n *WhatsAppNotifier) NotifyOrderPlaced(ctx context.Context, event *order.OrderPlacedEvent) error {
	if !n.config.Enabled {
		n.logger.Debug("whatsapp messaging disabled, skipping order messages",
			zap.String("order_id", event.OrderID.String()))
		return nil
	}

	if n.config.AdminNumber == "" {
		n.logger.Warn("whatsapp admin number not configured, skipping order alert",
			zap.String("order_id", event.OrderID.String()))
	} else if err := n.send(ctx, n.config.AdminNumber, formatOrderAlert(event)); err != nil {
		return err
	}

	if event.CustomerPhone == "" {
		n.logger.Debug("customer phone missing, skipping order confirmation",
			zap.String("order_id", event.OrderID.String()))
		return nil
	}
	return n.send(ctx, event.CustomerPhone, formatCustomerConfirmation(event))
}

func (n *WhatsAppNotifier) send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", n.baseURL, n.config.AccountSID)

	form := url.Values{}
	form.Set("From", whatsAppAddress(n.config.FromNumber))
	form.Set("To", whatsAppAddress(to))
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("whatsapp: failed to build request: %w", err)
	}
	req.SetBasicAuth(n.config.AccountSID, n.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: failed to send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp: gateway returned %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}

// whatsAppAddress prefixes a number with the whatsapp: scheme Twilio expects
func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// formatOrderAlert renders a concise admin-facing message for a new order
func formatOrderAlert(event *order.OrderPlacedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", event.OrderID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", event.CustomerName, event.CustomerPhone)
	fmt.Fprintf(&b, "Total: %s for %d item(s)\n", event.Total.StringFixed(2), event.TotalQuantity)
	for _, item := range event.Items {
		fmt.Fprintf(&b, "- %dx %s @ %s\n", item.Quantity, item.ProductName, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "Ship to: %s", event.ShippingAddress)
	return b.String()
}

// formatCustomerConfirmation renders the confirmation message sent to the
// customer after their order is placed
func formatCustomerConfirmation(event *order.OrderPlacedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order confirmed!\n")
	fmt.Fprintf(&b, "Dear %s, thank you for your order.\n", event.CustomerName)
	fmt.Fprintf(&b, "Order ID: %s\n", event.OrderID)
	for _, item := range event.Items {
		fmt.Fprintf(&b, "- %dx %s @ %s\n", item.Quantity, item.ProductName, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s\n", event.Total.StringFixed(2))
	fmt.Fprintf(&b, "Delivery address: %s\n", event.ShippingAddress)
	fmt.Fprintf(&b, "We will contact you shortly to confirm your order.")
	return b.String()
}
