package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/villarosal/service-payment/internal/config"
	"go.uber.org/zap"
)

// ProviderPayment is the authoritative payment record as reported by the
// provider's read API. The receipt pipeline re-fetches this immediately
// before rendering instead of trusting the webhook body.
type ProviderPayment struct {
	InvoiceID string    `json:"xendit_invoice_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Channel   string    `json:"payment_channel"`
	Created   time.Time `json:"created"`
}

// AmountCents returns the settled amount in centavos.
func (p *ProviderPayment) AmountCents() int64 {
	return int64(math.Round(p.Amount * 100))
}

// XenditAdapter defines the Anti-Corruption Layer interface for the payment
// provider's read-back API.
type XenditAdapter interface {
	// LatestPaymentForBooking returns the most recent payment record the
	// provider holds for a booking, or nil if it has none.
	LatestPaymentForBooking(ctx context.Context, bookingID int64) (*ProviderPayment, error)
}

// HTTPXenditAdapter calls the provider REST API over HTTP.
type HTTPXenditAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPXenditAdapter creates an adapter against the configured provider API.
func NewHTTPXenditAdapter(cfg config.XenditConfig, logger *zap.Logger) *HTTPXenditAdapter {
	return &HTTPXenditAdapter{
		baseURL: cfg.APIBaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// LatestPaymentForBooking fetches payments filtered by booking id, newest
// first, and returns the first record.
func (a *HTTPXenditAdapter) LatestPaymentForBooking(ctx context.Context, bookingID int64) (*ProviderPayment, error) {
	url := fmt.Sprintf("%s/rest/v1/payments?booking_id=eq.%d&select=*&order=created.desc&limit=1", a.baseURL, bookingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", a.apiKey)
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment read-back request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment read-back returned status %d", resp.StatusCode)
	}

	var payments []ProviderPayment
	if err := json.NewDecoder(resp.Body).Decode(&payments); err != nil {
		return nil, fmt.Errorf("failed to decode payment read-back response: %w", err)
	}
	if len(payments) == 0 {
		return nil, nil
	}

	a.logger.Debug("fetched latest provider payment",
		zap.Int64("booking_id", bookingID),
		zap.String("invoice_id", payments[0].InvoiceID),
	)
	return &payments[0], nil
}

// MockXenditAdapter is a development/testing implementation that fabricates
// a settled payment without calling the provider.
type MockXenditAdapter struct {
	Payment *ProviderPayment
	logger  *zap.Logger
}

// NewMockXenditAdapter creates a new mock adapter.
func NewMockXenditAdapter(p *ProviderPayment, logger *zap.Logger) *MockXenditAdapter {
	return &MockXenditAdapter{Payment: p, logger: logger}
}

// LatestPaymentForBooking returns the configured payment record.
func (m *MockXenditAdapter) LatestPaymentForBooking(ctx context.Context, bookingID int64) (*ProviderPayment, error) {
	m.logger.Info("[MOCK XENDIT] payment read-back",
		zap.Int64("booking_id", bookingID),
	)
	return m.Payment, nil
}
