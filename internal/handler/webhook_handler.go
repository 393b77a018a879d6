package handler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/villarosal/service-payment/internal/application"
	"github.com/villarosal/service-payment/internal/domain"
	"github.com/villarosal/service-payment/internal/middleware"
	"go.uber.org/zap"
)

// bookingRef extracts the internal booking id the checkout flow embeds in
// the provider's external_id field.
var bookingRef = regexp.MustCompile(`booking_(\d+)`)

// WebhookProcessor applies a validated webhook event.
type WebhookProcessor interface {
	Process(ctx context.Context, ev application.WebhookEvent) error
}

// webhookPayload is the raw provider callback body.
type webhookPayload struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	ExternalID    string  `json:"external_id"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
}

// WebhookHandler handles the provider payment callback endpoint. Responses
// are plain strings: the provider only inspects the status code to decide
// whether to re-deliver.
type WebhookHandler struct {
	service WebhookProcessor
	logger  *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service WebhookProcessor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, logger: logger}
}

// RegisterRoutes registers the webhook route behind callback-token auth.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup, callbackToken string) {
	r.POST("/payments/webhook", middleware.CallbackToken(callbackToken), h.Handle)
}

// Handle processes POST /api/v1/payments/webhook.
func (h *WebhookHandler) Handle(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if payload.ID == "" || payload.Status == "" || payload.ExternalID == "" {
		c.String(http.StatusBadRequest, "Missing invoice ID, status or external_id")
		return
	}

	m := bookingRef.FindStringSubmatch(payload.ExternalID)
	if m == nil {
		c.String(http.StatusBadRequest, "Invalid external_id format")
		return
	}
	bookingID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || bookingID <= 0 {
		c.String(http.StatusBadRequest, "Invalid external_id format")
		return
	}

	ev := application.WebhookEvent{
		InvoiceID:     payload.ID,
		RawStatus:     payload.Status,
		BookingID:     bookingID,
		PaymentMethod: payload.PaymentMethod,
	}

	if err := h.service.Process(c.Request.Context(), ev); err != nil {
		h.logger.Warn("webhook processing failed",
			zap.Int64("booking_id", bookingID),
			zap.String("invoice_id", payload.ID),
			zap.Error(err),
		)
		c.String(domain.HTTPStatus(err), domain.MessageOf(err))
		return
	}

	c.String(http.StatusOK, fmt.Sprintf("Payment status updated to '%s' for booking ID %d",
		strings.ToLower(payload.Status), bookingID))
}
