//go:build integration

package main_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(stack *webhookStack, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Callback-Token", token)
	}
	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, req)
	return w
}

func paidBody(invoiceID string, bookingID int64) string {
	return fmt.Sprintf(`{"id":%q,"status":"PAID","external_id":"booking_%d","payment_method":"gcash","amount":5250.00}`,
		invoiceID, bookingID)
}

// TestWebhook_PaidFlow verifies that a paid event confirms the booking,
// settles the payment row, stores the invoice PDF and sends one receipt.
func TestWebhook_PaidFlow(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()
	stack := setupWebhookStack(t, infra.DB)

	roomID := seedRoom(t, infra.DB)
	bookingID := seedPendingBooking(t, infra.DB, roomID, "VR-INT-0001")
	seedPendingPayment(t, infra.DB, bookingID, "inv_int_1")

	w := postWebhook(stack, testCallbackToken, paidBody("inv_int_1", bookingID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		fmt.Sprintf("Payment status updated to 'paid' for booking ID %d", bookingID),
		w.Body.String())

	bk := fetchBooking(t, infra.DB, bookingID)
	assert.Equal(t, "confirmed", bk.BookingStatus)
	assert.True(t, bk.IsConfirmed)

	pay := fetchPayment(t, infra.DB, "inv_int_1")
	assert.Equal(t, "paid", pay.Status)
	assert.Equal(t, "gcash", pay.PaymentMethod)
	assert.NotNil(t, pay.PaidAt, "paid_at should be set")

	pdfPath := filepath.Join(stack.Invoices, "booking_invoice_VR-INT-0001.pdf")
	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err, "invoice pdf should exist")
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	require.Len(t, stack.Mailer.Sent, 1)
	receipt := stack.Mailer.Sent[0]
	assert.Equal(t, "maria@example.com", receipt.To)
	assert.Equal(t, "VR-INT-0001", receipt.BookingCode)
	assert.Equal(t, "5,250.00", receipt.AmountPaid)
	assert.Equal(t, "booking_invoice_VR-INT-0001.pdf", receipt.PDFName)
}

// TestWebhook_DuplicatePaidDelivery verifies that re-delivering the same
// paid event succeeds but produces no second receipt.
func TestWebhook_DuplicatePaidDelivery(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()
	stack := setupWebhookStack(t, infra.DB)

	roomID := seedRoom(t, infra.DB)
	bookingID := seedPendingBooking(t, infra.DB, roomID, "VR-INT-0002")
	seedPendingPayment(t, infra.DB, bookingID, "inv_int_1")

	first := postWebhook(stack, testCallbackToken, paidBody("inv_int_1", bookingID))
	require.Equal(t, http.StatusOK, first.Code)

	second := postWebhook(stack, testCallbackToken, paidBody("inv_int_1", bookingID))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	bk := fetchBooking(t, infra.DB, bookingID)
	assert.True(t, bk.IsConfirmed)

	require.Len(t, stack.Mailer.Sent, 1, "receipt must be sent exactly once")
}

// TestWebhook_ExpiredFlow verifies that an expired event expires the booking
// without confirming it or sending mail.
func TestWebhook_ExpiredFlow(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()
	stack := setupWebhookStack(t, infra.DB)

	roomID := seedRoom(t, infra.DB)
	bookingID := seedPendingBooking(t, infra.DB, roomID, "VR-INT-0003")
	seedPendingPayment(t, infra.DB, bookingID, "inv_int_1")

	body := fmt.Sprintf(`{"id":"inv_int_1","status":"EXPIRED","external_id":"booking_%d"}`, bookingID)
	w := postWebhook(stack, testCallbackToken, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		fmt.Sprintf("Payment status updated to 'expired' for booking ID %d", bookingID),
		w.Body.String())

	bk := fetchBooking(t, infra.DB, bookingID)
	assert.Equal(t, "expired", bk.BookingStatus)
	assert.False(t, bk.IsConfirmed)

	pay := fetchPayment(t, infra.DB, "inv_int_1")
	assert.Equal(t, "expired", pay.Status)
	assert.Nil(t, pay.PaidAt)

	assert.Empty(t, stack.Mailer.Sent)
}

// TestWebhook_InvalidToken_NoWrites verifies that a rejected request leaves
// every row untouched.
func TestWebhook_InvalidToken_NoWrites(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()
	stack := setupWebhookStack(t, infra.DB)

	roomID := seedRoom(t, infra.DB)
	bookingID := seedPendingBooking(t, infra.DB, roomID, "VR-INT-0004")
	seedPendingPayment(t, infra.DB, bookingID, "inv_int_1")

	w := postWebhook(stack, "whsec_wrong", paidBody("inv_int_1", bookingID))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid callback token", w.Body.String())

	bk := fetchBooking(t, infra.DB, bookingID)
	assert.Equal(t, "pending", bk.BookingStatus)
	assert.False(t, bk.IsConfirmed)

	pay := fetchPayment(t, infra.DB, "inv_int_1")
	assert.Equal(t, "pending", pay.Status)
	assert.Empty(t, stack.Mailer.Sent)
}

// TestWebhook_UnknownInvoice verifies that an event for an invoice this
// system never issued is rejected without touching the booking.
func TestWebhook_UnknownInvoice(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()
	stack := setupWebhookStack(t, infra.DB)

	roomID := seedRoom(t, infra.DB)
	bookingID := seedPendingBooking(t, infra.DB, roomID, "VR-INT-0005")
	seedPendingPayment(t, infra.DB, bookingID, "inv_int_1")

	w := postWebhook(stack, testCallbackToken, paidBody("inv_rogue", bookingID))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Payment not found", w.Body.String())

	bk := fetchBooking(t, infra.DB, bookingID)
	assert.Equal(t, "pending", bk.BookingStatus)
	assert.Empty(t, stack.Mailer.Sent)
}

// TestWebhook_UnknownBooking verifies the 404 path for a booking id that
// does not exist.
func TestWebhook_UnknownBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()
	stack := setupWebhookStack(t, infra.DB)

	w := postWebhook(stack, testCallbackToken, paidBody("inv_int_1", 999999))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Booking not found", w.Body.String())
}
