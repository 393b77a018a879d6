package payment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/villarosal/service-payment/internal/domain/payment"
)

func testPayment() *payment.Payment {
	return payment.Reconstitute(
		1, 42, "inv_1", 525000,
		payment.StatusPending, "", nil,
		time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, payment.StatusPaid, payment.Normalize("PAID"))
	assert.Equal(t, payment.StatusExpired, payment.Normalize("Expired"))
	assert.Equal(t, payment.Status("settled"), payment.Normalize("SETTLED"))
}

func TestApplyStatus_PaidStampsPaidAt(t *testing.T) {
	p := testPayment()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	p.ApplyStatus(payment.StatusPaid, now)

	assert.Equal(t, payment.StatusPaid, p.Status())
	if assert.NotNil(t, p.PaidAt()) {
		assert.Equal(t, now, *p.PaidAt())
	}
}

func TestApplyStatus_NonPaidLeavesPaidAt(t *testing.T) {
	p := testPayment()

	p.ApplyStatus(payment.StatusExpired, time.Now())

	assert.Equal(t, payment.StatusExpired, p.Status())
	assert.Nil(t, p.PaidAt())
}

func TestApplyStatus_AlwaysOverwrites(t *testing.T) {
	p := testPayment()
	p.ApplyStatus(payment.StatusPaid, time.Now())
	p.ApplyStatus(payment.StatusFailed, time.Now())

	assert.Equal(t, payment.StatusFailed, p.Status())
}

func TestRecordMethod(t *testing.T) {
	p := testPayment()

	p.RecordMethod("gcash")
	assert.Equal(t, "gcash", p.PaymentMethod())

	p.RecordMethod("")
	assert.Equal(t, "gcash", p.PaymentMethod(), "empty method must not erase the recorded one")
}
