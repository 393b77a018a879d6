//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/villarosal/service-payment/internal/adapter"
	"github.com/villarosal/service-payment/internal/application"
	"github.com/villarosal/service-payment/internal/config"
	"github.com/villarosal/service-payment/internal/events"
	"github.com/villarosal/service-payment/internal/handler"
	"github.com/villarosal/service-payment/internal/invoice"
	"github.com/villarosal/service-payment/internal/mailer"
	"github.com/villarosal/service-payment/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testCallbackToken = "whsec_integration_token"

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB      *gorm.DB
	Cleanup func()
}

// webhookStack holds the wired-up webhook pipeline plus the test doubles
// that record its outbound side effects.
type webhookStack struct {
	Router   *gin.Engine
	Mailer   *recordingMailer
	Provider *adapter.MockXenditAdapter
	Invoices string
}

// setupContainers starts a PostgreSQL testcontainer and returns a connected
// GORM DB with the schema migrated.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgresmodule.Run(ctx, "postgres:16-alpine",
		postgresmodule.WithDatabase("test_payment"),
		postgresmodule.WithUsername("test"),
		postgresmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.BookingModel{},
		&repository.RoomModel{},
		&repository.PaymentModel{},
	))

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{DB: db, Cleanup: cleanup}
}

// setupWebhookStack wires the full webhook pipeline against the test DB,
// with a stub renderer, a recording mailer and a mocked provider read-back.
func setupWebhookStack(t *testing.T, db *gorm.DB) *webhookStack {
	t.Helper()
	logger := zap.NewNop()

	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	provider := adapter.NewMockXenditAdapter(&adapter.ProviderPayment{
		InvoiceID: "inv_int_1",
		Amount:    5250.00,
		Status:    "PAID",
		Channel:   "gcash",
		Created:   time.Now().UTC(),
	}, logger)

	invoiceDir := t.TempDir()
	recorder := &recordingMailer{}

	receiptSvc := application.NewReceiptService(
		provider,
		&stubRenderer{},
		invoice.NewFileStore(invoiceDir),
		recorder,
		config.BusinessConfig{
			Name:           "Villa Rosal Resort",
			Email:          "frontdesk@villarosal.example",
			ConfirmURLBase: "https://villarosal.example/confirm_booking.php",
		},
		"https://checkout-staging.xendit.co/web/%s",
		loc,
		logger,
	)

	webhookSvc := application.NewWebhookService(
		repository.NewBookingRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewRoomRepository(db),
		repository.NewTxManager(db),
		receiptSvc,
		events.NoopPublisher{},
		logger,
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.NewWebhookHandler(webhookSvc, logger).
		RegisterRoutes(router.Group("/api/v1"), testCallbackToken)

	return &webhookStack{
		Router:   router,
		Mailer:   recorder,
		Provider: provider,
		Invoices: invoiceDir,
	}
}

// seedRoom inserts a room and returns its id.
func seedRoom(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	model := repository.RoomModel{
		RoomName:   "Seaside Villa",
		PriceCents: 250000,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed room")
	return model.ID
}

// seedPendingBooking inserts a booking awaiting payment and returns its id.
func seedPendingBooking(t *testing.T, db *gorm.DB, roomID int64, bookingCode string) int64 {
	t.Helper()
	model := repository.BookingModel{
		RoomID:            roomID,
		FullName:          "Maria Santos",
		Email:             "maria@example.com",
		ContactNumber:     "0917 555 0101",
		CheckInDate:       time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		CheckInTime:       "14:00",
		CheckOutDate:      time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
		Adults:            2,
		Children:          1,
		BookingCode:       bookingCode,
		ConfirmationToken: "tok-abc123",
		BookingStatus:     "pending",
		IsConfirmed:       false,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed booking")
	return model.BookingID
}

// seedPendingPayment inserts a pending payment linked to a booking.
func seedPendingPayment(t *testing.T, db *gorm.DB, bookingID int64, invoiceID string) {
	t.Helper()
	model := repository.PaymentModel{
		BookingID:       bookingID,
		XenditInvoiceID: invoiceID,
		AmountCents:     525000,
		Status:          "pending",
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed payment")
}

// fetchBooking reloads a booking row.
func fetchBooking(t *testing.T, db *gorm.DB, bookingID int64) repository.BookingModel {
	t.Helper()
	var model repository.BookingModel
	require.NoError(t, db.Where("booking_id = ?", bookingID).First(&model).Error)
	return model
}

// fetchPayment reloads a payment row by invoice id.
func fetchPayment(t *testing.T, db *gorm.DB, invoiceID string) repository.PaymentModel {
	t.Helper()
	var model repository.PaymentModel
	require.NoError(t, db.Where("xendit_invoice_id = ?", invoiceID).First(&model).Error)
	return model
}

// recordingMailer captures receipts instead of dialing SMTP.
type recordingMailer struct {
	Sent []mailer.Receipt
}

func (m *recordingMailer) SendReceipt(ctx context.Context, r mailer.Receipt) error {
	m.Sent = append(m.Sent, r)
	return nil
}

// stubRenderer returns fixed PDF bytes without invoking wkhtmltopdf.
type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, data invoice.Data) ([]byte, error) {
	return []byte("%PDF-1.4 stub invoice"), nil
}
