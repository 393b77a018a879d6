package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// XenditConfig holds the payment-provider settings: the shared webhook
// callback token and the read-back REST API.
type XenditConfig struct {
	CallbackToken  string
	APIKey         string
	APIBaseURL     string
	CheckoutURLFmt string
}

// SMTPConfig holds outbound mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromAddr string
	FromName string
}

// BusinessConfig holds the resort identity printed on invoices and receipts.
type BusinessConfig struct {
	Name           string
	Address        string
	Email          string
	Phone          string
	LogoURL        string
	ConfirmURLBase string
}

// KafkaConfig holds event-broker settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ServiceConfig holds all configuration for the payment webhook service.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	DBConfig        DatabaseConfig
	XenditConfig    XenditConfig
	SMTPConfig      SMTPConfig
	BusinessConfig  BusinessConfig
	KafkaConfig     KafkaConfig
	InvoiceDir      string
	DisplayTimezone string
}

// Load reads configuration from environment variables and returns a
// ServiceConfig. Missing required secrets fail fast.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8085")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SMTP_HOST", "smtp.sendgrid.net")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "apikey")
	v.SetDefault("XENDIT_CHECKOUT_URL_FMT", "https://checkout-staging.xendit.co/web/%s")
	v.SetDefault("KAFKA_TOPIC", "payment.events")
	v.SetDefault("INVOICE_DIR", "invoices")
	v.SetDefault("DISPLAY_TIMEZONE", "Asia/Manila")

	for _, key := range []string{"DB_NAME", "XENDIT_CALLBACK_TOKEN", "XENDIT_API_KEY", "XENDIT_API_BASE_URL"} {
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("missing required configuration: %s", key)
		}
	}

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		XenditConfig: XenditConfig{
			CallbackToken:  v.GetString("XENDIT_CALLBACK_TOKEN"),
			APIKey:         v.GetString("XENDIT_API_KEY"),
			APIBaseURL:     v.GetString("XENDIT_API_BASE_URL"),
			CheckoutURLFmt: v.GetString("XENDIT_CHECKOUT_URL_FMT"),
		},
		SMTPConfig: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			FromAddr: v.GetString("EMAIL_FROM"),
			FromName: v.GetString("EMAIL_FROM_NAME"),
		},
		BusinessConfig: BusinessConfig{
			Name:           v.GetString("BUSINESS_NAME"),
			Address:        v.GetString("BUSINESS_ADDRESS"),
			Email:          v.GetString("BUSINESS_EMAIL"),
			Phone:          v.GetString("BUSINESS_PHONE"),
			LogoURL:        v.GetString("BUSINESS_LOGO_URL"),
			ConfirmURLBase: v.GetString("BOOKING_CONFIRM_URL"),
		},
		KafkaConfig: KafkaConfig{
			Brokers: v.GetStringSlice("KAFKA_BROKERS"),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		InvoiceDir:      v.GetString("INVOICE_DIR"),
		DisplayTimezone: v.GetString("DISPLAY_TIMEZONE"),
	}, nil
}
