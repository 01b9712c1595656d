package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// PaymentConfig holds the process-wide payment defaults. It is built once
// in main and handed to the payment tracker, so nothing reads deposit
// settings from the environment at request time.
type PaymentConfig struct {
	DefaultDepositPercent      int
	TourOperatorDepositPercent int
	DefaultCurrency            string
	LinkTTLHours               int
}

func LoadPaymentConfig() PaymentConfig {
	cfg := PaymentConfig{
		DefaultDepositPercent:      20,
		TourOperatorDepositPercent: 50,
		DefaultCurrency:            "EUR",
		LinkTTLHours:               72,
	}

	if v := Config("DEFAULT_DEPOSIT_PERCENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			cfg.DefaultDepositPercent = n
		}
	}
	if v := Config("DEFAULT_CURRENCY"); v != "" {
		cfg.DefaultCurrency = v
	}
	if v := Config("PAYMENT_LINK_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LinkTTLHours = n
		}
	}

	return cfg
}
