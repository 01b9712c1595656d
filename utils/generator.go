package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// Opaque identifiers follow the <prefix>-<timestamp>-<random> shape the
// email bot already understands, e.g. WL-20240315143205-0042.
func generateID(prefix string) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, time.Now().Format("20060102150405"), rand.Intn(10000))
}

func GenerateWaitlistID() string {
	return generateID("WL")
}

func GeneratePaymentID() string {
	return generateID("PAY")
}

func GenerateBookingID() string {
	return generateID("BOOK")
}
