package utils

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// DollarsToCents converts a major-unit amount to integer minor units the
// way the payment provider expects them on the wire.
func DollarsToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CentsToDollars converts back for display
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}
