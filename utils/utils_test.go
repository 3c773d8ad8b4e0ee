package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDollarsToCents(t *testing.T) {
	assert.Equal(t, int64(4999), DollarsToCents(49.99))
	assert.Equal(t, int64(100), DollarsToCents(1.00))
	assert.Equal(t, int64(10), DollarsToCents(0.10))
	assert.Equal(t, int64(0), DollarsToCents(0))

	// binary float artifacts must not shave a cent off
	assert.Equal(t, int64(2910), DollarsToCents(29.10))
	assert.Equal(t, int64(1999), DollarsToCents(19.99))
}

func TestCentsToDollars(t *testing.T) {
	assert.Equal(t, 49.99, CentsToDollars(4999))
	assert.Equal(t, 0.0, CentsToDollars(0))
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp := GenerateOTP()
		assert.Len(t, otp, 6)
		for _, ch := range otp {
			assert.True(t, ch >= '0' && ch <= '9')
		}
	}
}
