// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInSubunits(t *testing.T) {
	assert.Equal(t, int64(1999), amountInSubunits(19.99))
	assert.Equal(t, int64(29900), amountInSubunits(299))
	assert.Equal(t, int64(10), amountInSubunits(0.1))
	assert.Equal(t, int64(0), amountInSubunits(0))
}
