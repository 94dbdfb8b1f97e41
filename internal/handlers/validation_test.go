package handlers

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidatorsInstallsCustomTags(t *testing.T) {
	assert.NotPanics(t, registerValidators)
	assert.NotPanics(t, registerValidators, "second call is a no-op")

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	type payload struct {
		Amount decimal.Decimal `binding:"positive_amount"`
		Method string          `binding:"omitempty,payment_method"`
	}
	assert.NoError(t, v.Struct(payload{Amount: decimal.RequireFromString("1.50"), Method: "cash"}))
	assert.Error(t, v.Struct(payload{Amount: decimal.Zero}))
	assert.Error(t, v.Struct(payload{Amount: decimal.NewFromInt(1), Method: "barter"}))
}

func TestMustRegisterValidationPanicsOnBadTag(t *testing.T) {
	v := validator.New()
	assert.Panics(t, func() {
		mustRegisterValidation(v, "", positiveAmount)
	})
}
