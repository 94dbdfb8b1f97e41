package handlers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators installs the custom binding tags used by the DTOs.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// decimals are validated through their string form
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		mustRegisterValidation(v, "positive_amount", positiveAmount)
		mustRegisterValidation(v, "payment_method", paymentMethod)
	})
}

// mustRegisterValidation panics when a tag cannot be registered; routes are
// set up once at startup and a DTO with an unknown tag fails every request.
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

func positiveAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.GreaterThan(decimal.Zero)
}

func paymentMethod(fl validator.FieldLevel) bool {
	return domain.IsPaymentMethod(fl.Field().String())
}
