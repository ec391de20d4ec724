// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/werner-traut/budget/internal/models"
)

var once sync.Once

// Register registers all custom validators with the Gin binding engine.
func Register() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterOn(v)
		}
	})
}

// RegisterOn installs the custom tags and the decimal type func on v.
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	_ = v.RegisterValidation("period_type", validatePeriodType)
	_ = v.RegisterValidation("active_period_type", validateActivePeriodType)
	_ = v.RegisterValidation("money", validateMoney)
}

// decimalValue exposes decimal fields to numeric tags such as gt=0 and gte=0.
func decimalValue(field reflect.Value) interface{} {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := d.Float64()
		return f
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		f, _ := d.Decimal.Float64()
		return f
	}
	return nil
}

func validatePeriodType(fl validator.FieldLevel) bool {
	return models.PeriodType(fl.Field().String()).Valid()
}

func validateActivePeriodType(fl validator.FieldLevel) bool {
	pt := models.PeriodType(fl.Field().String())
	return pt.Valid() && !pt.IsClosed()
}

// maxMoney is the first value a numeric(12,2) column cannot hold.
var maxMoney = decimal.New(1, 10)

// validateMoney accepts at most two decimal places and magnitudes that fit
// numeric(12,2). The type func has already turned the field into a float64,
// so the check reads the original decimal back off the parent struct.
func validateMoney(fl validator.FieldLevel) bool {
	d, ok := moneyField(fl)
	if !ok {
		return true
	}
	return d.Equal(d.Round(2)) && d.Abs().LessThan(maxMoney)
}

func moneyField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	parent := fl.Parent()
	for parent.Kind() == reflect.Ptr || parent.Kind() == reflect.Interface {
		if parent.IsNil() {
			return decimal.Decimal{}, false
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return decimal.Decimal{}, false
	}
	field := parent.FieldByName(fl.StructFieldName())
	if !field.IsValid() {
		return decimal.Decimal{}, false
	}
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return decimal.Decimal{}, false
		}
		field = field.Elem()
	}
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d, true
	case decimal.NullDecimal:
		return d.Decimal, d.Valid
	}
	return decimal.Decimal{}, false
}
