package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Transaction PIN: exactly 4 decimal digits
	validate.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		pin := fl.Field().String()
		if len(pin) != 4 {
			return false
		}
		for _, c := range pin {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})

	// Mobile network for airtime/data purchases
	validate.RegisterValidation("network", func(fl validator.FieldLevel) bool {
		network := strings.ToLower(fl.Field().String())
		validNetworks := []string{"mtn", "glo", "airtel", "9mobile"}
		for _, n := range validNetworks {
			if network == n {
				return true
			}
		}
		return false
	})

	// TV provider
	validate.RegisterValidation("tv_provider", func(fl validator.FieldLevel) bool {
		provider := strings.ToLower(fl.Field().String())
		validProviders := []string{"dstv", "gotv", "startimes"}
		for _, p := range validProviders {
			if provider == p {
				return true
			}
		}
		return false
	})

	// Purchase payment method
	validate.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		method := fl.Field().String()
		validMethods := []string{"wallet", "bank", ""}
		for _, m := range validMethods {
			if method == m {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "pin":
			errors[field] = "PIN must be exactly 4 digits"
		case "network":
			errors[field] = "Invalid network. Must be: mtn, glo, airtel, or 9mobile"
		case "tv_provider":
			errors[field] = "Invalid provider. Must be: dstv, gotv, or startimes"
		case "payment_method":
			errors[field] = "Invalid payment method. Must be: wallet or bank"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
