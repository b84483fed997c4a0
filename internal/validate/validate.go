package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/sheet/config.go
//   type Config struct {
//       CollapsedHeight  float64 `validate:"gt=0"`
//       OpenThreshold    float64 `validate:"fraction"`
//       DismissThreshold float64 `validate:"fraction,ltefield=OpenThreshold"`
//   }
//
// On top of the built-in tags it registers:
//   fraction   numeric value in the half-open interval (0, 1]
//   variant    one of the presentation variant names ("modal", "alert")

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for empty tags or nil funcs.
		_ = validatorInst.RegisterValidation("fraction", isFraction)
		_ = validatorInst.RegisterValidation("variant", isVariantName)
	})
	return validatorInst
}

func isFraction(fl validator.FieldLevel) bool {
	f := fl.Field()
	var v float64
	switch f.Kind() { //nolint:exhaustive // Only numeric kinds are meaningful here.
	case reflect.Float32, reflect.Float64:
		v = f.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v = float64(f.Int())
	default:
		return false
	}
	return v > 0 && v <= 1
}

func isVariantName(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch fl.Field().String() {
	case "modal", "alert":
		return true
	default:
		return false
	}
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
