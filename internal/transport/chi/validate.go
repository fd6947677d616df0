package chi

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/clientrank/internal/domain/client"
)

// newValidator builds the request validator with the domain value rules and
// JSON field names in error messages.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return client.ParseTier(fl.Field().String()).IsKnown()
	})
	_ = v.RegisterValidation("risk", func(fl validator.FieldLevel) bool {
		return client.ParseRiskProfile(fl.Field().String()).IsKnown()
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage flattens validator errors into one client-facing line.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "tier":
			msgs = append(msgs, fmt.Sprintf("%s: unknown tier %q", fe.Namespace(), fe.Value()))
		case "risk":
			msgs = append(msgs, fmt.Sprintf("%s: unknown risk profile %q", fe.Namespace(), fe.Value()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", fe.Namespace(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
