package repository

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"product-api/internal/model"

	"github.com/go-playground/validator/v10"
)

// schema enforces the stored product invariants before every write.
var schema = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// checkProduct validates a complete product.
func checkProduct(p *model.Product) error {
	return toValidationError(schema.Struct(p))
}

// checkInput validates the fields written by a full replace.
func checkInput(input model.ProductInput) error {
	p := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
	}
	return toValidationError(schema.StructPartial(p, "Name", "Description", "Price", "Category"))
}

// checkPrice validates a price-only update.
func checkPrice(price float64) error {
	return toValidationError(schema.StructPartial(&model.Product{Price: price}, "Price"))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate product: %w", err)
	}

	fields := make([]model.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, model.FieldError{
			Field:   fe.Field(),
			Message: formatFieldError(fe),
		})
	}

	return model.NewValidationError(fields...)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
