// Package validator runs declarative field checks over decoded JSON request bodies.
package validator

import (
	"strings"

	"product-api/internal/model"
)

// Check reports whether a field value satisfies a rule. present is false when
// the field is missing from the input altogether.
type Check func(value any, present bool) bool

// Rule is a single {field, check, message} constraint.
type Rule struct {
	Field   string
	Check   Check
	Message string
}

// ProductRules validates create and full-replace bodies.
var ProductRules = []Rule{
	{Field: "name", Check: Required, Message: "Product name is required"},
	{Field: "name", Check: IsString, Message: "Product name must be a string"},
	{Field: "description", Check: Required, Message: "Product description is required"},
	{Field: "description", Check: IsString, Message: "Product description must be a string"},
	{Field: "price", Check: Required, Message: "Product price is required"},
	{Field: "price", Check: IsNumber, Message: "Product price must be a number"},
	{Field: "price", Check: Min(0), Message: "Price must be a positive number"},
	{Field: "category", Check: Required, Message: "Product category is required"},
	{Field: "category", Check: IsString, Message: "Product category must be a string"},
	{Field: "inStock", Check: Optional(IsBool), Message: "In stock must be a boolean value"},
}

// PriceRules validates price-only updates.
var PriceRules = []Rule{
	{Field: "price", Check: Required, Message: "Product price is required"},
	{Field: "price", Check: IsNumber, Message: "Product price must be a number"},
	{Field: "price", Check: Min(0), Message: "Price must be a positive number"},
}

// Validate evaluates rules in order and returns the first failure of every
// failing field. A nil result means the input is valid.
func Validate(input map[string]any, rules []Rule) []model.FieldError {
	var failures []model.FieldError
	failed := make(map[string]bool)

	for _, rule := range rules {
		if failed[rule.Field] {
			continue
		}
		value, present := input[rule.Field]
		if !rule.Check(value, present) {
			failed[rule.Field] = true
			failures = append(failures, model.FieldError{
				Field:   rule.Field,
				Message: rule.Message,
			})
		}
	}

	return failures
}

// Required fails on missing, null and blank string values.
func Required(value any, present bool) bool {
	if !present || value == nil {
		return false
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// IsString passes string values.
func IsString(value any, _ bool) bool {
	_, ok := value.(string)
	return ok
}

// IsNumber passes JSON numbers.
func IsNumber(value any, _ bool) bool {
	_, ok := toFloat(value)
	return ok
}

// IsBool passes JSON booleans.
func IsBool(value any, _ bool) bool {
	_, ok := value.(bool)
	return ok
}

// Min passes numbers greater than or equal to minimum. Non-numbers fail.
func Min(minimum float64) Check {
	return func(value any, _ bool) bool {
		f, ok := toFloat(value)
		return ok && f >= minimum
	}
}

// Optional skips check when the field is absent.
func Optional(check Check) Check {
	return func(value any, present bool) bool {
		if !present {
			return true
		}
		return check(value, present)
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
