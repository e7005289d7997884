package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate checks the product against the data model's invariants
func (p ComparisonProduct) Validate() error {
	if err := validate.Struct(p); err != nil {
		return describeValidation(err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price: must be non-negative, got %s", p.Price.String())
	}
	return nil
}

// Validate checks the candidate's identity and score range
func (p AvailableProduct) Validate() error {
	if err := validate.Struct(p); err != nil {
		return describeValidation(err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price: must be non-negative, got %s", p.Price.String())
	}
	return nil
}

// describeValidation flattens validator errors into "field: rule" pairs
func describeValidation(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
