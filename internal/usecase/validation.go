package usecase

import (
	"errors"
	"fmt"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
)

// NewValidator returns a validator with the money rules registered.
func NewValidator() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(cartLineValidation, model.CartLine{})
	v.RegisterStructValidation(orderDraftValidation, model.OrderDraft{})
	v.RegisterStructValidation(menuItemValidation, model.MenuItem{})
	return v
}

func cartLineValidation(sl validatorv10.StructLevel) {
	line := sl.Current().Interface().(model.CartLine)
	if line.Price.IsNegative() {
		sl.ReportError(line.Price, "price", "Price", "nonnegative", "")
	}
}

func orderDraftValidation(sl validatorv10.StructLevel) {
	draft := sl.Current().Interface().(model.OrderDraft)
	if draft.TotalPrice.IsNegative() {
		sl.ReportError(draft.TotalPrice, "total_price", "TotalPrice", "nonnegative", "")
	}
}

func menuItemValidation(sl validatorv10.StructLevel) {
	item := sl.Current().Interface().(model.MenuItem)
	if item.Price.IsNegative() {
		sl.ReportError(item.Price, "price", "Price", "nonnegative", "")
	}
}

// validationError flattens validator output into a single ErrValidation.
func validationError(err error) error {
	var fieldErrs validatorv10.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domainErrors.Validation("%s", err.Error())
	}

	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reasons = append(reasons, describeField(fe))
	}
	return domainErrors.Validation("%s", strings.Join(reasons, "; "))
}

func describeField(fe validatorv10.FieldError) string {
	field := fe.StructNamespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", field, comparisonWord(fe.Tag()), fe.Param())
	case "nonnegative":
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func comparisonWord(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}
