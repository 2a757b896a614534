package calibration

import (
	"errors"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"labdesk/infrastructure/labapi"
)

var (
	errParameterRequired = errors.New("parameter is required")
	errAmountRequired    = errors.New("amount is required")
	errAmountInvalid     = errors.New("amount must be a number")
	errAmountNegative    = errors.New("amount cannot be negative")
	errAmountPrecision   = errors.New("amount can have at most two decimal places")
	errMatrixName        = errors.New("matrix name is required")
	errMatrixRange       = errors.New("range from must not exceed range to")
	errPointValue        = errors.New("point value is required")
)

// ParsePriceForm validates a price form. Amounts are non-negative with at
// most two decimal places.
func ParsePriceForm(scope Scope, id string, form url.Values) (labapi.PriceInput, error) {
	in := labapi.PriceInput{
		ID:          strings.TrimSpace(id),
		Instrument:  scope.Instrument,
		Parameter:   strings.TrimSpace(form.Get("parameter")),
		Description: strings.TrimSpace(form.Get("description")),
	}
	if in.Parameter == "" {
		return in, errParameterRequired
	}
	raw := strings.TrimSpace(form.Get("amount"))
	if raw == "" {
		return in, errAmountRequired
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return in, errAmountInvalid
	}
	if amount.IsNegative() {
		return in, errAmountNegative
	}
	if !amount.Equal(amount.Round(2)) {
		return in, errAmountPrecision
	}
	in.Amount = amount.Round(2)
	return in, nil
}

// ParseMatrixForm requires a name; when both range bounds are numeric they
// must be ordered.
func ParseMatrixForm(scope Scope, form url.Values) (labapi.MatrixInput, error) {
	in := labapi.MatrixInput{
		Price:     scope.Price,
		Name:      strings.TrimSpace(form.Get("name")),
		RangeFrom: strings.TrimSpace(form.Get("rangefrom")),
		RangeTo:   strings.TrimSpace(form.Get("rangeto")),
		Unit:      strings.TrimSpace(form.Get("unit")),
	}
	if in.Name == "" {
		return in, errMatrixName
	}
	from, errFrom := decimal.NewFromString(in.RangeFrom)
	to, errTo := decimal.NewFromString(in.RangeTo)
	if errFrom == nil && errTo == nil && from.GreaterThan(to) {
		return in, errMatrixRange
	}
	return in, nil
}

func ParsePointForm(scope Scope, id string, form url.Values) (labapi.PointInput, error) {
	in := labapi.PointInput{
		ID:          strings.TrimSpace(id),
		Matrix:      scope.Matrix,
		Value:       strings.TrimSpace(form.Get("value")),
		Unit:        strings.TrimSpace(form.Get("unit")),
		Description: strings.TrimSpace(form.Get("description")),
	}
	if in.Value == "" {
		return in, errPointValue
	}
	return in, nil
}
