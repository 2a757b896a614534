package training

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"labdesk/frontend/shared/dates"
	"labdesk/infrastructure/labapi"
)

var (
	errNameRequired       = errors.New("module name is required")
	errDepartmentRequired = errors.New("department is required")
	errDurationInvalid    = errors.New("duration must be a number of hours greater than zero")
)

// ValidateModule checks the required fields and normalizes duration and the
// valid-from date (sent as DD/MM/YYYY).
func ValidateModule(in labapi.TrainingModuleInput) (labapi.TrainingModuleInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Department = strings.TrimSpace(in.Department)
	in.Trainer = strings.TrimSpace(in.Trainer)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, errNameRequired
	}
	if in.Department == "" {
		return in, errDepartmentRequired
	}
	hours, err := decimal.NewFromString(strings.TrimSpace(in.Duration))
	if err != nil || !hours.IsPositive() {
		return in, errDurationInvalid
	}
	in.Duration = hours.String()
	validFrom, err := dates.ToDisplay(in.ValidFrom)
	if err != nil {
		return in, fmt.Errorf("valid from: %w", err)
	}
	in.ValidFrom = validFrom
	return in, nil
}

func ParseModuleForm(id string, form url.Values) (labapi.TrainingModuleInput, error) {
	return ValidateModule(labapi.TrainingModuleInput{
		ID:          strings.TrimSpace(id),
		Name:        form.Get("name"),
		Department:  form.Get("department"),
		Trainer:     form.Get("trainer"),
		Description: form.Get("description"),
		Duration:    form.Get("duration"),
		ValidFrom:   form.Get("validfrom"),
	})
}
