package wizard

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/washday/laundry-backend/pkg/enums"
)

// DateLayout is the accepted format for scheduled dates.
const DateLayout = "2006-01-02"

// FieldErrors maps a draft field name to a human readable message.
type FieldErrors map[string]string

var emailValidator = validator.New()

var labels = map[string]string{
	FieldName:                "Name",
	FieldEmail:               "Email",
	FieldPhone:               "Phone",
	FieldWeight:              "Weight",
	FieldServiceType:         "Service type",
	FieldSchedulingOption:    "Scheduling option",
	FieldScheduledDate:       "Scheduled date",
	FieldAddressLine1:        "Address line 1",
	FieldAddressLine2:        "Address line 2",
	FieldCity:                "City",
	FieldState:               "State",
	FieldZipCode:             "ZIP code",
	FieldDetergent:           "Detergent",
	FieldWaterTemp:           "Water temperature",
	FieldDryTemp:             "Dry temperature",
	FieldBleachOption:        "Bleach option",
	FieldScent:               "Scent",
	FieldSpecialInstructions: "Special instructions",
}

var maxLengths = map[string]int{
	FieldAddressLine1:        100,
	FieldAddressLine2:        100,
	FieldCity:                50,
	FieldState:               50,
	FieldZipCode:             10,
	FieldSpecialInstructions: 500,
}

// ValidateStep checks only the fields governed by the given step.
func ValidateStep(id StepID, d Draft) FieldErrors {
	errs := FieldErrors{}
	switch id {
	case StepContact:
		validateContact(d, errs)
	case StepOrderDetails:
		validateOrderDetails(d, errs)
	case StepAddressPreferences:
		validateAddress(d, errs)
	}
	return errs
}

// ValidateAll re-checks every active step before payment.
func ValidateAll(d Draft, authenticated bool) FieldErrors {
	errs := FieldErrors{}
	for _, step := range Steps(authenticated) {
		for field, msg := range ValidateStep(step.ID, d) {
			errs[field] = msg
		}
	}
	return errs
}

func validateContact(d Draft, errs FieldErrors) {
	required(errs, FieldName, d.Name)
	required(errs, FieldPhone, d.Phone)
	if required(errs, FieldEmail, d.Email) {
		if err := emailValidator.Var(strings.TrimSpace(d.Email), "email"); err != nil {
			errs[FieldEmail] = "Email must be a valid email address"
		}
	}
}

func validateOrderDetails(d Draft, errs FieldErrors) {
	oneOf(errs, FieldWeight, string(d.Weight), d.Weight.IsValid())
	oneOf(errs, FieldServiceType, string(d.ServiceType), d.ServiceType.IsValid())
	oneOf(errs, FieldSchedulingOption, string(d.SchedulingOption), d.SchedulingOption.IsValid())

	if d.SchedulingOption != enums.SchedulingSchedule {
		return
	}
	if required(errs, FieldScheduledDate, d.ScheduledDate) {
		if _, err := time.Parse(DateLayout, strings.TrimSpace(d.ScheduledDate)); err != nil {
			errs[FieldScheduledDate] = "Scheduled date must be a valid date (YYYY-MM-DD)"
		}
	}
}

func validateAddress(d Draft, errs FieldErrors) {
	for field, value := range map[string]string{
		FieldAddressLine1: d.AddressLine1,
		FieldCity:         d.City,
		FieldState:        d.State,
		FieldZipCode:      d.ZipCode,
	} {
		if required(errs, field, value) {
			maxLength(errs, field, value)
		}
	}
	maxLength(errs, FieldAddressLine2, d.AddressLine2)
	maxLength(errs, FieldSpecialInstructions, d.SpecialInstructions)

	oneOf(errs, FieldDetergent, string(d.Detergent), d.Detergent.IsValid())
	oneOf(errs, FieldWaterTemp, string(d.WaterTemp), d.WaterTemp.IsValid())
	oneOf(errs, FieldDryTemp, string(d.DryTemp), d.DryTemp.IsValid())
	oneOf(errs, FieldBleachOption, string(d.BleachOption), d.BleachOption.IsValid())

	if strings.TrimSpace(string(d.Scent)) != "" && !d.Scent.IsValid() {
		errs[FieldScent] = allowedMessage(FieldScent)
	}
}

// required records an error for blank values and reports whether the value was present.
func required(errs FieldErrors, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs[field] = labels[field] + " is required"
		return false
	}
	return true
}

func oneOf(errs FieldErrors, field, value string, valid bool) {
	if !required(errs, field, value) {
		return
	}
	if !valid {
		errs[field] = allowedMessage(field)
	}
}

func maxLength(errs FieldErrors, field, value string) {
	limit, ok := maxLengths[field]
	if !ok {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(value)) > limit {
		errs[field] = fmt.Sprintf("%s must be at most %d characters", labels[field], limit)
	}
}

func allowedMessage(field string) string {
	return fmt.Sprintf("%s must be one of: %s", labels[field], strings.Join(enums.AllowedValues()[field], ", "))
}
