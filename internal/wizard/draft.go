package wizard

import (
	"strconv"
	"strings"

	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

const (
	FieldName                = "name"
	FieldEmail               = "email"
	FieldPhone               = "phone"
	FieldWeight              = "weight"
	FieldServiceType         = "service_type"
	FieldSchedulingOption    = "scheduling_option"
	FieldScheduledDate       = "scheduled_date"
	FieldAddressLine1        = "address_line1"
	FieldAddressLine2        = "address_line2"
	FieldCity                = "city"
	FieldState               = "state"
	FieldZipCode             = "zip_code"
	FieldDetergent           = "detergent"
	FieldWaterTemp           = "water_temp"
	FieldDryTemp             = "dry_temp"
	FieldBleachOption        = "bleach_option"
	FieldFabricSoftener      = "fabric_softener"
	FieldDryerSheets         = "dryer_sheets"
	FieldScent               = "scent"
	FieldSpecialInstructions = "special_instructions"
)

// Draft is the in-progress order. It only ever lives inside a wizard session.
type Draft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	Weight           enums.WeightBracket    `json:"weight"`
	ServiceType      enums.ServiceType      `json:"service_type"`
	SchedulingOption enums.SchedulingOption `json:"scheduling_option"`
	ScheduledDate    string                 `json:"scheduled_date"`

	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`

	Detergent           enums.Detergent    `json:"detergent"`
	WaterTemp           enums.WaterTemp    `json:"water_temp"`
	DryTemp             enums.DryTemp      `json:"dry_temp"`
	BleachOption        enums.BleachOption `json:"bleach_option"`
	FabricSoftener      bool               `json:"fabric_softener"`
	DryerSheets         bool               `json:"dryer_sheets"`
	Scent               enums.Scent        `json:"scent"`
	SpecialInstructions string             `json:"special_instructions"`
}

// NewDraft returns a draft carrying the default preferences.
func NewDraft() Draft {
	return Draft{
		ServiceType:      enums.ServiceTypeDelivery,
		SchedulingOption: enums.SchedulingASAP,
		Detergent:        enums.DetergentTide,
		WaterTemp:        enums.WaterTempCold,
		DryTemp:          enums.DryTempMedium,
		BleachOption:     enums.BleachNone,
		Scent:            enums.ScentUnscented,
	}
}

// Set merges a single field change. Values are stored as given; validation
// happens when the buyer advances.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldWeight:
		d.Weight = enums.WeightBracket(value)
	case FieldServiceType:
		d.ServiceType = enums.ServiceType(value)
	case FieldSchedulingOption:
		d.SchedulingOption = enums.SchedulingOption(value)
	case FieldScheduledDate:
		d.ScheduledDate = value
	case FieldAddressLine1:
		d.AddressLine1 = value
	case FieldAddressLine2:
		d.AddressLine2 = value
	case FieldCity:
		d.City = value
	case FieldState:
		d.State = value
	case FieldZipCode:
		d.ZipCode = value
	case FieldDetergent:
		d.Detergent = enums.Detergent(value)
	case FieldWaterTemp:
		d.WaterTemp = enums.WaterTemp(value)
	case FieldDryTemp:
		d.DryTemp = enums.DryTemp(value)
	case FieldBleachOption:
		d.BleachOption = enums.BleachOption(value)
	case FieldFabricSoftener, FieldDryerSheets:
		flag, err := parseFlag(field, value)
		if err != nil {
			return err
		}
		if field == FieldFabricSoftener {
			d.FabricSoftener = flag
		} else {
			d.DryerSheets = flag
		}
	case FieldScent:
		d.Scent = enums.Scent(value)
	case FieldSpecialInstructions:
		d.SpecialInstructions = value
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown wizard field").
			WithDetails(map[string]string{field: "unknown field"})
	}
	return nil
}

func parseFlag(field, value string) (bool, error) {
	flag, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid flag value").
			WithDetails(map[string]string{field: "must be true or false"})
	}
	return flag, nil
}

// Address renders the delivery address on one line.
func (d Draft) Address() string {
	parts := []string{strings.TrimSpace(d.AddressLine1)}
	if line2 := strings.TrimSpace(d.AddressLine2); line2 != "" {
		parts = append(parts, line2)
	}
	cityState := strings.TrimSpace(strings.Join(nonEmpty(d.City, d.State), ", "))
	if zip := strings.TrimSpace(d.ZipCode); zip != "" {
		cityState = strings.TrimSpace(cityState + " " + zip)
	}
	if cityState != "" {
		parts = append(parts, cityState)
	}
	return strings.Join(nonEmpty(parts...), ", ")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
