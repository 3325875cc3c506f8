package enums

// WeightBracket is a string-encoded pound range used for price estimates.
type WeightBracket string

const (
	WeightUpTo10  WeightBracket = "0-10"
	Weight11To20  WeightBracket = "11-20"
	Weight21To30  WeightBracket = "21-30"
	Weight31AndUp WeightBracket = "31+"
)

var validWeightBrackets = []WeightBracket{WeightUpTo10, Weight11To20, Weight21To30, Weight31AndUp}

func (w WeightBracket) IsValid() bool { return contains(validWeightBrackets, w) }

// WeightBrackets lists every bracket in ascending order.
func WeightBrackets() []WeightBracket {
	return append([]WeightBracket(nil), validWeightBrackets...)
}

type ServiceType string

const (
	ServiceTypePickup   ServiceType = "pickup"
	ServiceTypeDelivery ServiceType = "delivery"
)

var validServiceTypes = []ServiceType{ServiceTypePickup, ServiceTypeDelivery}

func (s ServiceType) IsValid() bool { return contains(validServiceTypes, s) }

// SchedulingOption chooses between immediate processing and a future date.
type SchedulingOption string

const (
	SchedulingASAP     SchedulingOption = "asap"
	SchedulingSchedule SchedulingOption = "schedule"
)

var validSchedulingOptions = []SchedulingOption{SchedulingASAP, SchedulingSchedule}

func (s SchedulingOption) IsValid() bool { return contains(validSchedulingOptions, s) }

type Detergent string

const (
	DetergentTide              Detergent = "tide"
	DetergentPersil            Detergent = "persil"
	DetergentSeventhGeneration Detergent = "seventh_generation"
	DetergentAll               Detergent = "all"
)

var validDetergents = []Detergent{DetergentTide, DetergentPersil, DetergentSeventhGeneration, DetergentAll}

func (d Detergent) IsValid() bool { return contains(validDetergents, d) }

type WaterTemp string

const (
	WaterTempCold WaterTemp = "cold"
	WaterTempWarm WaterTemp = "warm"
	WaterTempHot  WaterTemp = "hot"
)

var validWaterTemps = []WaterTemp{WaterTempCold, WaterTempWarm, WaterTempHot}

func (w WaterTemp) IsValid() bool { return contains(validWaterTemps, w) }

type DryTemp string

const (
	DryTempLow    DryTemp = "low"
	DryTempMedium DryTemp = "medium"
	DryTempHigh   DryTemp = "high"
)

var validDryTemps = []DryTemp{DryTempLow, DryTempMedium, DryTempHigh}

func (d DryTemp) IsValid() bool { return contains(validDryTemps, d) }

type BleachOption string

const (
	BleachNone      BleachOption = "no_bleach"
	BleachColorSafe BleachOption = "color_safe"
	BleachWhite     BleachOption = "white_bleach"
)

var validBleachOptions = []BleachOption{BleachNone, BleachColorSafe, BleachWhite}

func (b BleachOption) IsValid() bool { return contains(validBleachOptions, b) }

type Scent string

const (
	ScentUnscented    Scent = "unscented"
	ScentFreshLinen   Scent = "fresh_linen"
	ScentLavender     Scent = "lavender"
	ScentSpringMeadow Scent = "spring_meadow"
)

var validScents = []Scent{ScentUnscented, ScentFreshLinen, ScentLavender, ScentSpringMeadow}

func (s Scent) IsValid() bool { return contains(validScents, s) }

// AllowedValues exposes each option set for error messages and option listings.
func AllowedValues() map[string][]string {
	return map[string][]string{
		"weight":            toStrings(validWeightBrackets),
		"service_type":      toStrings(validServiceTypes),
		"scheduling_option": toStrings(validSchedulingOptions),
		"detergent":         toStrings(validDetergents),
		"water_temp":        toStrings(validWaterTemps),
		"dry_temp":          toStrings(validDryTemps),
		"bleach_option":     toStrings(validBleachOptions),
		"scent":             toStrings(validScents),
	}
}
