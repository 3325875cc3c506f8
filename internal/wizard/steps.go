package wizard

// StepID names a wizard step independently of its position.
type StepID string

const (
	StepContact            StepID = "contact"
	StepOrderDetails       StepID = "order_details"
	StepAddressPreferences StepID = "address_preferences"
	StepReviewPayment      StepID = "review_payment"
)

// Step is one screen of the wizard as presented to the client.
type Step struct {
	ID          StepID   `json:"id"`
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
}

var catalog = []Step{
	{
		ID:          StepContact,
		Title:       "Customer Information",
		Description: "Enter your contact details",
		Fields:      []string{FieldName, FieldEmail, FieldPhone},
	},
	{
		ID:          StepOrderDetails,
		Title:       "Order Details",
		Description: "Specify your laundry order",
		Fields:      []string{FieldWeight, FieldServiceType, FieldSchedulingOption, FieldScheduledDate},
	},
	{
		ID:          StepAddressPreferences,
		Title:       "Address & Instructions",
		Description: "Provide delivery information",
		Fields: []string{
			FieldAddressLine1, FieldAddressLine2, FieldCity, FieldState, FieldZipCode,
			FieldDetergent, FieldWaterTemp, FieldDryTemp, FieldBleachOption,
			FieldFabricSoftener, FieldDryerSheets, FieldScent, FieldSpecialInstructions,
		},
	},
	{
		ID:          StepReviewPayment,
		Title:       "Review & Payment",
		Description: "Review your order and complete payment",
	},
}

// Steps derives the active sequence. Signed-in buyers skip the contact step
// and the remaining steps renumber from zero.
func Steps(authenticated bool) []Step {
	out := make([]Step, 0, len(catalog))
	for _, step := range catalog {
		if authenticated && step.ID == StepContact {
			continue
		}
		step.Index = len(out)
		step.Fields = append([]string(nil), step.Fields...)
		out = append(out, step)
	}
	return out
}
