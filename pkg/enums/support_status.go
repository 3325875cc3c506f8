package enums

// SupportStatus tracks a customer support issue.
type SupportStatus string

const (
	SupportStatusOpen     SupportStatus = "open"
	SupportStatusResolved SupportStatus = "resolved"
)

var validSupportStatuses = []SupportStatus{
	SupportStatusOpen,
	SupportStatusResolved,
}

func (s SupportStatus) IsValid() bool {
	return contains(validSupportStatuses, s)
}

func ParseSupportStatus(value string) (SupportStatus, error) {
	return parse(validSupportStatuses, value, "support status")
}
