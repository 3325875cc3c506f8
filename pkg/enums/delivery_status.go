package enums

// DeliveryStatus labels a delivery record; no routing logic hangs off it.
type DeliveryStatus string

const (
	DeliveryStatusScheduled DeliveryStatus = "scheduled"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusDelayed   DeliveryStatus = "delayed"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusScheduled,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
	DeliveryStatusDelayed,
}

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsValid() bool {
	return contains(validDeliveryStatuses, s)
}

func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	return parse(validDeliveryStatuses, value, "delivery status")
}
