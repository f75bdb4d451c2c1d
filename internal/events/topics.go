package events

// Topic constants for domain events emitted by the platform.
const (
	TopicBookingCreated           = "booking.created"
	TopicMessageReceived          = "message.received"
	TopicFleetAvailabilityChanged = "fleet.availability_changed"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicBookingCreated,
		TopicMessageReceived,
		TopicFleetAvailabilityChanged,
	}
}
