package events

// Topic constants for domain events emitted by the platform.
const (
	TopicOrderCreated   = "order.created"
	TopicOrderPaid      = "order.paid"
	TopicOrderCancelled = "order.cancelled"
	TopicOrderRefunded  = "order.refunded"
	TopicRentalCreated  = "rental.created"
	TopicRentalRead     = "rental.read"
	TopicRentalReturned = "rental.returned"
	TopicRentalExpired  = "rental.expired"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderPaid,
		TopicOrderCancelled,
		TopicOrderRefunded,
		TopicRentalCreated,
		TopicRentalRead,
		TopicRentalReturned,
		TopicRentalExpired,
	}
}
