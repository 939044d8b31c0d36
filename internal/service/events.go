package service

const (
	EventCategoryCreated = "category_created"
	EventCategoryUpdated = "category_updated"
	EventCategoryDeleted = "category_deleted"
	EventProductCreated  = "product_created"
	EventProductUpdated  = "product_updated"
	EventProductDeleted  = "product_deleted"
	EventCustomerCreated = "customer_created"
	EventCustomerUpdated = "customer_updated"
	EventCustomerDeleted = "customer_deleted"
)

// EventPublisher fans catalog changes out to connected admin sessions.
type EventPublisher interface {
	Publish(event string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

type deletedPayload struct {
	ID any `json:"id"`
}
