package model

// EventKind identifies the type of a product mutation event.
type EventKind string

const (
	EventProductCreated EventKind = "product.created"
	EventProductUpdated EventKind = "product.updated"
	EventProductDeleted EventKind = "product.deleted"
)

// ProductEvent is a tagged variant over product mutations. Subscribers
// switch on the concrete type (or Kind) instead of inspecting an open-ended
// payload shape.
type ProductEvent interface {
	Kind() EventKind
}

// ProductCreated is published after a product is persisted for the first time.
type ProductCreated struct {
	Product *Product
}

// Kind implements ProductEvent.
func (ProductCreated) Kind() EventKind { return EventProductCreated }

// ProductUpdated is published after a full-replace update is persisted.
type ProductUpdated struct {
	Product *Product
}

// Kind implements ProductEvent.
func (ProductUpdated) Kind() EventKind { return EventProductUpdated }

// ProductDeleted is published after a product row is removed.
type ProductDeleted struct {
	ProductID string
}

// Kind implements ProductEvent.
func (ProductDeleted) Kind() EventKind { return EventProductDeleted }
