package transactions

import "context"

// ListFilter narrows List and Count. Empty fields match everything.
type ListFilter struct {
	ClientID string
	Result   *bool
	Limit    int
	Offset   int
}

// Repo persists transactions. There is deliberately no update method.
type Repo interface {
	Create(ctx context.Context, tx Transaction) error
	GetByID(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Delete(ctx context.Context, id string) error
}
