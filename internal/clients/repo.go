package clients

import "context"

// ListFilter narrows a client listing. Search matches name or email.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// Repo defines persistence operations for clients.
type Repo interface {
	Create(ctx context.Context, client Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	List(ctx context.Context, filter ListFilter) ([]Client, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Update(ctx context.Context, client Client) error
	Delete(ctx context.Context, id string) error
}
