package clients

import "time"

// Client is a person submitting identity documents.
type Client struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
