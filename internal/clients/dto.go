package clients

import "time"

// ClientRequest is the body accepted by create and update.
type ClientRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"max=15"`
}

// ClientResponse is the outward-facing representation of a client.
type ClientResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(c Client) ClientResponse {
	resp := ClientResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Phone != "" {
		phone := c.Phone
		resp.Phone = &phone
	}
	return resp
}

func (r ClientRequest) input() Input {
	return Input{FullName: r.FullName, Email: r.Email, Phone: r.Phone}
}
