package transactions

import "time"

// SubmitRequest is the JSON form of a submission. Images are base64 text,
// optionally as data URLs.
type SubmitRequest struct {
	Client         string `json:"client" binding:"required"`
	ImageFrontside string `json:"image_frontside"`
	ImageBackside  string `json:"image_backside"`
}

// TransactionResponse is the public view of a transaction. Image fields hold
// download URLs and are null when no image was stored.
type TransactionResponse struct {
	ID             string    `json:"id"`
	Client         string    `json:"client"`
	CreatedAt      time.Time `json:"created_at"`
	ImageFrontside *string   `json:"image_frontside"`
	ImageBackside  *string   `json:"image_backside"`
	Result         bool      `json:"result"`
	ErrorCode      *int      `json:"error_code"`
	Details        *string   `json:"details"`
}

// RejectionDetails is attached to the error body of a rejected submission.
type RejectionDetails struct {
	Transaction TransactionResponse `json:"transaction"`
	ErrorCode   int                 `json:"errorCode"`
}

func toResponse(tx Transaction, basePath string) TransactionResponse {
	out := TransactionResponse{
		ID:        tx.ID,
		Client:    tx.ClientID,
		CreatedAt: tx.CreatedAt,
		Result:    tx.Result,
	}
	if tx.FrontsideKey != "" {
		url := imageURL(basePath, tx.ID, SideFront)
		out.ImageFrontside = &url
	}
	if tx.BacksideKey != "" {
		url := imageURL(basePath, tx.ID, SideBack)
		out.ImageBackside = &url
	}
	if !tx.Result {
		code := int(tx.ErrorCode)
		details := tx.Details
		out.ErrorCode = &code
		out.Details = &details
	}
	return out
}

func imageURL(basePath, id string, side Side) string {
	return basePath + "/transactions/" + id + "/images/" + string(side)
}
