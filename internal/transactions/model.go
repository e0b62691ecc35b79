package transactions

import (
	"time"

	"docverify-backend/internal/imaging"
)

// Side names one face of an identity document.
type Side string

const (
	SideFront Side = "frontside"
	SideBack  Side = "backside"
)

// Transaction is one persisted submission attempt. Rejected attempts are kept
// as the audit trail; rows are never updated.
type Transaction struct {
	ID       string
	ClientID string
	// FrontsideKey and BacksideKey are object-store keys; empty means no image
	// was stored.
	FrontsideKey string
	BacksideKey  string
	Result       bool
	// ErrorCode and Details are set only when Result is false.
	ErrorCode imaging.ErrorCode
	Details   string
	CreatedAt time.Time
}

// ImageKey returns the stored key for the given side.
func (t Transaction) ImageKey(side Side) string {
	switch side {
	case SideFront:
		return t.FrontsideKey
	case SideBack:
		return t.BacksideKey
	default:
		return ""
	}
}
