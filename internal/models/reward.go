package models

import "time"

// Reward is a loyalty reward a user can redeem. IsRedeemed is monotonic:
// once true it never reverts.
type Reward struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Points         int       `json:"points"`
	PointsRequired int       `json:"points_required"`
	ExpiryDate     time.Time `json:"expiry_date"`
	IsRedeemed     bool      `json:"is_redeemed"`
}

// Offer is a promotional discount a user can apply. IsApplied is monotonic:
// once true it never reverts.
type Offer struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Discount    string    `json:"discount"`
	Code        string    `json:"code,omitempty"`
	Category    string    `json:"category,omitempty"`
	ValidUntil  time.Time `json:"valid_until"`
	IsApplied   bool      `json:"is_applied"`
}
