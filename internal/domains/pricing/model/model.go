package model

import (
	"gatepass/shared/model"
	"time"
)

const (
	PriceTableName  = "event_prices"
	PriceEntityName = "event_price"

	FieldEventID = "event_id"
)

const (
	CodeTableName  = "discount_codes"
	CodeEntityName = "discount_code"

	FieldCode = "code"
)

// EventPrice is the per-category unit price table for one event.
// Amounts are in minor currency units.
type EventPrice struct {
	EventID     string `db:"event_id"`
	MemberPrice int64  `db:"member_price"`
	GuestPrice  int64  `db:"guest_price"`
	KidPrice    int64  `db:"kid_price"`
	model.Metadata
}

// DiscountCode is a referral/discount code scoped to one event. A code
// reduces the gross amount by a percentage, a flat amount, or both.
type DiscountCode struct {
	Code       string    `db:"code"`
	EventID    string    `db:"event_id"`
	PercentOff int       `db:"percent_off"`
	FlatOff    int64     `db:"flat_off"`
	ValidFrom  time.Time `db:"valid_from"`
	ValidUntil time.Time `db:"valid_until"`
	Active     bool      `db:"active"`
	model.Metadata
}

// Usable reports whether the code may be applied at the given time.
func (c *DiscountCode) Usable(at time.Time) bool {
	if c.Code == "" || !c.Active {
		return false
	}

	if at.Before(c.ValidFrom) {
		return false
	}

	return !at.After(c.ValidUntil)
}
