package model

import (
	"fmt"
	"gatepass/shared/failure"
)

// TicketAllocation is the canonical ticket breakdown for one booking: how many
// people it admits per category, and the meal split within each category.
// Immutable once payment is confirmed.
type TicketAllocation struct {
	MemberCount int `db:"member_count"  json:"member_count"`
	GuestCount  int `db:"guest_count"   json:"guest_count"`
	KidCount    int `db:"kid_count"     json:"kid_count"`

	MemberVegCount    int `db:"member_veg_count"     json:"member_veg_count"`
	MemberNonVegCount int `db:"member_non_veg_count" json:"member_non_veg_count"`
	GuestVegCount     int `db:"guest_veg_count"      json:"guest_veg_count"`
	GuestNonVegCount  int `db:"guest_non_veg_count"  json:"guest_non_veg_count"`
	KidVegCount       int `db:"kid_veg_count"        json:"kid_veg_count"`
	KidNonVegCount    int `db:"kid_non_veg_count"    json:"kid_non_veg_count"`
}

// TotalAdmissible is the number of people this allocation admits.
func (a TicketAllocation) TotalAdmissible() int {
	return a.MemberCount + a.GuestCount + a.KidCount
}

// Compose validates a raw ticket breakdown and returns it in canonical form.
// Pure and deterministic; every rejection is a failure.BadRequest.
func Compose(raw TicketAllocation) (TicketAllocation, error) {
	counts := map[string]int{
		"member_count":         raw.MemberCount,
		"guest_count":          raw.GuestCount,
		"kid_count":            raw.KidCount,
		"member_veg_count":     raw.MemberVegCount,
		"member_non_veg_count": raw.MemberNonVegCount,
		"guest_veg_count":      raw.GuestVegCount,
		"guest_non_veg_count":  raw.GuestNonVegCount,
		"kid_veg_count":        raw.KidVegCount,
		"kid_non_veg_count":    raw.KidNonVegCount,
	}

	for name, count := range counts {
		if count < 0 {
			return TicketAllocation{}, failure.BadRequestFromString(fmt.Sprintf("%s must not be negative", name)) //nolint:wrapcheck
		}
	}

	if raw.TotalAdmissible() < 1 {
		return TicketAllocation{}, failure.BadRequestFromString("a booking must admit at least one person") //nolint:wrapcheck
	}

	if raw.MemberVegCount+raw.MemberNonVegCount != raw.MemberCount {
		return TicketAllocation{}, failure.BadRequestFromString("member veg and non-veg counts must sum to member_count") //nolint:wrapcheck
	}

	if raw.GuestVegCount+raw.GuestNonVegCount != raw.GuestCount {
		return TicketAllocation{}, failure.BadRequestFromString("guest veg and non-veg counts must sum to guest_count") //nolint:wrapcheck
	}

	if raw.KidVegCount+raw.KidNonVegCount != raw.KidCount {
		return TicketAllocation{}, failure.BadRequestFromString("kid veg and non-veg counts must sum to kid_count") //nolint:wrapcheck
	}

	return raw, nil
}
