package model

import (
	"gatepass/shared/model"
)

const (
	TableName  = "guest_requests"
	EntityName = "guest_request"

	FieldID                 = "id"
	FieldBookingID          = "booking_id"
	FieldSponsoringMemberID = "sponsoring_member_id"
	FieldStatus             = "status"
)

const (
	StatusPending  = "pending_approval"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// GuestRequest is a guest's pre-payment request to use a member's referral
// benefit. It is resolved by the sponsoring member exactly once; approved and
// rejected are terminal.
type GuestRequest struct {
	ID                 string `db:"id"`
	BookingID          string `db:"booking_id"`
	SponsoringMemberID string `db:"sponsoring_member_id"`
	GuestName          string `db:"guest_name"`
	GuestPhone         string `db:"guest_phone"`
	SeatCount          int    `db:"seat_count"`
	Status             string `db:"status"`
	ResolvedBy         string `db:"resolved_by"`
	ResolutionReason   string `db:"resolution_reason"`
	model.Metadata
}

// Terminal reports whether the request has been resolved.
func (g *GuestRequest) Terminal() bool {
	return g.Status == StatusApproved || g.Status == StatusRejected
}
