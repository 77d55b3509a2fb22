package model

import (
	"gatepass/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldEventID        = "event_id"
	FieldMemberID       = "member_id"
	FieldKind           = "kind"
	FieldPaymentStatus  = "payment_status"
	FieldPaymentRef     = "payment_ref"
	FieldApprovalStatus = "approval_status"
	FieldQRCode         = "qr_code"
	FieldQRScanCount    = "qr_scan_count"
	FieldCreatedAt      = "created_at"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	ApprovalStatusNotRequired = "not_required"
	ApprovalStatusPending     = "pending_approval"
	ApprovalStatusApproved    = "approved"
	ApprovalStatusRejected    = "rejected"
)

const (
	KindMember        = "member"
	KindGuestReferral = "guest_referral"
)

// Booking is the single source of truth for one purchase: its ticket
// composition, payment state, approval state, and check-in consumption.
// Rows are never deleted as a side effect of scanning or rejection.
type Booking struct {
	ID       string `db:"id"`
	EventID  string `db:"event_id"`
	MemberID string `db:"member_id"`
	Kind     string `db:"kind"`

	TicketAllocation
	TotalAdmissibleCount int `db:"total_admissible_count"`

	GrossAmount  int64  `db:"gross_amount"`
	DiscountCode string `db:"discount_code"`
	FinalAmount  int64  `db:"final_amount"`

	PaymentStatus string `db:"payment_status"`
	PaymentRef    string `db:"payment_ref"`
	FailureReason string `db:"failure_reason"`

	ApprovalStatus string `db:"approval_status"`

	QRCode      string `db:"qr_code"`
	QRScanCount int    `db:"qr_scan_count"`

	model.Metadata
}

// Admissible reports whether the booking is currently eligible to admit
// people: payment completed and approval either not required or granted.
func (b *Booking) Admissible() bool {
	if b.PaymentStatus != PaymentStatusCompleted {
		return false
	}

	return b.ApprovalStatus == ApprovalStatusNotRequired || b.ApprovalStatus == ApprovalStatusApproved
}

// RemainingScans is the number of admissions the booking still covers.
// Never negative.
func (b *Booking) RemainingScans() int {
	remaining := b.TotalAdmissibleCount - b.QRScanCount
	if remaining < 0 {
		return 0
	}

	return remaining
}
