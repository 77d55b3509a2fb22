package dto

import (
	"gatepass/internal/domains/booking/model"
	"gatepass/shared"
	gDto "gatepass/shared/dto"
	gModel "gatepass/shared/model"
	"gatepass/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	EventID      string `json:"event_id"      validate:"required,uuid4"`
	DiscountCode string `json:"discount_code" validate:"omitempty,max=32"`

	model.TicketAllocation

	// ApprovalRequired marks a guest-referral booking: payment may complete,
	// but admission is gated on the sponsoring member's approval.
	ApprovalRequired   bool   `json:"approval_required"`
	SponsoringMemberID string `json:"sponsoring_member_id" validate:"required_if=ApprovalRequired true,omitempty,uuid4"`
	GuestName          string `json:"guest_name"           validate:"required_if=ApprovalRequired true,omitempty,max=100"`
	GuestPhone         string `json:"guest_phone"          validate:"omitempty,max=20"`
}

func (c *CreateBookingRequest) ToModel(user string, allocation model.TicketAllocation, grossAmount, finalAmount int64) model.Booking {
	kind := model.KindMember
	approvalStatus := model.ApprovalStatusNotRequired

	if c.ApprovalRequired {
		kind = model.KindGuestReferral
		approvalStatus = model.ApprovalStatusPending
	}

	return model.Booking{
		ID:                   uuid.NewString(),
		EventID:              c.EventID,
		MemberID:             user,
		Kind:                 kind,
		TicketAllocation:     allocation,
		TotalAdmissibleCount: allocation.TotalAdmissible(),
		GrossAmount:          grossAmount,
		DiscountCode:         c.DiscountCode,
		FinalAmount:          finalAmount,
		PaymentStatus:        model.PaymentStatusPending,
		ApprovalStatus:       approvalStatus,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CreateBookingResponse struct {
	BookingID        string `json:"booking_id"`
	GrossAmount      int64  `json:"gross_amount"`
	FinalAmount      int64  `json:"final_amount"`
	DiscountApplied  bool   `json:"discount_applied"`
	DiscountIgnored  bool   `json:"discount_ignored"`
	PaymentRequired  bool   `json:"payment_required"`
	ApprovalStatus   string `json:"approval_status"`
	ApprovalRequired bool   `json:"approval_required"`
}

type ConfirmPaymentRequest struct {
	// PaymentRef is the external payment reference (UTR). Re-confirming with
	// the same reference is a no-op.
	PaymentRef string `json:"payment_ref" validate:"required,max=64"`
}

type FailPaymentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type BookingResponse struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	MemberID string `json:"member_id"`
	Kind     string `json:"kind"`

	model.TicketAllocation
	TotalAdmissibleCount int `json:"total_admissible_count"`

	GrossAmount  int64  `json:"gross_amount"`
	DiscountCode string `json:"discount_code,omitempty"`
	FinalAmount  int64  `json:"final_amount"`

	PaymentStatus  string `json:"payment_status"`
	PaymentRef     string `json:"payment_ref,omitempty"`
	FailureReason  string `json:"failure_reason,omitempty"`
	ApprovalStatus string `json:"approval_status"`

	QRCode         string `json:"qr_code,omitempty"`
	QRScanCount    int    `json:"qr_scan_count"`
	RemainingScans int    `json:"remaining_scans"`

	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.EventID = mod.EventID
	r.MemberID = mod.MemberID
	r.Kind = mod.Kind
	r.TicketAllocation = mod.TicketAllocation
	r.TotalAdmissibleCount = mod.TotalAdmissibleCount
	r.GrossAmount = mod.GrossAmount
	r.DiscountCode = mod.DiscountCode
	r.FinalAmount = mod.FinalAmount
	r.PaymentStatus = mod.PaymentStatus
	r.PaymentRef = mod.PaymentRef
	r.FailureReason = mod.FailureReason
	r.ApprovalStatus = mod.ApprovalStatus
	r.QRCode = mod.QRCode
	r.QRScanCount = mod.QRScanCount
	r.RemainingScans = mod.RemainingScans()
	r.Metadata.FromModel(mod.Metadata)
}

// GetBookingsResponse is the read-only reporting projection consumed by the
// export surface: amounts, statuses, and payment references per booking.
type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
