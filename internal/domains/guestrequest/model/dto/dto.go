package dto

import (
	"gatepass/internal/domains/guestrequest/model"
	"gatepass/shared"
	gDto "gatepass/shared/dto"
	gModel "gatepass/shared/model"
	"gatepass/shared/timezone"

	"github.com/google/uuid"
)

// NewGuestRequest builds the pending request row linked to a guest-referral
// booking at creation time.
func NewGuestRequest(bookingID, sponsoringMemberID, guestName, guestPhone, user string, seatCount int) model.GuestRequest {
	return model.GuestRequest{
		ID:                 uuid.NewString(),
		BookingID:          bookingID,
		SponsoringMemberID: sponsoringMemberID,
		GuestName:          guestName,
		GuestPhone:         guestPhone,
		SeatCount:          seatCount,
		Status:             model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ResolveRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type GuestRequestResponse struct {
	ID                 string `json:"id"`
	BookingID          string `json:"booking_id"`
	SponsoringMemberID string `json:"sponsoring_member_id"`
	GuestName          string `json:"guest_name"`
	GuestPhone         string `json:"guest_phone,omitempty"`
	SeatCount          int    `json:"seat_count"`
	Status             string `json:"status"`
	ResolvedBy         string `json:"resolved_by,omitempty"`
	ResolutionReason   string `json:"resolution_reason,omitempty"`
	gDto.Metadata
}

func (r *GuestRequestResponse) FromModel(mod model.GuestRequest) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.SponsoringMemberID = mod.SponsoringMemberID
	r.GuestName = mod.GuestName
	r.GuestPhone = mod.GuestPhone
	r.SeatCount = mod.SeatCount
	r.Status = mod.Status
	r.ResolvedBy = mod.ResolvedBy
	r.ResolutionReason = mod.ResolutionReason
	r.Metadata.FromModel(mod.Metadata)
}

type GetGuestRequestsResponse struct {
	Requests  []GuestRequestResponse `json:"requests"`
	TotalPage int                    `json:"total_page"`
	TotalData int                    `json:"total_data"`
}

func (r *GetGuestRequestsResponse) FromModels(models []model.GuestRequest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]GuestRequestResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}
