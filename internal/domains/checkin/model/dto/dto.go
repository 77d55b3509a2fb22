package dto

import (
	"gatepass/internal/domains/checkin/model"
	"gatepass/shared/constant"
	"gatepass/shared/timezone"
)

type ScanRequest struct {
	QRToken string `json:"qr_token" validate:"required"`
	// RequestedAdmitCount defaults to one person per scan.
	RequestedAdmitCount int `json:"requested_admit_count" validate:"omitempty,min=1,max=100"`
}

type ScanResponse struct {
	BookingID      string `json:"booking_id"`
	AdmittedCount  int    `json:"admitted_count"`
	RemainingScans int    `json:"remaining_scans"`
}

type ScanRecordResponse struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	ScannedBy     string `json:"scanned_by"`
	AdmittedCount int    `json:"admitted_count"`
	ScannedAt     string `json:"scanned_at"`
}

func (r *ScanRecordResponse) FromModel(mod model.ScanRecord) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.ScannedBy = mod.ScannedBy
	r.AdmittedCount = mod.AdmittedCount
	r.ScannedAt = timezone.Format(mod.ScannedAt, constant.DateFormat)
}

type GetScanRecordsResponse struct {
	Records []ScanRecordResponse `json:"records"`
}

func (r *GetScanRecordsResponse) FromModels(models []model.ScanRecord) {
	r.Records = make([]ScanRecordResponse, len(models))
	for i, mod := range models {
		r.Records[i].FromModel(mod)
	}
}
