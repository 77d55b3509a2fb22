package model

import (
	"time"
)

const (
	TableName  = "scan_records"
	EntityName = "scan_record"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldScannedAt = "scanned_at"
)

// ScanRecord is one successful admission at the gate. Records are append-only;
// the sum of AdmittedCount over a booking's records equals the booking's
// qr_scan_count and never exceeds its total admissible count.
type ScanRecord struct {
	ID            string    `db:"id"`
	BookingID     string    `db:"booking_id"`
	ScannedBy     string    `db:"scanned_by"`
	AdmittedCount int       `db:"admitted_count"`
	ScannedAt     time.Time `db:"scanned_at"`
}
