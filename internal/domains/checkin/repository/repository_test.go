package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	otelMocks "gatepass/infras/otel/mocks"
	"gatepass/infras/postgres"
	"gatepass/internal/domains/checkin/model"
	"gatepass/internal/domains/checkin/repository"
	"gatepass/shared/timezone"
)

const (
	testBookingID = "22222222-2222-4222-8222-222222222222"
	testScannerID = "44444444-4444-4444-8444-444444444444"
)

// The consume update must lock the booking row, clamp the requested count to
// what remains, and match no row once the count is exhausted.
const consumePattern = `SELECT qr_scan_count FROM bookings WHERE id = \$\d+ FOR UPDATE.*` +
	`LEAST\(\$\d+, bookings\.total_admissible_count - bookings\.qr_scan_count\).*` +
	`bookings\.qr_scan_count < bookings\.total_admissible_count`

func newCheckInRepository(t *testing.T) (repository.CheckIn, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	sdb := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sdb, Write: sdb}

	return repository.New(conn, otelMocks.NewOtel()), mock
}

func scanRecord() model.ScanRecord {
	return model.ScanRecord{
		ID:        "66666666-6666-4666-8666-666666666666",
		BookingID: testBookingID,
		ScannedBy: testScannerID,
		ScannedAt: timezone.Now(),
	}
}

func TestCheckInRepository_RecordScan(t *testing.T) {
	repo, mock := newCheckInRepository(t)
	record := scanRecord()

	mock.ExpectBegin()
	mock.ExpectQuery(consumePattern).
		WillReturnRows(sqlmock.NewRows([]string{"admitted_count", "qr_scan_count", "total_admissible_count"}).
			AddRow(2, 2, 4))
	mock.ExpectExec(`INSERT INTO scan_records \(id, booking_id, scanned_by, admitted_count, scanned_at\)`).
		WithArgs(record.ID, testBookingID, testScannerID, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	outcome, err := repo.RecordScan(context.Background(), record, 2)

	assert.NoError(t, err)
	assert.Equal(t, 2, outcome.AdmittedCount)
	assert.Equal(t, 2, outcome.QRScanCount)
	assert.Equal(t, 4, outcome.TotalAdmissibleCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The update's RETURNING row carries the clamped admitted count; the appended
// record stores that clamped value, not the requested one.
func TestCheckInRepository_RecordScan_ClampedAdmit(t *testing.T) {
	repo, mock := newCheckInRepository(t)
	record := scanRecord()

	mock.ExpectBegin()
	mock.ExpectQuery(consumePattern).
		WillReturnRows(sqlmock.NewRows([]string{"admitted_count", "qr_scan_count", "total_admissible_count"}).
			AddRow(1, 4, 4))
	mock.ExpectExec(`INSERT INTO scan_records`).
		WithArgs(record.ID, testBookingID, testScannerID, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	outcome, err := repo.RecordScan(context.Background(), record, 3)

	assert.NoError(t, err)
	assert.Equal(t, 1, outcome.AdmittedCount)
	assert.Equal(t, 0, outcome.TotalAdmissibleCount-outcome.QRScanCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Zero returned rows means the count was already exhausted: the transaction
// rolls back, nothing is appended, and the caller gets ErrFullyRedeemed.
func TestCheckInRepository_RecordScan_FullyRedeemed(t *testing.T) {
	repo, mock := newCheckInRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(consumePattern).
		WillReturnRows(sqlmock.NewRows([]string{"admitted_count", "qr_scan_count", "total_admissible_count"}))
	mock.ExpectRollback()

	_, err := repo.RecordScan(context.Background(), scanRecord(), 1)

	assert.ErrorIs(t, err, repository.ErrFullyRedeemed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
