package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	otelMocks "gatepass/infras/otel/mocks"
	"gatepass/infras/postgres"
	"gatepass/internal/domains/booking/model"
	"gatepass/internal/domains/booking/repository"
	"gatepass/shared/timezone"
)

const testBookingID = "22222222-2222-4222-8222-222222222222"

func newBookingRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
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

func TestBookingRepository_ConfirmPayment(t *testing.T) {
	repo, mock := newBookingRepository(t)

	mock.ExpectExec(`UPDATE bookings SET payment_status = \$\d+, payment_ref = \$\d+, failure_reason = '', modified_at = \$\d+ WHERE id = \$\d+ AND payment_status = \$\d+ AND approval_status <> \$\d+`).
		WithArgs(model.PaymentStatusCompleted, "UTR-001", sqlmock.AnyArg(), testBookingID, model.PaymentStatusPending, model.ApprovalStatusRejected).
		WillReturnResult(sqlmock.NewResult(0, 1))

	confirmed, err := repo.ConfirmPayment(context.Background(), testBookingID, "UTR-001", timezone.Now())

	assert.NoError(t, err)
	assert.True(t, confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The update's WHERE clause is the whole concurrency story: a booking that is
// not pending, or whose guest request was rejected, matches no row.
func TestBookingRepository_ConfirmPayment_NoQualifyingRow(t *testing.T) {
	repo, mock := newBookingRepository(t)

	mock.ExpectExec(`UPDATE bookings SET payment_status = .* WHERE id = \$\d+ AND payment_status = \$\d+ AND approval_status <> \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	confirmed, err := repo.ConfirmPayment(context.Background(), testBookingID, "UTR-001", timezone.Now())

	assert.NoError(t, err)
	assert.False(t, confirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_FailPayment_OnlyFromPending(t *testing.T) {
	repo, mock := newBookingRepository(t)

	mock.ExpectExec(`UPDATE bookings SET payment_status = \$\d+, failure_reason = \$\d+, modified_at = \$\d+ WHERE id = \$\d+ AND payment_status = \$\d+`).
		WithArgs(model.PaymentStatusFailed, "card declined", sqlmock.AnyArg(), testBookingID, model.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	failed, err := repo.FailPayment(context.Background(), testBookingID, "card declined", timezone.Now())

	assert.NoError(t, err)
	assert.False(t, failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_RetryPayment_OnlyAfterFailure(t *testing.T) {
	repo, mock := newBookingRepository(t)

	mock.ExpectExec(`UPDATE bookings SET payment_status = \$\d+, failure_reason = '', modified_at = \$\d+ WHERE id = \$\d+ AND payment_status = \$\d+`).
		WithArgs(model.PaymentStatusPending, sqlmock.AnyArg(), testBookingID, model.PaymentStatusFailed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	retried, err := repo.RetryPayment(context.Background(), testBookingID, timezone.Now())

	assert.NoError(t, err)
	assert.True(t, retried)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_AssignQRCode(t *testing.T) {
	repo, mock := newBookingRepository(t)

	mock.ExpectExec(`UPDATE bookings SET qr_code = \$\d+, modified_at = \$\d+ WHERE id = \$\d+ AND qr_code = ''`).
		WithArgs("signed-token", sqlmock.AnyArg(), testBookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assigned, err := repo.AssignQRCode(context.Background(), testBookingID, "signed-token", timezone.Now())

	assert.NoError(t, err)
	assert.True(t, assigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The empty-token guard makes issuance first-write-wins; a second writer
// touches no row and reports false instead of replacing the stable token.
func TestBookingRepository_AssignQRCode_AlreadyAssigned(t *testing.T) {
	repo, mock := newBookingRepository(t)

	mock.ExpectExec(`UPDATE bookings SET qr_code = .* WHERE id = \$\d+ AND qr_code = ''`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assigned, err := repo.AssignQRCode(context.Background(), testBookingID, "second-token", timezone.Now())

	assert.NoError(t, err)
	assert.False(t, assigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
