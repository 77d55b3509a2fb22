package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"gatepass/infras/otel"
	"gatepass/infras/postgres"
	bookingModel "gatepass/internal/domains/booking/model"
	"gatepass/internal/domains/checkin/model"
	"gatepass/shared/constant"
	gDto "gatepass/shared/dto"
	"gatepass/shared/logger"
	gRepo "gatepass/shared/repository"

	"github.com/jmoiron/sqlx"
)

// ErrFullyRedeemed is returned when a scan finds no remaining admissible
// count to consume. The booking row is left untouched and no record is written.
var ErrFullyRedeemed = errors.New("booking is fully redeemed")

// ScanOutcome reports the effect of one recorded scan.
type ScanOutcome struct {
	AdmittedCount        int `db:"admitted_count"`
	QRScanCount          int `db:"qr_scan_count"`
	TotalAdmissibleCount int `db:"total_admissible_count"`
}

type CheckIn interface {
	RecordScan(ctx context.Context, record model.ScanRecord, requested int) (ScanOutcome, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ScanRecord, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.ScanRecord]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) CheckIn {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ScanRecord](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// RecordScan consumes up to `requested` units of the booking's remaining
// admissible count and appends the scan record, in one transaction. The
// booking row is locked for the duration of the update, so two concurrent
// scans can never both admit the last unit; the second either admits the
// clamped remainder or gets ErrFullyRedeemed.
func (repo *repositoryImpl) RecordScan(ctx context.Context, record model.ScanRecord, requested int) (outcome ScanOutcome, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".scan_record.RecordScan")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return outcome, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	committed := false

	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	query := `WITH current AS (
			SELECT qr_scan_count FROM bookings WHERE id = :booking_id FOR UPDATE
		)
		UPDATE bookings SET
			qr_scan_count = bookings.qr_scan_count + LEAST(:requested, bookings.total_admissible_count - bookings.qr_scan_count),
			modified_at = :scanned_at,
			modified_by = :scanned_by
		FROM current
		WHERE bookings.id = :booking_id AND bookings.qr_scan_count < bookings.total_admissible_count
		RETURNING bookings.qr_scan_count - current.qr_scan_count AS admitted_count,
			bookings.qr_scan_count,
			bookings.total_admissible_count`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, map[string]any{
		"booking_id": record.BookingID,
		"requested":  requested,
		"scanned_at": record.ScannedAt,
		"scanned_by": record.ScannedBy,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return outcome, fmt.Errorf("failed to consume admissible count (%s): %w", bookingModel.EntityName, err)
	}

	defer rows.Close()

	if !rows.Next() {
		return outcome, ErrFullyRedeemed
	}

	if err = rows.StructScan(&outcome); err != nil {
		logger.ErrorWithStack(err)

		return outcome, fmt.Errorf("failed to scan outcome (%s): %w", model.EntityName, err)
	}

	rows.Close()

	record.AdmittedCount = outcome.AdmittedCount

	if err = repo.InsertTx(ctx, tx, record); err != nil {
		return outcome, err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return outcome, fmt.Errorf("failed to commit scan (%s): %w", model.EntityName, err)
	}

	committed = true

	return outcome, nil
}
