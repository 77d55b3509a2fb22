package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"gatepass/infras/otel"
	"gatepass/infras/postgres"
	bookingModel "gatepass/internal/domains/booking/model"
	"gatepass/internal/domains/guestrequest/model"
	"gatepass/shared/constant"
	gDto "gatepass/shared/dto"
	"gatepass/shared/logger"
	gRepo "gatepass/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type GuestRequest interface {
	Insert(ctx context.Context, model model.GuestRequest) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.GuestRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.GuestRequest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.GuestRequest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Resolve(ctx context.Context, requestID, bookingID, status, resolvedBy, reason string, now time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.GuestRequest]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) GuestRequest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.GuestRequest](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Resolve moves a pending request to its terminal status and mirrors the
// outcome onto the linked booking's approval_status in one transaction.
// Both conditional updates must hit a pending row; otherwise nothing is
// mutated and false is returned, so double-approval and approve-after-reject
// surface as conflicts at the service layer.
func (repo *repositoryImpl) Resolve(ctx context.Context, requestID, bookingID, status, resolvedBy, reason string, now time.Time) (resolved bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".guest_request.Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil || !resolved {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	requestQuery := `UPDATE guest_requests
		SET status = :status, resolved_by = :resolved_by, resolution_reason = :reason, modified_at = :now, modified_by = :resolved_by
		WHERE id = :request_id AND status = :pending`

	result, err := tx.NamedExecContext(ctx, requestQuery, map[string]any{
		"status":      status,
		"resolved_by": resolvedBy,
		"reason":      reason,
		"now":         now,
		"request_id":  requestID,
		"pending":     model.StatusPending,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to resolve guest request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
	}

	if affected == 0 {
		return false, nil
	}

	bookingQuery := `UPDATE bookings
		SET approval_status = :status, modified_at = :now, modified_by = :resolved_by
		WHERE id = :booking_id AND approval_status = :pending`

	result, err = tx.NamedExecContext(ctx, bookingQuery, map[string]any{
		"status":      status,
		"now":         now,
		"resolved_by": resolvedBy,
		"booking_id":  bookingID,
		"pending":     bookingModel.ApprovalStatusPending,
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to update booking approval: %w", err)
	}

	affected, err = result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows (%s): %w", bookingModel.EntityName, err)
	}

	if affected == 0 {
		return false, nil
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to commit guest request resolution: %w", err)
	}

	return true, nil
}
