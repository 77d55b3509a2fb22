package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"gatepass/infras/otel"
	"gatepass/infras/postgres"
	"gatepass/internal/domains/booking/model"
	"gatepass/shared/constant"
	gDto "gatepass/shared/dto"
	"gatepass/shared/logger"
	gRepo "gatepass/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	ConfirmPayment(ctx context.Context, id, paymentRef string, now time.Time) (bool, error)
	FailPayment(ctx context.Context, id, reason string, now time.Time) (bool, error)
	RetryPayment(ctx context.Context, id string, now time.Time) (bool, error)
	AssignQRCode(ctx context.Context, id, token string, now time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	return tx, nil
}

// ConfirmPayment marks a pending payment completed in a single conditional
// update. The approval_status guard closes the reject-vs-pay race: once a
// guest request is rejected, no payment confirmation can slip the booking
// into an admissible state. Returns false when no row qualified.
func (repo *repositoryImpl) ConfirmPayment(ctx context.Context, id, paymentRef string, now time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ConfirmPayment")
	defer scope.End()

	query := `UPDATE bookings
		SET payment_status = :completed, payment_ref = :payment_ref, failure_reason = '', modified_at = :now
		WHERE id = :id AND payment_status = :pending AND approval_status <> :rejected`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return repo.conditionalUpdate(ctx, query, map[string]any{
		"id":          id,
		"payment_ref": paymentRef,
		"now":         now,
		"completed":   model.PaymentStatusCompleted,
		"pending":     model.PaymentStatusPending,
		"rejected":    model.ApprovalStatusRejected,
	})
}

// FailPayment records a terminal gateway outcome for the current attempt.
// The booking stays re-payable via RetryPayment.
func (repo *repositoryImpl) FailPayment(ctx context.Context, id, reason string, now time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FailPayment")
	defer scope.End()

	query := `UPDATE bookings
		SET payment_status = :failed, failure_reason = :reason, modified_at = :now
		WHERE id = :id AND payment_status = :pending`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return repo.conditionalUpdate(ctx, query, map[string]any{
		"id":      id,
		"reason":  reason,
		"now":     now,
		"failed":  model.PaymentStatusFailed,
		"pending": model.PaymentStatusPending,
	})
}

// RetryPayment re-enters pending after a failed attempt.
func (repo *repositoryImpl) RetryPayment(ctx context.Context, id string, now time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.RetryPayment")
	defer scope.End()

	query := `UPDATE bookings
		SET payment_status = :pending, failure_reason = '', modified_at = :now
		WHERE id = :id AND payment_status = :failed`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return repo.conditionalUpdate(ctx, query, map[string]any{
		"id":      id,
		"now":     now,
		"pending": model.PaymentStatusPending,
		"failed":  model.PaymentStatusFailed,
	})
}

// AssignQRCode stores the issued token, but only if none was stored before.
// Concurrent issuers race on this update; exactly one wins, so a booking
// carries one stable token for its lifetime.
func (repo *repositoryImpl) AssignQRCode(ctx context.Context, id, token string, now time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.AssignQRCode")
	defer scope.End()

	query := `UPDATE bookings
		SET qr_code = :token, modified_at = :now
		WHERE id = :id AND qr_code = ''`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return repo.conditionalUpdate(ctx, query, map[string]any{
		"id":    id,
		"token": token,
		"now":   now,
	})
}

func (repo *repositoryImpl) conditionalUpdate(ctx context.Context, query string, args map[string]any) (bool, error) {
	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
	}

	return affected > 0, nil
}
