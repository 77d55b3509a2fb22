package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"gatepass/infras/otel"
	"gatepass/infras/postgres"
	"gatepass/internal/domains/pricing/model"
	gDto "gatepass/shared/dto"
	gRepo "gatepass/shared/repository"
)

type Pricing interface {
	GetEventPrice(ctx context.Context, eventID string) (model.EventPrice, error)
	GetDiscountCode(ctx context.Context, code, eventID string) (model.DiscountCode, error)
}

type repositoryImpl struct {
	prices gRepo.Repository[model.EventPrice]
	codes  gRepo.Repository[model.DiscountCode]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Pricing {
	return &repositoryImpl{
		prices: gRepo.NewRepository[model.EventPrice](model.PriceEntityName, model.PriceTableName, model.FieldEventID, db, otel),
		codes:  gRepo.NewRepository[model.DiscountCode](model.CodeEntityName, model.CodeTableName, model.FieldCode, db, otel),
		db:     db,
		otel:   otel,
	}
}

func (repo *repositoryImpl) GetEventPrice(ctx context.Context, eventID string) (model.EventPrice, error) {
	return repo.prices.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEventID,
				Value:    eventID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.PriceTableName,
			},
		},
	})
}

func (repo *repositoryImpl) GetDiscountCode(ctx context.Context, code, eventID string) (model.DiscountCode, error) {
	return repo.codes.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Value:    code,
				Operator: gDto.FilterOperatorEq,
				Table:    model.CodeTableName,
			},
			gDto.Filter{
				Field:    model.FieldEventID,
				Value:    eventID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.CodeTableName,
			},
		},
	})
}
