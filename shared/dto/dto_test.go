package dto_test

import (
	"gatepass/shared/dto"
	"reflect"
	"testing"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name         string
		filter       dto.Filter
		expectedSQL  string
		expectedArgs map[string]any
	}{
		{
			name: "eq operator",
			filter: dto.Filter{
				Field:    "event_id",
				Value:    "abc",
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
			expectedSQL:  "bookings.event_id = :event_id",
			expectedArgs: map[string]any{"event_id": "abc"},
		},
		{
			name: "eq operator without table",
			filter: dto.Filter{
				Field:    "status",
				Value:    "pending",
				Operator: dto.FilterOperatorEq,
			},
			expectedSQL:  "status = :status",
			expectedArgs: map[string]any{"status": "pending"},
		},
		{
			name: "not_eq operator",
			filter: dto.Filter{
				Field:    "payment_status",
				Value:    "failed",
				Operator: dto.FilterOperatorNotEq,
				Table:    "bookings",
			},
			expectedSQL:  "bookings.payment_status != :payment_status",
			expectedArgs: map[string]any{"payment_status": "failed"},
		},
		{
			name: "greater_eq with custom arg name",
			filter: dto.Filter{
				ArgName:  "created_from",
				Field:    "created_at",
				Value:    "2026-01-01",
				Operator: dto.FilterOperatorGreaterEq,
				Table:    "bookings",
			},
			expectedSQL:  "bookings.created_at >= :created_from",
			expectedArgs: map[string]any{"created_from": "2026-01-01"},
		},
		{
			name: "less_eq with custom arg name",
			filter: dto.Filter{
				ArgName:  "created_until",
				Field:    "created_at",
				Value:    "2026-12-31",
				Operator: dto.FilterOperatorLessEq,
				Table:    "bookings",
			},
			expectedSQL:  "bookings.created_at <= :created_until",
			expectedArgs: map[string]any{"created_until": "2026-12-31"},
		},
		{
			name: "in operator with slice",
			filter: dto.Filter{
				Field:    "status",
				Value:    []string{"approved", "rejected"},
				Operator: dto.FilterOperatorIn,
			},
			expectedSQL: "status IN (:status_0, :status_1) ",
			expectedArgs: map[string]any{
				"status_0": "approved",
				"status_1": "rejected",
			},
		},
		{
			name: "is_not_null operator",
			filter: dto.Filter{
				Field:    "qr_code",
				Operator: dto.FilterIsNotNull,
			},
			expectedSQL:  "qr_code IS NOT NULL",
			expectedArgs: map[string]any{},
		},
		{
			name: "unknown operator",
			filter: dto.Filter{
				Field:    "status",
				Operator: "bogus",
			},
			expectedSQL:  "",
			expectedArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.filter.GetWhereClause()

			if sql != tt.expectedSQL {
				t.Errorf("expected clause %q, got %q", tt.expectedSQL, sql)
			}

			if !reflect.DeepEqual(args, tt.expectedArgs) {
				t.Errorf("expected args %+v, got %+v", tt.expectedArgs, args)
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "event_id",
				Value:    "abc",
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
			dto.Filter{
				ArgName:  "created_from",
				Field:    "created_at",
				Value:    "2026-01-01",
				Operator: dto.FilterOperatorGreaterEq,
				Table:    "bookings",
			},
			dto.Filter{
				ArgName:  "created_until",
				Field:    "created_at",
				Value:    "2026-12-31",
				Operator: dto.FilterOperatorLessEq,
				Table:    "bookings",
			},
		},
	}

	sql, args := group.GetWhereClause()

	expectedSQL := "(bookings.event_id = :event_id AND bookings.created_at >= :created_from AND bookings.created_at <= :created_until)"
	if sql != expectedSQL {
		t.Errorf("expected clause %q, got %q", expectedSQL, sql)
	}

	expectedArgs := map[string]any{
		"event_id":      "abc",
		"created_from":  "2026-01-01",
		"created_until": "2026-12-31",
	}
	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("expected args %+v, got %+v", expectedArgs, args)
	}
}

func TestFilterGroup_GetWhereClause_Empty(t *testing.T) {
	group := dto.FilterGroup{}

	sql, args := group.GetWhereClause()

	if sql != "" {
		t.Errorf("expected empty clause, got %q", sql)
	}

	if len(args) != 0 {
		t.Errorf("expected no args, got %+v", args)
	}
}

func TestFilterGroup_GetWhereClause_Nested(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    "member_id",
				Value:    "m-1",
				Operator: dto.FilterOperatorEq,
			},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{
						Field:    "payment_status",
						Value:    "pending",
						Operator: dto.FilterOperatorEq,
					},
					dto.Filter{
						ArgName:  "payment_status_alt",
						Field:    "payment_status",
						Value:    "failed",
						Operator: dto.FilterOperatorEq,
					},
				},
			},
		},
	}

	sql, args := group.GetWhereClause()

	expectedSQL := "(member_id = :member_id AND (payment_status = :payment_status OR payment_status = :payment_status_alt))"
	if sql != expectedSQL {
		t.Errorf("expected clause %q, got %q", expectedSQL, sql)
	}

	if len(args) != 3 {
		t.Errorf("expected 3 args, got %+v", args)
	}
}
