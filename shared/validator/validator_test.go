package validator_test

import (
	"gatepass/shared/failure"
	"gatepass/shared/validator"
	"strings"
	"testing"
)

type scanPayload struct {
	QRToken             string `validate:"required"              json:"qr_token"`
	RequestedAdmitCount int    `validate:"omitempty,min=1,max=100" json:"requested_admit_count"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid payload",
			body:        `{"qr_token":"abc","requested_admit_count":2}`,
			expectError: false,
		},
		{
			name:        "valid payload without optional field",
			body:        `{"qr_token":"abc"}`,
			expectError: false,
		},
		{
			name:        "missing required field",
			body:        `{"requested_admit_count":2}`,
			expectError: true,
		},
		{
			name:        "count below minimum",
			body:        `{"qr_token":"abc","requested_admit_count":0}`,
			expectError: false, // zero is the omitted value
		},
		{
			name:        "count above maximum",
			body:        `{"qr_token":"abc","requested_admit_count":500}`,
			expectError: true,
		},
		{
			name:        "malformed json",
			body:        `{"qr_token":`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload scanPayload

			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.expectError && err != nil && failure.GetCode(err) != 400 {
				t.Errorf("expected code 400, got %d", failure.GetCode(err))
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	valid := scanPayload{QRToken: "abc", RequestedAdmitCount: 1}
	if err := validator.ValidateStruct(&valid); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	invalid := scanPayload{}
	if err := validator.ValidateStruct(&invalid); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("550e8400-e29b-41d4-a716-446655440000", "uuid4"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := validator.ValidateVar("not-a-uuid", "uuid4"); err == nil {
		t.Error("expected error, got nil")
	}
}
