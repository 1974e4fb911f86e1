package account

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
)

func TestInputNormalize(t *testing.T) {
	opening := decimal.NewFromInt(1500)

	t.Run("valid", func(t *testing.T) {
		in := Input{
			Name:           "  Ziraat Vadesiz ",
			Type:           enums.AccountTypeBank,
			Currency:       enums.CurrencyTL,
			OpeningBalance: &opening,
		}
		if err := in.normalize(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Name != "Ziraat Vadesiz" {
			t.Fatalf("expected trimmed name, got %q", in.Name)
		}
	})

	tests := []struct {
		name  string
		input Input
	}{
		{"empty name", Input{Name: " ", Type: enums.AccountTypeCash, Currency: enums.CurrencyTL}},
		{"bad type", Input{Name: "Kasa", Type: enums.AccountType("crypto"), Currency: enums.CurrencyTL}},
		{"bad currency", Input{Name: "Kasa", Type: enums.AccountTypeCash, Currency: enums.Currency("GBP")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.normalize()
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
