package enums

import "testing"

func TestParseUnit(t *testing.T) {
	for _, value := range []string{"KG", "Metre", "m²", "Adet"} {
		unit, err := ParseUnit(value)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", value, err)
		}
		if !unit.IsValid() {
			t.Fatalf("parsed unit %q should be valid", value)
		}
	}

	if _, err := ParseUnit("litre"); err == nil {
		t.Fatal("expected error for unknown unit")
	}
}

func TestQuoteStatusTransitions(t *testing.T) {
	tests := []struct {
		from    QuoteStatus
		to      QuoteStatus
		allowed bool
	}{
		{QuoteStatusDraft, QuoteStatusPending, true},
		{QuoteStatusPending, QuoteStatusApproved, true},
		{QuoteStatusPending, QuoteStatusRejected, true},
		{QuoteStatusPending, QuoteStatusExpired, true},
		{QuoteStatusApproved, QuoteStatusPending, false},
		{QuoteStatusRejected, QuoteStatusApproved, false},
		{QuoteStatusDraft, QuoteStatusApproved, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected %v got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}
