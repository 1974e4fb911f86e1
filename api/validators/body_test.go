package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
)

type samplePayload struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Currency string `json:"currency" validate:"omitempty,oneof=EUR USD TL"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":"Cement","quantity":"3","currency":"TL"}`))
	var dest samplePayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Name != "Cement" {
		t.Fatalf("name = %q", dest.Name)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":"Cement","quantity":"3","extra":true}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDecodeJSONBodyCollectsFieldErrors(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader(`{"currency":"GBP"}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	details, ok := coded.Details().(map[string]string)
	if !ok {
		t.Fatalf("details type %T", coded.Details())
	}
	for _, field := range []string{"name", "quantity", "currency"} {
		if _, present := details[field]; !present {
			t.Errorf("missing detail for field %q: %v", field, details)
		}
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?limit=10", nil)
	got, err := ParseQueryInt(r, "limit", 25, 1, 100)
	if err != nil || got != 10 {
		t.Fatalf("got %d, %v", got, err)
	}

	r = httptest.NewRequest("GET", "/x", nil)
	got, err = ParseQueryInt(r, "limit", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("default: got %d, %v", got, err)
	}

	r = httptest.NewRequest("GET", "/x?limit=999", nil)
	if _, err := ParseQueryInt(r, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected out-of-range error")
	}

	r = httptest.NewRequest("GET", "/x?limit=abc", nil)
	if _, err := ParseQueryInt(r, "limit", 25, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
}
