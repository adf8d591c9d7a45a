package validators

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/gamestore-storefront/pkg/errors"
)

type searchPayload struct {
	Search string `json:"search" validate:"max=10"`
}

type quantityPayload struct {
	Quantity *int `json:"quantity" validate:"required_without=Delta,omitempty,min=0"`
	Delta    *int `json:"delta" validate:"required_without=Quantity,omitempty,oneof=-1 1"`
}

func intPtr(v int) *int { return &v }

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"search":"zelda"}`))
	var payload searchPayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Search != "zelda" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFieldsAndInvalidValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"search":"a","extra":1}`))
	var payload searchPayload
	if err := DecodeJSONBody(req, &payload); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"search":"far too long term"}`))
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["search"] != "must be at most 10" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
}

func TestValidateStructQuantityRules(t *testing.T) {
	if err := ValidateStruct(&quantityPayload{Quantity: intPtr(0)}); err != nil {
		t.Fatalf("quantity 0 should be accepted: %v", err)
	}
	if err := ValidateStruct(&quantityPayload{Delta: intPtr(-1)}); err != nil {
		t.Fatalf("delta -1 should be accepted: %v", err)
	}
	if err := ValidateStruct(&quantityPayload{Delta: intPtr(2)}); err == nil {
		t.Fatalf("delta 2 should be rejected")
	}
	if err := ValidateStruct(&quantityPayload{}); err == nil {
		t.Fatalf("missing quantity and delta should be rejected")
	}
}

func TestFormHelpers(t *testing.T) {
	form := url.Values{"search": {"  mario kart  "}, "quantity": {"3"}, "delta": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/filters", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if got := FormString(req, "search", 5); got != "mario" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
	quantity, err := FormInt(req, "quantity")
	if err != nil || quantity == nil || *quantity != 3 {
		t.Fatalf("unexpected quantity %v, %v", quantity, err)
	}
	missing, err := FormInt(req, "absent")
	if err != nil || missing != nil {
		t.Fatalf("missing value should be nil, got %v, %v", missing, err)
	}
	if _, err := FormInt(req, "delta"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("unexpected value %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestSanitizeStringKeepsRunesIntact(t *testing.T) {
	if got := SanitizeString("Jeux Vidéo", 8); got != "Jeux Vid" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := SanitizeString("éééé", 2); got != "éé" {
		t.Fatalf("unexpected rune truncation %q", got)
	}
}
