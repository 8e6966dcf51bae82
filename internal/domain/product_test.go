package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewProductValidation(t *testing.T) {
	tests := []struct {
		name        string
		pName, desc string
		price       string
		weight      string
		wantMsg     string
		required    bool
	}{
		{"missing name", "  ", "d", "1", "1", "Name is required", true},
		{"missing description", "n", "", "1", "1", "Description is required", true},
		{"negative price", "n", "d", "-0.01", "1", "Price cannot be negative", false},
		{"price over limit", "n", "d", "10000.01", "1", "Price cannot exceed $10000", false},
		{"negative weight", "n", "d", "1", "-1", "Weight cannot be negative", false},
		{"weight over limit", "n", "d", "1", "80.5", "Weight cannot exceed 80kg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.pName, tt.desc, dec(tt.price), dec(tt.weight))
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
			if !errors.Is(err, ErrInvalidProduct) {
				t.Error("error should match ErrInvalidProduct")
			}

			var reqErr *RequiredFieldError
			var valErr *ValidationError
			if tt.required && !errors.As(err, &reqErr) {
				t.Errorf("expected RequiredFieldError, got %T", err)
			}
			if !tt.required && !errors.As(err, &valErr) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestNewProductAcceptsBounds(t *testing.T) {
	p, err := NewProduct("Anvil", "Heavy", dec("10000"), dec("80"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() == "" {
		t.Error("expected generated ID")
	}

	free, err := NewProduct("Feather", "Light", decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("zero price and weight should be valid: %v", err)
	}
	if free.ID() == p.ID() {
		t.Error("IDs should be unique")
	}
}

func TestRestoreProductKeepsID(t *testing.T) {
	p, err := RestoreProduct("abc", "n", "d", dec("1.50"), dec("2"))
	if err != nil {
		t.Fatal(err)
	}
	if p.ID() != "abc" {
		t.Errorf("ID = %q", p.ID())
	}

	q, _ := RestoreProduct("abc", "n", "d", dec("1.5"), dec("2.000"))
	if !p.Equal(q) {
		t.Error("products differing only in decimal scale should be equal")
	}

	if _, err := RestoreProduct("", "n", "d", dec("1"), dec("1")); !errors.Is(err, ErrInvalidProduct) {
		t.Errorf("empty ID should be rejected, got %v", err)
	}
}

func TestFieldValue(t *testing.T) {
	p, _ := RestoreProduct("id", "Name", "Desc", dec("3"), dec("4"))

	if v, ok := p.FieldValue(FieldName); !ok || v.Text() != "Name" {
		t.Errorf("name = %v %v", v, ok)
	}
	if v, ok := p.FieldValue(FieldWeight); !ok || !v.Decimal().Equal(dec("4")) {
		t.Errorf("weight = %v %v", v, ok)
	}
	if _, ok := p.FieldValue("colour"); ok {
		t.Error("unknown field should not resolve")
	}
}
