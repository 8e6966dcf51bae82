package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestPagedResultDerivedFields(t *testing.T) {
	tests := []struct {
		name             string
		page, size       int
		total            int64
		pages            int
		hasPrev, hasNext bool
	}{
		{"empty store", 1, 10, 0, 0, false, false},
		{"middle page", 2, 5, 15, 3, true, true},
		{"last page", 3, 5, 15, 3, true, false},
		{"partial last page", 1, 10, 11, 2, false, true},
		{"exact fit", 1, 10, 10, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagedResult[int](nil, tt.page, tt.size, tt.total)
			if p.TotalPages() != tt.pages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages(), tt.pages)
			}
			if p.HasPreviousPage() != tt.hasPrev {
				t.Errorf("HasPreviousPage = %v", p.HasPreviousPage())
			}
			if p.HasNextPage() != tt.hasNext {
				t.Errorf("HasNextPage = %v", p.HasNextPage())
			}
		})
	}
}

func TestPagedResultJSON(t *testing.T) {
	p := NewPagedResult([]string{"a"}, 2, 5, 15)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	body := string(b)
	for _, want := range []string{`"items":["a"]`, `"totalPages":3`, `"hasPreviousPage":true`, `"hasNextPage":true`, `"totalCount":15`} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %s in %s", want, body)
		}
	}

	empty, _ := json.Marshal(NewPagedResult[string](nil, 1, 10, 0))
	if !strings.Contains(string(empty), `"items":[]`) {
		t.Errorf("nil items should encode as empty array: %s", empty)
	}
}

func TestPageRequestValidate(t *testing.T) {
	if err := DefaultPageRequest().Validate(); err != nil {
		t.Fatalf("default request invalid: %v", err)
	}
	bad := []PageRequest{{0, 10}, {1, 0}, {1, 101}}
	for _, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidPage) {
			t.Errorf("%+v: expected ErrInvalidPage, got %v", r, err)
		}
	}
}
