package memory

import (
	"context"
	"testing"

	"monetto/internal/core"
)

func TestAppendAndRows(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, core.Transaction{ID: 1, Name: "salary", Category: "Finance", Amount: 100, IsIncome: true})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("row ref = %q, want mem:1", ref)
	}

	rows := s.Rows()
	if len(rows) != 1 || rows[0].Name != "salary" {
		t.Errorf("rows = %+v, want the appended transaction", rows)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.Transaction{Name: "", Category: "Food", Amount: 1}); err == nil {
		t.Error("expected validation error for blank name")
	}
	if len(s.Rows()) != 0 {
		t.Error("invalid transaction must not be stored")
	}
}
