package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTransaction(t *testing.T) {
	tx := NewTransaction("Electricity Bill", decimal.NewFromFloat(120.00), StatusPaid)

	if tx.ID == "" {
		t.Error("Expected generated ID")
	}
	if tx.Date.IsZero() {
		t.Error("Expected date to be set")
	}
	if tx.Description != "Electricity Bill" {
		t.Errorf("Unexpected description %q", tx.Description)
	}
	if tx.Status != StatusPaid {
		t.Errorf("Unexpected status %s", tx.Status)
	}

	other := NewTransaction("Grocery", decimal.NewFromFloat(85.50), StatusPending)
	if tx.ID == other.ID {
		t.Error("Expected unique IDs")
	}
}

func TestTransaction_IsDebit(t *testing.T) {
	tests := []struct {
		name string
		typ  TransactionType
		want bool
	}{
		{"debit", TypeDebit, true},
		{"credit", TypeCredit, false},
		{"unset", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{Type: tt.typ}
			if got := tx.IsDebit(); got != tt.want {
				t.Errorf("IsDebit() = %v, want %v", got, tt.want)
			}
		})
	}
}
