package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the settlement state of a transaction
type TransactionStatus string

const (
	StatusPaid     TransactionStatus = "Paid"
	StatusPending  TransactionStatus = "Pending"
	StatusReceived TransactionStatus = "Received"
	StatusFailed   TransactionStatus = "Failed"
)

// TransactionType distinguishes money leaving from money entering the wallet
type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// Transaction categories
const (
	CategoryUtilities     = "Utilities"
	CategoryShopping      = "Shopping"
	CategoryIncome        = "Income"
	CategoryEntertainment = "Entertainment"
	CategoryRecharge      = "Recharge"
	CategoryQRPayment     = "QR Payment"
	CategoryWallet        = "Wallet"
)

// Payment methods
const (
	MethodWallet       = "Wallet"
	MethodUPI          = "UPI"
	MethodBankTransfer = "Bank Transfer"
	MethodCreditCard   = "Credit Card"
)

// Transaction is a single entry in the wallet ledger. Entries are
// append-only: once recorded they are never mutated or removed.
type Transaction struct {
	ID            string            `json:"id"`
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	Amount        decimal.Decimal   `json:"amount"` // always non-negative; direction lives in Type
	Status        TransactionStatus `json:"status"`
	Category      string            `json:"category,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Type          TransactionType   `json:"type,omitempty"`
}

// NewTransaction creates a transaction with a generated ID and the current time
func NewTransaction(description string, amount decimal.Decimal, status TransactionStatus) Transaction {
	return Transaction{
		ID:          uuid.New().String(),
		Date:        time.Now().UTC(),
		Description: description,
		Amount:      amount,
		Status:      status,
	}
}

// IsDebit reports whether the transaction took money out of the wallet
func (t Transaction) IsDebit() bool {
	return t.Type == TypeDebit
}

// TransactionSummary aggregates settled ledger activity
type TransactionSummary struct {
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalReceived decimal.Decimal `json:"total_received"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}
