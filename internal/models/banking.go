package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction and invoice statuses.
const (
	StatusBooked  = "booked"
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Company is the demo business a user operates. Each user owns exactly one,
// synthesized on first access.
type Company struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	OrgNumber string    `json:"org_number"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is a demo bank account belonging to a company.
type Account struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	Number    string          `json:"number"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is a single ledger entry on an account. Amount is signed:
// negative for outgoing payments.
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	Counterparty string          `json:"counterparty,omitempty"`
}

// Invoice is an outgoing invoice payment created from the dashboard.
type Invoice struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	AccountID string          `json:"account_id"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	DueDate   time.Time       `json:"due_date"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
