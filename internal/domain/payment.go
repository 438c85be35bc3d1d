package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an immutable record of money credited toward a loan
type Payment struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// PaymentPrompt is an open request for the user to enter a payment amount
type PaymentPrompt struct {
	Token      string    `json:"token"`
	BorrowerID int64     `json:"borrower_id"`
	Borrower   string    `json:"borrower_name"`
	Balance    string    `json:"balance"`
	OpenedAt   time.Time `json:"opened_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the prompt can no longer be submitted at now
func (p *PaymentPrompt) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
