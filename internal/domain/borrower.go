package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BorrowerStatusActive  = "active"
	BorrowerStatusPaidOff = "paid_off"
)

// Borrower represents a single loan and its payment history.
// Amount is the outstanding balance and never leaves [0, OriginalAmount].
type Borrower struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	Amount         decimal.Decimal `json:"amount"`
	Created        time.Time       `json:"created"`
	Payments       []Payment       `json:"payments"`
}

// IsPaidOff reports whether the outstanding balance has reached zero
func (b *Borrower) IsPaidOff() bool {
	return !b.Amount.IsPositive()
}

// Status returns the borrower's lifecycle state
func (b *Borrower) Status() string {
	if b.IsPaidOff() {
		return BorrowerStatusPaidOff
	}
	return BorrowerStatusActive
}

// TotalPaid sums every recorded payment, including any amount absorbed by the zero floor
func (b *Borrower) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Clone returns a deep copy so callers can never alias ledger state
func (b *Borrower) Clone() *Borrower {
	c := *b
	c.Payments = make([]Payment, len(b.Payments))
	copy(c.Payments, b.Payments)
	return &c
}

// BorrowerView is the presentation shape of a borrower
type BorrowerView struct {
	*Borrower
	Status    string          `json:"status"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// NewBorrowerView builds the presentation shape for b
func NewBorrowerView(b *Borrower) BorrowerView {
	return BorrowerView{
		Borrower:  b,
		Status:    b.Status(),
		TotalPaid: b.TotalPaid(),
	}
}
