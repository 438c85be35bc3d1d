package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBorrower_Status(t *testing.T) {
	b := &Borrower{OriginalAmount: decimal.NewFromInt(100), Amount: decimal.NewFromInt(1)}
	assert.False(t, b.IsPaidOff())
	assert.Equal(t, BorrowerStatusActive, b.Status())

	b.Amount = decimal.Zero
	assert.True(t, b.IsPaidOff())
	assert.Equal(t, BorrowerStatusPaidOff, b.Status())
}

func TestBorrower_CloneDoesNotAlias(t *testing.T) {
	b := &Borrower{
		ID:       1,
		Name:     "Alice",
		Amount:   decimal.NewFromInt(60),
		Payments: []Payment{{ID: 2, Amount: decimal.NewFromInt(40)}},
	}

	c := b.Clone()
	c.Payments[0].Amount = decimal.NewFromInt(1)
	c.Payments = append(c.Payments, Payment{ID: 3, Amount: decimal.NewFromInt(5)})
	c.Name = "Mallory"

	assert.Len(t, b.Payments, 1)
	assert.True(t, b.Payments[0].Amount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "Alice", b.Name)
}

func TestNewBorrowerView(t *testing.T) {
	b := &Borrower{
		OriginalAmount: decimal.NewFromInt(100),
		Amount:         decimal.Zero,
		Payments: []Payment{
			{Amount: decimal.NewFromInt(40)},
			{Amount: decimal.NewFromInt(100)},
		},
	}

	view := NewBorrowerView(b)

	assert.Equal(t, BorrowerStatusPaidOff, view.Status)
	assert.True(t, view.TotalPaid.Equal(decimal.NewFromInt(140)))
}

func TestPaymentPrompt_Expired(t *testing.T) {
	opened := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &PaymentPrompt{OpenedAt: opened, ExpiresAt: opened.Add(time.Minute)}

	assert.False(t, p.Expired(opened))
	assert.False(t, p.Expired(opened.Add(59*time.Second)))
	assert.True(t, p.Expired(opened.Add(time.Minute)))
	assert.True(t, p.Expired(opened.Add(time.Hour)))
}
