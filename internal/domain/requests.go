package domain

import "github.com/shopspring/decimal"

// DTOs for requests and responses

type CreateLoanRequest struct {
	Name   string          `json:"name" validate:"required,max=120"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

// SubmitPromptRequest carries the raw value typed into a payment prompt
type SubmitPromptRequest struct {
	Value string `json:"value"`
}

type NoticeResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type BorrowerResponse struct {
	Borrower BorrowerView    `json:"borrower"`
	Notice   *NoticeResponse `json:"notice,omitempty"`
}

type LedgerResponse struct {
	Borrowers []BorrowerView `json:"borrowers"`
	Stats     Stats          `json:"stats"`
}
