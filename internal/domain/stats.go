package domain

import "github.com/shopspring/decimal"

// Stats holds the dashboard summary figures
type Stats struct {
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOriginal    decimal.Decimal `json:"total_original"`
	ActiveCount      int             `json:"active_count"`
	BorrowerCount    int             `json:"borrower_count"`
}
