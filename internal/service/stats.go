package service

import (
	"github.com/segyhp/loanshrk/internal/domain"

	"github.com/shopspring/decimal"
)

// ComputeStats reduces a borrower collection to the dashboard figures.
// An empty collection yields all zeros.
func ComputeStats(borrowers []*domain.Borrower) domain.Stats {
	stats := domain.Stats{
		TotalOutstanding: decimal.Zero,
		TotalOriginal:    decimal.Zero,
		BorrowerCount:    len(borrowers),
	}

	for _, b := range borrowers {
		stats.TotalOutstanding = stats.TotalOutstanding.Add(b.Amount)
		stats.TotalOriginal = stats.TotalOriginal.Add(b.OriginalAmount)
		if b.Amount.IsPositive() {
			stats.ActiveCount++
		}
	}

	stats.TotalCollected = stats.TotalOriginal.Sub(stats.TotalOutstanding)
	return stats
}
