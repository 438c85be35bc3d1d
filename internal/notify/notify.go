package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segyhp/loanshrk/internal/domain"
	"github.com/segyhp/loanshrk/internal/logging"
	"github.com/segyhp/loanshrk/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	KindLoanAdded       = "loan_added"
	KindPaymentRecorded = "payment_recorded"
)

// Notice is a user-facing confirmation emitted after a successful ledger change
type Notice struct {
	Kind         string          `json:"kind"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	BorrowerID   int64           `json:"borrower_id"`
	BorrowerName string          `json:"borrower_name"`
	Amount       decimal.Decimal `json:"amount"`
	At           time.Time       `json:"at"`
}

func (n Notice) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// Notifier delivers notices. Implementations must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
	Close() error
}

// LoanAdded builds the notice for a newly created loan
func LoanAdded(b *domain.Borrower, at time.Time) Notice {
	return Notice{
		Kind:         KindLoanAdded,
		Title:        "Loan Added",
		Description:  fmt.Sprintf("%s loan created for %s", utils.FormatCurrency(b.OriginalAmount), b.Name),
		BorrowerID:   b.ID,
		BorrowerName: b.Name,
		Amount:       b.OriginalAmount,
		At:           at,
	}
}

// PaymentRecorded builds the notice for a payment against b
func PaymentRecorded(b *domain.Borrower, amount decimal.Decimal, at time.Time) Notice {
	return Notice{
		Kind:         KindPaymentRecorded,
		Title:        "Payment Recorded",
		Description:  fmt.Sprintf("%s payment recorded for %s", utils.FormatCurrency(amount), b.Name),
		BorrowerID:   b.ID,
		BorrowerName: b.Name,
		Amount:       amount,
		At:           at,
	}
}

// LogNotifier writes notices to the structured log
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.Component(logger, "notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) error {
	n.logger.InfoContext(ctx, notice.Title,
		"kind", notice.Kind,
		"description", notice.Description,
		logging.FieldBorrowerID, notice.BorrowerID,
		logging.FieldAmount, notice.Amount.StringFixed(utils.CurrencyPlaces))
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
