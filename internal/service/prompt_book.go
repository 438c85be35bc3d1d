package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segyhp/loanshrk/internal/domain"
	customError "github.com/segyhp/loanshrk/pkg/errors"
	"github.com/segyhp/loanshrk/pkg/utils"

	"github.com/google/uuid"
)

// DefaultPromptTTL bounds how long an opened payment prompt accepts a value
const DefaultPromptTTL = 10 * time.Minute

// PromptBook splits payment entry into two events: opening a prompt for a
// borrower, and later submitting the value the user typed into it.
type PromptBook struct {
	mu      sync.Mutex
	prompts map[string]*domain.PaymentPrompt

	ledger *LedgerService
	ttl    time.Duration
	now    func() time.Time
}

func NewPromptBook(ledger *LedgerService, ttl time.Duration, now func() time.Time) *PromptBook {
	if ttl <= 0 {
		ttl = DefaultPromptTTL
	}
	if now == nil {
		now = time.Now
	}
	return &PromptBook{
		prompts: make(map[string]*domain.PaymentPrompt),
		ledger:  ledger,
		ttl:     ttl,
		now:     now,
	}
}

// Open starts a payment prompt for an active borrower
func (p *PromptBook) Open(ctx context.Context, borrowerID int64) (*domain.PaymentPrompt, error) {
	borrower, err := p.ledger.Get(borrowerID)
	if err != nil {
		return nil, err
	}
	if borrower.IsPaidOff() {
		return nil, customError.WrapLoanAlreadyClosed(borrowerID)
	}

	now := p.now()
	prompt := &domain.PaymentPrompt{
		Token:      uuid.NewString(),
		BorrowerID: borrowerID,
		Borrower:   borrower.Name,
		Balance:    utils.FormatCurrency(borrower.Amount),
		OpenedAt:   now,
		ExpiresAt:  now.Add(p.ttl),
	}

	p.mu.Lock()
	p.prompts[prompt.Token] = prompt
	p.mu.Unlock()

	c := *prompt
	return &c, nil
}

// Submit delivers the entered value for a prompt and records the payment.
// An unparseable or non-positive value leaves the prompt open for another try.
func (p *PromptBook) Submit(ctx context.Context, token, value string) (*domain.Borrower, error) {
	p.mu.Lock()
	prompt, ok := p.prompts[token]
	if !ok {
		p.mu.Unlock()
		return nil, customError.WrapPromptNotFound(token)
	}
	if prompt.Expired(p.now()) {
		delete(p.prompts, token)
		p.mu.Unlock()
		return nil, customError.WrapPromptNotFound(token)
	}

	amount, parsed := utils.ParseAmount(value)
	if !parsed || !utils.IsPositiveAmount(amount) {
		p.mu.Unlock()
		return nil, customError.WrapInvalidInput("payment amount must be a number greater than zero")
	}

	// claim the prompt so a concurrent submit cannot record the same entry twice
	delete(p.prompts, token)
	p.mu.Unlock()

	borrower, err := p.ledger.RecordPayment(ctx, prompt.BorrowerID, amount)
	if errors.Is(err, customError.ErrStorage) {
		p.mu.Lock()
		p.prompts[token] = prompt
		p.mu.Unlock()
	}
	return borrower, err
}

// Cancel discards an open prompt and reports whether it existed
func (p *PromptBook) Cancel(token string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.prompts[token]
	delete(p.prompts, token)
	return ok
}

// Sweep drops every prompt that has expired and returns how many were removed
func (p *PromptBook) Sweep() int {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for token, prompt := range p.prompts {
		if prompt.Expired(now) {
			delete(p.prompts, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of open prompts
func (p *PromptBook) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.prompts)
}
