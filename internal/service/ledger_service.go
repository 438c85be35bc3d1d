package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/segyhp/loanshrk/internal/domain"
	"github.com/segyhp/loanshrk/internal/logging"
	"github.com/segyhp/loanshrk/internal/notify"
	"github.com/segyhp/loanshrk/internal/repository"
	customError "github.com/segyhp/loanshrk/pkg/errors"
	"github.com/segyhp/loanshrk/pkg/utils"

	"github.com/shopspring/decimal"
)

// LedgerService owns the borrower collection. Every mutation is written through
// the snapshot repository before it becomes visible in memory.
type LedgerService struct {
	mu        sync.Mutex
	borrowers []*domain.Borrower

	repo     repository.SnapshotRepository
	notifier notify.Notifier
	ids      *IDGenerator
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*LedgerService)

// WithClock replaces time.Now for timestamps and id generation
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) {
		s.now = now
		s.ids = NewIDGenerator(now)
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *LedgerService) {
		s.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *LedgerService) {
		s.logger = logging.Component(l, "ledger")
	}
}

func NewLedgerService(repo repository.SnapshotRepository, opts ...Option) *LedgerService {
	s := &LedgerService{
		borrowers: []*domain.Borrower{},
		repo:      repo,
		ids:       NewIDGenerator(time.Now),
		now:       time.Now,
		logger:    logging.Component(nil, "ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(nil)
	}
	return s
}

// Open seeds the ledger from the stored snapshot. A corrupt snapshot is kept
// aside as a backup and the ledger starts empty.
func (s *LedgerService) Open(ctx context.Context) error {
	borrowers, err := s.repo.Load(ctx)
	if errors.Is(err, customError.ErrCorruptState) {
		s.logger.WarnContext(ctx, "Stored snapshot is corrupt, starting with an empty ledger", logging.FieldError, err)
		suffix := "corrupt-" + s.now().UTC().Format("20060102T150405")
		if key, backupErr := s.repo.Backup(ctx, suffix); backupErr != nil {
			s.logger.WarnContext(ctx, "Could not preserve corrupt snapshot", logging.FieldError, backupErr)
		} else {
			s.logger.InfoContext(ctx, "Preserved corrupt snapshot", "key", key)
		}
		borrowers = []*domain.Borrower{}
	} else if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range borrowers {
		s.ids.Observe(b.ID)
		for _, p := range b.Payments {
			s.ids.Observe(p.ID)
		}
	}
	s.borrowers = borrowers

	s.logger.InfoContext(ctx, "Ledger loaded", "borrowers", len(borrowers))
	return nil
}

// Flush writes the current collection to storage
func (s *LedgerService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Save(ctx, s.borrowers)
}

// AddLoan creates a borrower at the front of the ledger
func (s *LedgerService) AddLoan(ctx context.Context, name string, amount decimal.Decimal) (*domain.Borrower, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, customError.WrapInvalidInput("borrower name is required")
	}
	amount = utils.RoundCurrency(amount)
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidInput("loan amount must be greater than zero")
	}

	s.mu.Lock()

	now := s.now()
	borrower := &domain.Borrower{
		ID:             s.ids.Next(),
		Name:           name,
		OriginalAmount: amount,
		Amount:         amount,
		Created:        now,
		Payments:       []domain.Payment{},
	}

	next := make([]*domain.Borrower, 0, len(s.borrowers)+1)
	next = append(next, borrower)
	next = append(next, s.borrowers...)

	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "Failed to persist new loan", logging.FieldError, err)
		return nil, err
	}
	s.borrowers = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Loan added",
		logging.FieldBorrowerID, borrower.ID,
		logging.FieldAmount, amount.StringFixed(utils.CurrencyPlaces))
	s.notify(ctx, notify.LoanAdded(borrower, now))

	return borrower.Clone(), nil
}

// RecordPayment credits amount toward a borrower's balance. The balance is floored
// at zero while the payment keeps its full amount. Paid-off loans are left untouched.
func (s *LedgerService) RecordPayment(ctx context.Context, borrowerID int64, amount decimal.Decimal) (*domain.Borrower, error) {
	amount = utils.RoundCurrency(amount)
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidInput("payment amount must be greater than zero")
	}

	s.mu.Lock()

	idx := s.indexOf(borrowerID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, customError.WrapLoanNotFound(borrowerID)
	}
	current := s.borrowers[idx]
	if current.IsPaidOff() {
		s.mu.Unlock()
		return nil, customError.WrapLoanAlreadyClosed(borrowerID)
	}

	now := s.now()
	updated := current.Clone()
	updated.Payments = append(updated.Payments, domain.Payment{
		ID:     s.ids.Next(),
		Amount: amount,
		Date:   now,
	})
	updated.Amount = utils.ClampZero(current.Amount.Sub(amount))

	next := make([]*domain.Borrower, len(s.borrowers))
	copy(next, s.borrowers)
	next[idx] = updated

	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "Failed to persist payment",
			logging.FieldBorrowerID, borrowerID,
			logging.FieldError, err)
		return nil, err
	}
	s.borrowers = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Payment recorded",
		logging.FieldBorrowerID, borrowerID,
		logging.FieldAmount, amount.StringFixed(utils.CurrencyPlaces),
		"balance", updated.Amount.StringFixed(utils.CurrencyPlaces),
		"status", updated.Status())
	s.notify(ctx, notify.PaymentRecorded(updated, amount, now))

	return updated.Clone(), nil
}

// All returns a copy of every borrower, newest first
func (s *LedgerService) All() []*domain.Borrower {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Borrower, len(s.borrowers))
	for i, b := range s.borrowers {
		out[i] = b.Clone()
	}
	return out
}

// Get returns a copy of one borrower
func (s *LedgerService) Get(borrowerID int64) (*domain.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(borrowerID)
	if idx < 0 {
		return nil, customError.WrapLoanNotFound(borrowerID)
	}
	return s.borrowers[idx].Clone(), nil
}

// Stats computes the summary figures over the current collection
func (s *LedgerService) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ComputeStats(s.borrowers)
}

func (s *LedgerService) indexOf(borrowerID int64) int {
	for i, b := range s.borrowers {
		if b.ID == borrowerID {
			return i
		}
	}
	return -1
}

func (s *LedgerService) notify(ctx context.Context, notice notify.Notice) {
	if err := s.notifier.Notify(ctx, notice); err != nil {
		s.logger.WarnContext(ctx, "Failed to deliver notice",
			"kind", notice.Kind,
			logging.FieldError, customError.WrapNotifyError(err))
	}
}
