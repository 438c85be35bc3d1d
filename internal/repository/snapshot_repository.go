package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segyhp/loanshrk/internal/domain"
	customError "github.com/segyhp/loanshrk/pkg/errors"

	"github.com/shopspring/decimal"
)

// Records mirror the persisted layout: camelCase keys, numbers as JSON numbers.
type paymentRecord struct {
	ID     int64       `json:"id"`
	Amount json.Number `json:"amount"`
	Date   time.Time   `json:"date"`
}

type borrowerRecord struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	OriginalAmount json.Number     `json:"originalAmount"`
	Amount         json.Number     `json:"amount"`
	Created        time.Time       `json:"created"`
	Payments       []paymentRecord `json:"payments"`
}

type snapshotRepository struct {
	slots SlotStore
	key   string
}

func NewSnapshotRepository(slots SlotStore, key string) SnapshotRepository {
	if key == "" {
		key = DefaultSlotKey
	}
	return &snapshotRepository{slots: slots, key: key}
}

func (r *snapshotRepository) Load(ctx context.Context) ([]*domain.Borrower, error) {
	blob, found, err := r.slots.Get(ctx, r.key)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}
	if !found {
		return []*domain.Borrower{}, nil
	}

	borrowers, err := DecodeSnapshot(blob)
	if err != nil {
		return nil, customError.WrapCorruptState(err)
	}

	return borrowers, nil
}

func (r *snapshotRepository) Save(ctx context.Context, borrowers []*domain.Borrower) error {
	blob, err := EncodeSnapshot(borrowers)
	if err != nil {
		return customError.WrapStorageError(err)
	}

	if err := r.slots.Set(ctx, r.key, blob); err != nil {
		return customError.WrapStorageError(err)
	}

	return nil
}

func (r *snapshotRepository) Backup(ctx context.Context, suffix string) (string, error) {
	blob, found, err := r.slots.Get(ctx, r.key)
	if err != nil {
		return "", customError.WrapStorageError(err)
	}
	if !found {
		blob = []byte("[]")
	}

	backupKey := fmt.Sprintf("%s:backup:%s", r.key, suffix)
	if err := r.slots.Set(ctx, backupKey, blob); err != nil {
		return "", customError.WrapStorageError(err)
	}

	return backupKey, nil
}

// EncodeSnapshot serializes the borrower collection in stored order
func EncodeSnapshot(borrowers []*domain.Borrower) ([]byte, error) {
	records := make([]borrowerRecord, 0, len(borrowers))
	for _, b := range borrowers {
		rec := borrowerRecord{
			ID:             b.ID,
			Name:           b.Name,
			OriginalAmount: json.Number(b.OriginalAmount.String()),
			Amount:         json.Number(b.Amount.String()),
			Created:        b.Created.UTC(),
			Payments:       make([]paymentRecord, 0, len(b.Payments)),
		}
		for _, p := range b.Payments {
			rec.Payments = append(rec.Payments, paymentRecord{
				ID:     p.ID,
				Amount: json.Number(p.Amount.String()),
				Date:   p.Date.UTC(),
			})
		}
		records = append(records, rec)
	}

	return json.Marshal(records)
}

// DecodeSnapshot parses a stored blob and checks every borrower against the balance invariants
func DecodeSnapshot(blob []byte) ([]*domain.Borrower, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []*domain.Borrower{}, nil
	}

	var records []borrowerRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	borrowers := make([]*domain.Borrower, 0, len(records))
	for i, rec := range records {
		b, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("borrower %d: %w", i, err)
		}
		borrowers = append(borrowers, b)
	}

	return borrowers, nil
}

func (rec borrowerRecord) toDomain() (*domain.Borrower, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("empty name")
	}

	original, err := decimal.NewFromString(rec.OriginalAmount.String())
	if err != nil {
		return nil, fmt.Errorf("originalAmount: %w", err)
	}
	amount, err := decimal.NewFromString(rec.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if !original.IsPositive() {
		return nil, fmt.Errorf("originalAmount must be positive, got %s", original)
	}
	if amount.IsNegative() || amount.GreaterThan(original) {
		return nil, fmt.Errorf("amount %s outside [0, %s]", amount, original)
	}

	b := &domain.Borrower{
		ID:             rec.ID,
		Name:           rec.Name,
		OriginalAmount: original,
		Amount:         amount,
		Created:        rec.Created,
		Payments:       make([]domain.Payment, 0, len(rec.Payments)),
	}

	for j, p := range rec.Payments {
		pa, err := decimal.NewFromString(p.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("payment %d amount: %w", j, err)
		}
		if !pa.IsPositive() {
			return nil, fmt.Errorf("payment %d amount must be positive, got %s", j, pa)
		}
		b.Payments = append(b.Payments, domain.Payment{
			ID:     p.ID,
			Amount: pa,
			Date:   p.Date,
		})
	}

	return b, nil
}
