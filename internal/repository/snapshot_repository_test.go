package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/segyhp/loanshrk/internal/domain"
	"github.com/segyhp/loanshrk/internal/mocks"
	customError "github.com/segyhp/loanshrk/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleBorrowers() []*domain.Borrower {
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []*domain.Borrower{
		{
			ID:             1705314700000,
			Name:           "Bob",
			OriginalAmount: decimal.RequireFromString("50"),
			Amount:         decimal.RequireFromString("50"),
			Created:        created.Add(time.Hour),
			Payments:       []domain.Payment{},
		},
		{
			ID:             1705314600000,
			Name:           "Alice",
			OriginalAmount: decimal.RequireFromString("100"),
			Amount:         decimal.RequireFromString("0"),
			Created:        created,
			Payments: []domain.Payment{
				{ID: 1705314650000, Amount: decimal.RequireFromString("40"), Date: created.Add(time.Minute)},
				{ID: 1705314660000, Amount: decimal.RequireFromString("100.25"), Date: created.Add(2 * time.Minute)},
			},
		},
	}
}

func assertSameBorrowers(t *testing.T, expected, actual []*domain.Borrower) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		e, a := expected[i], actual[i]
		assert.Equal(t, e.ID, a.ID)
		assert.Equal(t, e.Name, a.Name)
		assert.True(t, e.OriginalAmount.Equal(a.OriginalAmount), "originalAmount %s != %s", e.OriginalAmount, a.OriginalAmount)
		assert.True(t, e.Amount.Equal(a.Amount), "amount %s != %s", e.Amount, a.Amount)
		assert.True(t, e.Created.Equal(a.Created))
		require.Len(t, a.Payments, len(e.Payments))
		for j := range e.Payments {
			assert.Equal(t, e.Payments[j].ID, a.Payments[j].ID)
			assert.True(t, e.Payments[j].Amount.Equal(a.Payments[j].Amount))
			assert.True(t, e.Payments[j].Date.Equal(a.Payments[j].Date))
		}
	}
}

func TestSnapshotRepository_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(NewMemorySlotStore(), "")
	borrowers := sampleBorrowers()

	require.NoError(t, repo.Save(ctx, borrowers))
	loaded, err := repo.Load(ctx)

	require.NoError(t, err)
	assertSameBorrowers(t, borrowers, loaded)
}

func TestSnapshotRepository_StoredLayout(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySlotStore()
	repo := NewSnapshotRepository(store, "")

	require.NoError(t, repo.Save(ctx, sampleBorrowers()))

	blob, found, err := store.Get(ctx, DefaultSlotKey)
	require.NoError(t, err)
	require.True(t, found)

	raw := string(blob)
	assert.True(t, strings.HasPrefix(raw, "[{"))
	assert.Contains(t, raw, `"originalAmount":50`)
	assert.Contains(t, raw, `"amount":100.25`)
	assert.Contains(t, raw, `"payments":[]`)
	assert.Contains(t, raw, `"created":"2024-01-15T10:30:00Z"`)
}

func TestSnapshotRepository_Load(t *testing.T) {
	tests := []struct {
		name          string
		stored        *string
		expectedLen   int
		expectedError error
	}{
		{name: "Absent key yields empty", stored: nil, expectedLen: 0},
		{name: "Empty blob yields empty", stored: strPtr(""), expectedLen: 0},
		{name: "Null yields empty", stored: strPtr("null"), expectedLen: 0},
		{name: "Empty array", stored: strPtr("[]"), expectedLen: 0},
		{
			name:        "Legacy document",
			stored:      strPtr(`[{"id":1,"name":"Alice","originalAmount":100,"amount":60,"created":"2024-01-15T10:30:00.000Z","payments":[{"id":2,"amount":40,"date":"2024-01-16T08:00:00.000Z"}]}]`),
			expectedLen: 1,
		},
		{name: "Malformed JSON", stored: strPtr("{not json"), expectedError: customError.ErrCorruptState},
		{name: "Object instead of array", stored: strPtr(`{"id":1}`), expectedError: customError.ErrCorruptState},
		{
			name:          "Empty name",
			stored:        strPtr(`[{"id":1,"name":" ","originalAmount":100,"amount":60,"created":"2024-01-15T10:30:00Z","payments":[]}]`),
			expectedError: customError.ErrCorruptState,
		},
		{
			name:          "Balance above original",
			stored:        strPtr(`[{"id":1,"name":"Alice","originalAmount":100,"amount":160,"created":"2024-01-15T10:30:00Z","payments":[]}]`),
			expectedError: customError.ErrCorruptState,
		},
		{
			name:          "Negative balance",
			stored:        strPtr(`[{"id":1,"name":"Alice","originalAmount":100,"amount":-1,"created":"2024-01-15T10:30:00Z","payments":[]}]`),
			expectedError: customError.ErrCorruptState,
		},
		{
			name:          "Zero original amount",
			stored:        strPtr(`[{"id":1,"name":"Alice","originalAmount":0,"amount":0,"created":"2024-01-15T10:30:00Z","payments":[]}]`),
			expectedError: customError.ErrCorruptState,
		},
		{
			name:          "Non-positive payment",
			stored:        strPtr(`[{"id":1,"name":"Alice","originalAmount":100,"amount":100,"created":"2024-01-15T10:30:00Z","payments":[{"id":2,"amount":0,"date":"2024-01-16T08:00:00Z"}]}]`),
			expectedError: customError.ErrCorruptState,
		},
		{
			name:          "Amount as string",
			stored:        strPtr(`[{"id":1,"name":"Alice","originalAmount":"abc","amount":60,"created":"2024-01-15T10:30:00Z","payments":[]}]`),
			expectedError: customError.ErrCorruptState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemorySlotStore()
			if tt.stored != nil {
				require.NoError(t, store.Set(ctx, DefaultSlotKey, []byte(*tt.stored)))
			}
			repo := NewSnapshotRepository(store, "")

			borrowers, err := repo.Load(ctx)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Equal(t, customError.ErrCodeCorruptState, customError.CodeOf(err))
				assert.Nil(t, borrowers)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, borrowers)
			assert.Len(t, borrowers, tt.expectedLen)
		})
	}
}

func TestSnapshotRepository_LegacyDocumentFields(t *testing.T) {
	blob := []byte(`[{"id":1705314600000,"name":"Alice","originalAmount":100,"amount":60,"created":"2024-01-15T10:30:00.000Z","payments":[{"id":1705400000000,"amount":40,"date":"2024-01-16T08:00:00.000Z"}]}]`)

	borrowers, err := DecodeSnapshot(blob)

	require.NoError(t, err)
	require.Len(t, borrowers, 1)
	b := borrowers[0]
	assert.Equal(t, int64(1705314600000), b.ID)
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(60)))
	assert.True(t, b.OriginalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, b.Created.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)))
	require.Len(t, b.Payments, 1)
	assert.True(t, b.Payments[0].Amount.Equal(decimal.NewFromInt(40)))
}

func TestSnapshotRepository_StorageErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	store := &mocks.MockSlotStore{}
	store.On("Get", mock.Anything, "custom:key").Return(nil, false, boom)
	store.On("Set", mock.Anything, "custom:key", mock.Anything).Return(boom)
	repo := NewSnapshotRepository(store, "custom:key")

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, customError.ErrStorage)
	assert.ErrorIs(t, err, boom)

	err = repo.Save(ctx, sampleBorrowers())
	assert.ErrorIs(t, err, customError.ErrStorage)
	assert.Equal(t, customError.ErrCodeStorageError, customError.CodeOf(err))

	_, err = repo.Backup(ctx, "20240101")
	assert.ErrorIs(t, err, customError.ErrStorage)

	store.AssertExpectations(t)
}

func TestSnapshotRepository_Backup(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySlotStore()
	repo := NewSnapshotRepository(store, "")

	t.Run("Absent snapshot backs up an empty collection", func(t *testing.T) {
		key, err := repo.Backup(ctx, "empty")
		require.NoError(t, err)
		assert.Equal(t, "loanshrk:data:backup:empty", key)

		blob, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "[]", string(blob))
	})

	t.Run("Copies the current blob verbatim", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, DefaultSlotKey, []byte("{not json")))

		key, err := repo.Backup(ctx, "corrupt-20240101T000000")
		require.NoError(t, err)

		blob, _, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(blob))

		current, _, err := store.Get(ctx, DefaultSlotKey)
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(current))
	})
}

func TestMemorySlotStore_CopiesBlobs(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySlotStore()

	in := []byte("[]")
	require.NoError(t, store.Set(ctx, "k", in))
	in[0] = 'x'

	out, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(out))

	out[0] = 'y'
	again, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "[]", string(again))

	_, found, err = store.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, store.Ping(ctx))
}

func strPtr(s string) *string {
	return &s
}
