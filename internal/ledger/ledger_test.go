package ledger

import (
	"context"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/store"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		typ    domain.TransactionType
		want   int64
	}{
		{"deposit positive", "50.00", domain.TransactionDeposit, 5000},
		{"deposit negative is forced positive", "-50", domain.TransactionDeposit, 5000},
		{"withdraw positive is forced negative", "20", domain.TransactionWithdraw, -2000},
		{"withdraw negative stays negative", "-20.5", domain.TransactionWithdraw, -2050},
		{"single cent", "0.01", domain.TransactionDeposit, 1},
		{"largest amount", "1000000000.00", domain.TransactionDeposit, MaxAmount},
		{"exponent form", "1.5e3", domain.TransactionWithdraw, -150000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMinorUnitsRejects(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		typ    domain.TransactionType
		field  string
	}{
		{"unknown type", "1", domain.TransactionType("transfer"), "type"},
		{"zero", "0", domain.TransactionDeposit, "amount"},
		{"sub-cent precision", "1.005", domain.TransactionDeposit, "amount"},
		{"overflow", "100000000000000000000", domain.TransactionDeposit, "amount"},
		{"above the single amount ceiling", "1000000000.01", domain.TransactionDeposit, "amount"},
		{"huge exponent", "1e50000000", domain.TransactionDeposit, "amount"},
		{"huge negative exponent", "1e-50000000", domain.TransactionWithdraw, "amount"},
		{"zero with exponent", "0e50000000", domain.TransactionDeposit, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.typ)
			assert.Less(t, time.Since(start), time.Second)
			require.ErrorIs(t, err, domain.ErrValidation)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestService_SubmitBalanceIsSumOfAmounts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	u, err := s.CreateUser(ctx, domain.NewUser("alice", "a@x.com", "hash"))
	require.NoError(t, err)
	svc := NewService(s, true)

	requests := []Request{
		{Amount: decimal.RequireFromString("50.00"), Type: domain.TransactionDeposit},
		{Amount: decimal.RequireFromString("20.00"), Type: domain.TransactionWithdraw},
		{Amount: decimal.RequireFromString("-5.25"), Type: domain.TransactionDeposit},
		{Amount: decimal.RequireFromString("100"), Type: domain.TransactionWithdraw},
	}
	var sum int64
	for _, req := range requests {
		res, err := svc.Submit(ctx, u.ID, req)
		require.NoError(t, err)
		sum += res.Transaction.Amount
		assert.Equal(t, sum, res.Balance)
	}

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000-2000+525-10000), got.Balance)
	assert.Equal(t, sum, got.Balance)
}

func TestService_SubmitStoredSignFollowsType(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	u, _ := s.CreateUser(ctx, domain.NewUser("alice", "a@x.com", "hash"))
	svc := NewService(s, true)

	res, err := svc.Submit(ctx, u.ID, Request{Amount: decimal.NewFromInt(10), Type: domain.TransactionWithdraw, Description: "atm"})
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), res.Transaction.Amount)
	assert.Equal(t, "atm", res.Transaction.Description)

	res, err = svc.Submit(ctx, u.ID, Request{Amount: decimal.NewFromInt(-10), Type: domain.TransactionDeposit})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Transaction.Amount)
}

func TestService_SubmitOverdraftPolicy(t *testing.T) {
	ctx := context.Background()
	withdraw := Request{Amount: decimal.NewFromInt(1), Type: domain.TransactionWithdraw}

	t.Run("negative balance allowed", func(t *testing.T) {
		s := store.NewMemoryStore()
		u, _ := s.CreateUser(ctx, domain.NewUser("alice", "a@x.com", "hash"))
		res, err := NewService(s, true).Submit(ctx, u.ID, withdraw)
		require.NoError(t, err)
		assert.Equal(t, int64(-100), res.Balance)
	})

	t.Run("negative balance refused", func(t *testing.T) {
		s := store.NewMemoryStore()
		u, _ := s.CreateUser(ctx, domain.NewUser("alice", "a@x.com", "hash"))
		_, err := NewService(s, false).Submit(ctx, u.ID, withdraw)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		txs, _ := s.GetTransactions(ctx, u.ID)
		assert.Empty(t, txs)
	})
}

func TestService_SubmitRefusesBalanceOverflow(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	u, _ := s.CreateUser(ctx, domain.NewUser("alice", "a@x.com", "hash"))
	require.NoError(t, s.UpdateBalance(ctx, u.ID, math.MaxInt64-MaxAmount+1))
	svc := NewService(s, true)

	_, err := svc.Submit(ctx, u.ID, Request{Amount: decimal.NewFromInt(1000000000), Type: domain.TransactionDeposit})
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-MaxAmount+1), got.Balance)
	txs, _ := s.GetTransactions(ctx, u.ID)
	assert.Empty(t, txs)
}

func TestService_SubmitUnknownUser(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), true)
	_, err := svc.Submit(context.Background(), 42, Request{Amount: decimal.NewFromInt(1), Type: domain.TransactionDeposit})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
