// Package store holds user and transaction persistence.
package store

import (
	"context"                        // Context for cancellation
	"digital_wallet/internal/domain" // Importing domain models
	"math"                           // int64 bounds
)

// Store is the persistence capability set used by the auth, ledger and API layers
type Store interface {
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	CreateAdminUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUserBanStatus(ctx context.Context, id uint, banned bool) error
	UpdateLastLogin(ctx context.Context, id uint, ip string) error
	DetectMultipleAccounts(ctx context.Context, ip string) ([]domain.User, error)

	GetTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, userID uint, tx *domain.Transaction) (*domain.Transaction, error)
	UpdateBalance(ctx context.Context, userID uint, delta int64) error

	// ApplyTransaction records tx and adds tx.Amount to the owner's balance as
	// one unit. With allowNegative false a result below zero writes nothing and
	// returns domain.ErrInsufficientFunds. A sum outside the int64 range writes
	// nothing and returns a validation error on amount.
	ApplyTransaction(ctx context.Context, tx *domain.Transaction, allowNegative bool) (*domain.Transaction, int64, error)
}

// nextBalance adds amount to balance, refusing sums that leave the int64 range
func nextBalance(balance, amount int64) (int64, error) {
	if (amount > 0 && balance > math.MaxInt64-amount) || (amount < 0 && balance < math.MinInt64-amount) {
		return balance, domain.NewFieldError("amount", "would overflow the balance")
	}
	return balance + amount, nil
}
