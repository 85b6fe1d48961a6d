// Package ledger records deposits and withdrawals against a user's balance.
package ledger

import (
	"context"                        // Context for cancellation
	"digital_wallet/internal/domain" // Domain models and errors
	"digital_wallet/internal/store"  // Persistence

	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logrus for structured logging
)

const (
	// minorUnitExponent converts major currency units to minor units (cents)
	minorUnitExponent = 2
	// maxExponent bounds the decimal exponent accepted before any rescaling
	maxExponent = 18
	// MaxAmount is the largest single transaction in minor units (1,000,000,000.00)
	MaxAmount int64 = 100_000_000_000
)

var maxMinorUnits = decimal.NewFromInt(MaxAmount)

// Request is a transaction as submitted by a user, amount in major units
type Request struct {
	Amount      decimal.Decimal        // Major units, any sign
	Type        domain.TransactionType // deposit or withdraw
	Description string                 // Free text
}

// Result is the stored transaction and the balance after it
type Result struct {
	Transaction *domain.Transaction // Stored transaction
	Balance     int64               // Balance after the write
}

// Service applies ledger operations
type Service struct {
	store         store.Store // User and transaction persistence
	allowNegative bool        // Permit balances below zero
}

// NewService returns a ledger over s. allowNegative permits withdrawals below zero.
func NewService(s store.Store, allowNegative bool) *Service {
	return &Service{store: s, allowNegative: allowNegative}
}

// ToMinorUnits converts a major-unit amount to a signed amount in minor units
// whose sign follows the type: withdraw is always negative, deposit always
// positive, whatever sign the caller supplied.
func ToMinorUnits(amount decimal.Decimal, typ domain.TransactionType) (int64, error) {
	if !typ.Valid() {
		return 0, domain.NewFieldError("type", "must be one of deposit, withdraw")
	}
	if amount.IsZero() {
		return 0, domain.NewFieldError("amount", "must not be zero")
	}
	// Exponent checks come first, rescaling a huge exponent allocates its full digit count
	if amount.Exponent() > maxExponent {
		return 0, domain.NewFieldError("amount", "is too large")
	}
	if amount.Exponent() < -maxExponent {
		return 0, domain.NewFieldError("amount", "must have at most two decimal places")
	}
	minor := amount.Shift(minorUnitExponent).Abs() // Amount in cents
	if !minor.Equal(minor.Truncate(0)) {
		return 0, domain.NewFieldError("amount", "must have at most two decimal places")
	}
	if minor.GreaterThan(maxMinorUnits) {
		return 0, domain.NewFieldError("amount", "is too large")
	}
	cents := minor.IntPart()
	if typ == domain.TransactionWithdraw {
		return -cents, nil // Withdrawals always debit
	}
	return cents, nil // Deposits always credit
}

// Submit records the transaction and adjusts the balance of userID in one atomic write
func (s *Service) Submit(ctx context.Context, userID uint, req Request) (*Result, error) {
	amount, err := ToMinorUnits(req.Amount, req.Type) // Normalize and clamp the sign
	if err != nil {
		return nil, err // Validation error, nothing written
	}
	tx, balance, err := s.store.ApplyTransaction(ctx, &domain.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        req.Type,
		Description: req.Description,
	}, s.allowNegative)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"amount":  amount,
			"type":    req.Type,
			"error":   err.Error(),
		}).Warn("Transaction failed") // Log failure
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": tx.ID,
		"amount":         amount,
		"type":           req.Type,
		"balance":        balance,
	}).Info("Transaction recorded") // Log success
	return &Result{Transaction: tx, Balance: balance}, nil
}
