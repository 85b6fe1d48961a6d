package domain

import "time" // Time for creation timestamp

// TransactionType is the kind of ledger entry
type TransactionType string

// Supported transaction types
const (
	TransactionDeposit  TransactionType = "deposit"  // Money added to the balance
	TransactionWithdraw TransactionType = "withdraw" // Money taken from the balance
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TransactionDeposit || t == TransactionWithdraw
}

// Transaction Model
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                 // Primary key
	UserID      uint            `gorm:"index;not null" json:"userId"`         // Foreign key to User
	Amount      int64           `gorm:"not null" json:"amount"`               // Signed amount in minor units
	Type        TransactionType `gorm:"size:16;not null" json:"type"`         // deposit or withdraw
	Description string          `gorm:"size:255;not null" json:"description"` // Free text
	CreatedAt   time.Time       `gorm:"index;not null" json:"createdAt"`      // Creation time
}
