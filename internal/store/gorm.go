package store

import (
	"context"                        // Context for cancellation
	"digital_wallet/internal/domain" // Importing domain models
	"errors"                         // Error inspection
	"fmt"                            // Error wrapping

	"github.com/go-sql-driver/mysql" // MySQL error codes
	"gorm.io/gorm"                   // GORM ORM library
	"gorm.io/gorm/clause"            // Row locking clause
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations
const mysqlDuplicateEntry = 1062

// GormStore persists users and transactions through GORM
type GormStore struct {
	db *gorm.DB // Database handle
}

// NewGormStore wraps an open GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// mapError converts GORM and driver errors to domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return domain.ErrDuplicate
	}
	return err
}

func (s *GormStore) firstUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User // User struct to hold data
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// GetUser returns the user with the given id or domain.ErrNotFound
func (s *GormStore) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.firstUser(ctx, "id = ?", id)
}

// GetUserByUsername looks a user up by exact username
func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.firstUser(ctx, "username = ?", username)
}

// GetUserByEmail looks a user up by exact email
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.firstUser(ctx, "email = ?", email)
}

// ListUsers returns every user ordered by id
func (s *GormStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User // Slice to hold users
	if err := s.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser stores a regular user with a zero balance
func (s *GormStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	return s.insertUser(ctx, user, false)
}

// CreateAdminUser stores a user with admin rights
func (s *GormStore) CreateAdminUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	return s.insertUser(ctx, user, true)
}

func (s *GormStore) insertUser(ctx context.Context, user *domain.User, admin bool) (*domain.User, error) {
	row := domain.User{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		IsAdmin:   admin,
		CreatedAt: s.db.NowFunc(),
		Level:     1,
	}
	// Unique indexes on username and email reject duplicates atomically
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(mapError(err), domain.ErrDuplicate) {
			return nil, s.duplicateField(ctx, &row)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &row, nil
}

// duplicateField works out which unique column collided
func (s *GormStore) duplicateField(ctx context.Context, user *domain.User) error {
	if _, err := s.GetUserByUsername(ctx, user.Username); err == nil {
		return &domain.DuplicateError{Field: "username"}
	}
	return &domain.DuplicateError{Field: "email"}
}

// updateUser applies column updates to one user and reports a missing row
func (s *GormStore) updateUser(ctx context.Context, id uint, values map[string]any) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows for unchanged values too
		if _, err := s.GetUser(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateUserBanStatus sets or clears the ban flag
func (s *GormStore) UpdateUserBanStatus(ctx context.Context, id uint, banned bool) error {
	return s.updateUser(ctx, id, map[string]any{"is_banned": banned})
}

// UpdateLastLogin records the ip and time of the latest login
func (s *GormStore) UpdateLastLogin(ctx context.Context, id uint, ip string) error {
	return s.updateUser(ctx, id, map[string]any{
		"last_login_ip":   ip,
		"last_login_time": s.db.NowFunc(),
	})
}

// DetectMultipleAccounts returns the users whose last login came from ip
func (s *GormStore) DetectMultipleAccounts(ctx context.Context, ip string) ([]domain.User, error) {
	users := []domain.User{}
	if ip == "" {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("last_login_ip = ?", ip).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetTransactions returns the transactions of userID, newest first
func (s *GormStore) GetTransactions(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateTransaction stores tx for userID without touching the balance
func (s *GormStore) CreateTransaction(ctx context.Context, userID uint, tx *domain.Transaction) (*domain.Transaction, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	row := domain.Transaction{
		UserID:      userID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Description: tx.Description,
		CreatedAt:   s.db.NowFunc(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return &row, nil
}

// UpdateBalance adds delta to the balance of userID
func (s *GormStore) UpdateBalance(ctx context.Context, userID uint, delta int64) error {
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyTransaction records tx and adjusts the owner balance in one unit
func (s *GormStore) ApplyTransaction(ctx context.Context, tx *domain.Transaction, allowNegative bool) (*domain.Transaction, int64, error) {
	var (
		row     domain.Transaction // Stored transaction
		balance int64              // Balance after the write
	)
	err := s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		var user domain.User // Locked owner row
		if err := dbTx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, tx.UserID).Error; err != nil {
			return mapError(err)
		}
		next, err := nextBalance(user.Balance, tx.Amount)
		if err != nil {
			balance = user.Balance
			return err // Nothing written, rollback
		}
		balance = next
		if !allowNegative && balance < 0 {
			balance = user.Balance
			return domain.ErrInsufficientFunds
		}
		row = domain.Transaction{
			UserID:      user.ID,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Description: tx.Description,
			CreatedAt:   dbTx.NowFunc(),
		}
		// Create transaction record
		if err := dbTx.Create(&row).Error; err != nil {
			return err // Return error to rollback
		}
		// Increment balance in the same transaction
		if err := dbTx.Model(&user).Update("balance", gorm.Expr("balance + ?", tx.Amount)).Error; err != nil {
			return err // Return error to rollback
		}
		return nil // Commit transaction
	})
	if err != nil {
		return nil, balance, err
	}
	return &row, balance, nil
}

var _ Store = (*GormStore)(nil)
