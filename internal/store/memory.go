package store

import (
	"context"                        // Context for cancellation
	"digital_wallet/internal/domain" // Importing domain models
	"sort"                           // Ordering results
	"sync"                           // Store lock
	"time"                           // Timestamps
)

// MemoryStore keeps users and transactions in process memory. All state is
// lost on restart. Writes are serialized by a single lock so a ledger
// operation cannot interleave with another one for the same user.
type MemoryStore struct {
	mu           sync.RWMutex                 // Guards every field below
	users        map[uint]*domain.User        // Users by id
	transactions map[uint]*domain.Transaction // Transactions by id
	nextUserID   uint                         // Next user id to assign
	nextTxID     uint                         // Next transaction id to assign
	now          func() time.Time             // Time source
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithClock replaces the time source, used by tests to control createdAt
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore returns an empty store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		users:        make(map[uint]*domain.User),
		transactions: make(map[uint]*domain.Transaction),
		nextUserID:   1,
		nextTxID:     1,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// copyUser detaches the returned record from the stored one
func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Transactions = nil
	if u.LastLoginIP != nil {
		ip := *u.LastLoginIP
		c.LastLoginIP = &ip
	}
	if u.LastLoginTime != nil {
		t := *u.LastLoginTime
		c.LastLoginTime = &t
	}
	return &c
}

// GetUser returns the user with the given id or domain.ErrNotFound
func (s *MemoryStore) GetUser(_ context.Context, id uint) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound // No such user
	}
	return copyUser(u), nil
}

// GetUserByUsername looks a user up by exact username
func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.findUser(func(u *domain.User) bool { return u.Username == username }); u != nil {
		return copyUser(u), nil
	}
	return nil, domain.ErrNotFound
}

// GetUserByEmail looks a user up by exact email
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u := s.findUser(func(u *domain.User) bool { return u.Email == email }); u != nil {
		return copyUser(u), nil
	}
	return nil, domain.ErrNotFound
}

// findUser is a linear scan; caller holds the lock
func (s *MemoryStore) findUser(match func(*domain.User) bool) *domain.User {
	for _, u := range s.users {
		if match(u) {
			return u
		}
	}
	return nil
}

// filterUsers returns copies of matching users ordered by id; caller holds the lock
func (s *MemoryStore) filterUsers(match func(*domain.User) bool) []domain.User {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if match(u) {
			out = append(out, *copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListUsers returns copies of every user ordered by id
func (s *MemoryStore) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterUsers(func(*domain.User) bool { return true }), nil
}

// CreateUser stores a regular user with a zero balance
func (s *MemoryStore) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	return s.insertUser(user, false)
}

// CreateAdminUser stores a user with admin rights
func (s *MemoryStore) CreateAdminUser(_ context.Context, user *domain.User) (*domain.User, error) {
	return s.insertUser(user, true)
}

// insertUser assigns the next id and the creation defaults
func (s *MemoryStore) insertUser(user *domain.User, admin bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Uniqueness is checked under the write lock
	if s.findUser(func(u *domain.User) bool { return u.Username == user.Username }) != nil {
		return nil, &domain.DuplicateError{Field: "username"} // Username taken
	}
	if s.findUser(func(u *domain.User) bool { return u.Email == user.Email }) != nil {
		return nil, &domain.DuplicateError{Field: "email"} // Email taken
	}
	stored := &domain.User{
		ID:        s.nextUserID,
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		IsAdmin:   admin,
		CreatedAt: s.now(),
		Level:     1,
	}
	s.nextUserID++              // Ids are never reused
	s.users[stored.ID] = stored // Save user
	return copyUser(stored), nil
}

// UpdateUserBanStatus sets or clears the ban flag
func (s *MemoryStore) UpdateUserBanStatus(_ context.Context, id uint, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsBanned = banned // Update ban flag
	return nil
}

// UpdateLastLogin records the ip and time of the latest login
func (s *MemoryStore) UpdateLastLogin(_ context.Context, id uint, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := s.now()
	u.LastLoginIP = &ip
	u.LastLoginTime = &now
	return nil
}

// DetectMultipleAccounts returns the users whose last login came from ip
func (s *MemoryStore) DetectMultipleAccounts(_ context.Context, ip string) ([]domain.User, error) {
	if ip == "" {
		return []domain.User{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterUsers(func(u *domain.User) bool {
		return u.LastLoginIP != nil && *u.LastLoginIP == ip
	}), nil
}

// GetTransactions returns the transactions of userID, newest first
func (s *MemoryStore) GetTransactions(_ context.Context, userID uint) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	// Newest first, id breaks ties between equal timestamps
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// CreateTransaction stores tx for userID without touching the balance
func (s *MemoryStore) CreateTransaction(_ context.Context, userID uint, tx *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return nil, domain.ErrNotFound
	}
	stored := s.insertTransaction(userID, tx)
	return &stored, nil
}

// insertTransaction stamps and stores tx; caller holds the write lock
func (s *MemoryStore) insertTransaction(userID uint, tx *domain.Transaction) domain.Transaction {
	stored := &domain.Transaction{
		ID:          s.nextTxID,
		UserID:      userID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Description: tx.Description,
		CreatedAt:   s.now(),
	}
	s.nextTxID++                       // Ids are never reused
	s.transactions[stored.ID] = stored // Save transaction
	return *stored
}

// UpdateBalance adds delta to the balance of userID
func (s *MemoryStore) UpdateBalance(_ context.Context, userID uint, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Balance += delta // Unchecked, ApplyTransaction is the ledger path
	return nil
}

// ApplyTransaction records tx and adjusts the owner balance while holding the write lock
func (s *MemoryStore) ApplyTransaction(_ context.Context, tx *domain.Transaction, allowNegative bool) (*domain.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[tx.UserID]
	if !ok {
		return nil, 0, domain.ErrNotFound
	}
	next, err := nextBalance(u.Balance, tx.Amount)
	if err != nil {
		return nil, u.Balance, err // Balance would overflow, nothing written
	}
	if !allowNegative && next < 0 {
		return nil, u.Balance, domain.ErrInsufficientFunds // Overdraft refused, nothing written
	}
	// Both writes happen under the same lock, nothing observes one without the other
	stored := s.insertTransaction(u.ID, tx)
	u.Balance = next
	return &stored, next, nil
}

var _ Store = (*MemoryStore)(nil)
