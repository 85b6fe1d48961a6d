// Package auth verifies credentials, records logins and bootstraps the admin account.
package auth

import (
	"context"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/store"
	"digital_wallet/internal/utils"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Service implements registration and authentication on top of a Store
type Service struct {
	store store.Store
	hash  func(string) (string, error)
}

// NewService returns a Service using bcrypt for password hashing
func NewService(s store.Store) *Service {
	return &Service{store: s, hash: utils.HashPassword}
}

// Register creates a regular user after checking username and email are free
func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, &domain.DuplicateError{Field: "username"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, &domain.DuplicateError{Field: "email"}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	// The store re-checks uniqueness, so a concurrent registration still fails cleanly
	user, err := s.store.CreateUser(ctx, domain.NewUser(username, email, hash))
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")
	return user, nil
}

// Authenticate returns the user whose credentials match. Unknown users and
// wrong passwords both yield domain.ErrInvalidCredentials. Banned users
// authenticate normally; ban is enforced per request.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// RecordLogin stores the login ip and time and flags ips shared by several accounts
func (s *Service) RecordLogin(ctx context.Context, userID uint, ip string) (*domain.User, error) {
	if err := s.store.UpdateLastLogin(ctx, userID, ip); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	if accounts, err := s.store.DetectMultipleAccounts(ctx, ip); err == nil && len(accounts) > 1 {
		ids := make([]uint, len(accounts))
		for i, u := range accounts {
			ids[i] = u.ID
		}
		logrus.WithFields(logrus.Fields{
			"ip":       ip,
			"user_ids": ids,
		}).Warn("Multiple accounts logged in from the same ip")
	}
	return s.store.GetUser(ctx, userID)
}

// BootstrapAdmin creates the admin account if no user with that username exists.
// It reports whether an account was created.
func (s *Service) BootstrapAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	hash, err := s.hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin, err := s.store.CreateAdminUser(ctx, domain.NewUser(username, email, hash))
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	logrus.WithField("user_id", admin.ID).Info("Bootstrap admin created")
	return true, nil
}
