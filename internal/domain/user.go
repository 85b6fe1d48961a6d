package domain

import "time" // Time for login and creation timestamps

// User Model
type User struct {
	ID               uint          `gorm:"primaryKey" json:"id"`                                   // Primary key
	Username         string        `gorm:"size:64;uniqueIndex;not null" json:"username"`           // Unique username
	Email            string        `gorm:"size:255;uniqueIndex;not null" json:"email"`             // Unique email
	Password         string        `gorm:"not null" json:"-"`                                      // Hashed password, never serialized
	Balance          int64         `gorm:"not null;default:0" json:"balance"`                      // Balance in minor units (cents)
	IsAdmin          bool          `gorm:"not null;default:false" json:"isAdmin"`                  // Administrator flag
	IsBanned         bool          `gorm:"not null;default:false" json:"isBanned"`                 // Ban flag, checked per request
	LastLoginIP      *string       `gorm:"size:64;index" json:"lastLoginIp"`                       // IP of the last login
	LastLoginTime    *time.Time    `json:"lastLoginTime"`                                          // Time of the last login
	CreatedAt        time.Time     `gorm:"not null" json:"createdAt"`                              // Creation time
	ExperiencePoints int           `gorm:"not null;default:0" json:"experiencePoints"`             // Experience points
	Level            int           `gorm:"not null;default:1" json:"level"`                        // Level, starts at 1
	Transactions     []Transaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-many relationship with Transaction
}

// NewUser returns a user with registration defaults applied
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username: username,
		Email:    email,
		Password: passwordHash,
		Level:    1,
	}
}
