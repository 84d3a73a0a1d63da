package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a row in the users table.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DBAuthenticator checks bcrypt password hashes stored in SQLite.
type DBAuthenticator struct {
	db *gorm.DB
}

// OpenDBAuthenticator opens (creating if needed) the user database at path.
// Use ":memory:" for an ephemeral store.
func OpenDBAuthenticator(path string) (*DBAuthenticator, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return &DBAuthenticator{db: db}, nil
}

func (a *DBAuthenticator) Authenticate(ctx context.Context, username, password string) (Role, error) {
	var u User
	err := a.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAuthFailure
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailure
	}
	return ParseRole(u.Role)
}

// Register creates or replaces a user.
func (a *DBAuthenticator) Register(ctx context.Context, username, password string, role Role) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var u User
	err = a.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = User{Username: username}
	case err != nil:
		return fmt.Errorf("lookup user: %w", err)
	}
	u.PasswordHash = string(hash)
	u.Role = string(role)
	if err := a.db.WithContext(ctx).Save(&u).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Count returns the number of registered users.
func (a *DBAuthenticator) Count(ctx context.Context) (int64, error) {
	var n int64
	err := a.db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}

// Seed registers entries ("username:password:Role") when the table is empty.
func (a *DBAuthenticator) Seed(ctx context.Context, entries []string) error {
	n, err := a.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	static, err := NewStaticAuthenticator(entries)
	if err != nil {
		return err
	}
	for name, u := range static.users {
		if err := a.Register(ctx, name, u.password, u.role); err != nil {
			return err
		}
	}
	return nil
}

func (a *DBAuthenticator) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
