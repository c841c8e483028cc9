package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/scentory/scentory/internal/common/cnst"
)

// PasswordHasher hashes plaintext passwords for storage
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// InitSuperAdmin creates the configured admin account unless a user with that
// username already exists. It reports whether an account was created.
func InitSuperAdmin(ctx context.Context, db Database, hasher PasswordHasher, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	created := false
	err := db.Transaction(ctx, func(ctx context.Context) error {
		_, err := db.GetUserByUsername(ctx, username)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		hashed, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		if err := db.CreateUser(ctx, &User{
			Username: username,
			Email:    email,
			Password: hashed,
			IsActive: true,
			Role:     cnst.RoleAdmin,
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("init super admin: %w", err)
	}
	return created, nil
}
