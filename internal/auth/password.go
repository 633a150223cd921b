package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nithinkp/kurihub/internal/identity"
	"github.com/nithinkp/kurihub/internal/models"
	"github.com/nithinkp/kurihub/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// PasswordAuthenticator implements password-based authentication using bcrypt.
// Registration routes through the identity service so new accounts get the
// same synthesized fields (unique code, avatar) as admin-created users.
type PasswordAuthenticator struct {
	users    storage.UserStore
	identity *identity.Service
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(users storage.UserStore, ids *identity.Service) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		users:    users,
		identity: ids,
	}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new member account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.identity.CreateUser(ctx, identity.CreateUserInput{
		Name:         displayName,
		Email:        email,
		Role:         models.RoleMember,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
// Dummy members have no credential and always fail authentication.
// A successful login stamps the user's LastLogin field.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.IsDummy || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.LastLogin = time.Now().Format(time.RFC3339)
	if err := a.users.UpdateUser(ctx, user); err != nil {
		// Login still succeeds; the stamp is best-effort.
		return user, nil
	}

	return user, nil
}
