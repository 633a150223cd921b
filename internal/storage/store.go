// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/nithinkp/kurihub/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for identity and scheme persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine or handlers.
type Store interface {
	UserStore
	SchemeStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists identity records.
type UserStore interface {
	// CreateUser persists a new user. The user.ID field must be set by
	// the caller.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. IDs with no
	// matching record are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// ListUsers retrieves all users, newest first.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateUser overwrites an existing user.
	// Returns ErrNotFound if the ID is absent.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes a user. Returns ErrNotFound if the ID is absent.
	// Scheme member lists referencing the ID are left untouched.
	DeleteUser(ctx context.Context, id string) error
}

// SchemeStore persists schemes as whole documents. UpdateScheme overwrites
// the entire stored document: two concurrent read-modify-write sequences on
// the same scheme race, and the last write wins. Callers adding a single
// payment or winner must read the current document, modify it, and submit it
// back in full.
type SchemeStore interface {
	// CreateScheme persists a new scheme document.
	CreateScheme(ctx context.Context, scheme *models.Scheme) error

	// GetScheme retrieves a scheme by ID. Returns ErrNotFound when absent.
	GetScheme(ctx context.Context, id string) (*models.Scheme, error)

	// ListSchemes retrieves all schemes, newest first.
	ListSchemes(ctx context.Context) ([]*models.Scheme, error)

	// UpdateScheme overwrites the stored document for scheme.ID.
	// Returns ErrNotFound if the ID is absent.
	UpdateScheme(ctx context.Context, scheme *models.Scheme) error

	// DeleteScheme removes a scheme and its embedded payment, winner, and
	// nomination history. Returns ErrNotFound if the ID is absent.
	DeleteScheme(ctx context.Context, id string) error
}
