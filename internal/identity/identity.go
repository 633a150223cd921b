// Package identity manages user records: account creation, placeholder
// ("dummy") members, unique-code generation, and roster resolution for
// scheme member lists.
package identity

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nithinkp/kurihub/internal/models"
	"github.com/nithinkp/kurihub/internal/storage"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrMissingFields  = errors.New("name and email are required")
)

// Unique-code formats. Both appear in the wild; a deployment picks one.
const (
	// CodeStrict is "#" + 3 uppercase letters + 3 digits, e.g. "#KQR204".
	CodeStrict = "strict"
	// CodeBase36 is "#" + 6 uppercase base36 characters, e.g. "#A4X09Z".
	CodeBase36 = "base36"
)

// placeholderCode marks a roster entry synthesized for a dangling member ID.
const placeholderCode = "#PENDING"

// Service manages identity records through a storage.UserStore.
type Service struct {
	users      storage.UserStore
	codeFormat string
}

// NewService creates an identity service. codeFormat is CodeStrict or
// CodeBase36; anything else falls back to CodeBase36.
func NewService(users storage.UserStore, codeFormat string) *Service {
	if codeFormat != CodeStrict {
		codeFormat = CodeBase36
	}
	return &Service{users: users, codeFormat: codeFormat}
}

// CreateUserInput carries the fields accepted when creating a user.
type CreateUserInput struct {
	Name         string
	Email        string
	Role         string
	PasswordHash string
	IsDummy      bool
}

// CreateUser persists a new user record. Name and email are required; role
// defaults to member. Fails with ErrDuplicateEmail when the address is
// already registered.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Name == "" || in.Email == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	user := s.newUser(in.Name, in.Email, in.Role)
	user.PasswordHash = in.PasswordHash
	user.IsDummy = in.IsDummy

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// CreateDummy persists a placeholder member with a synthesized identity.
// The record is a first-class store write so every viewer resolves the
// placeholder identically. Dummies carry no credential and cannot log in.
func (s *Service) CreateDummy(ctx context.Context, name string) (*models.User, error) {
	if name == "" {
		return nil, ErrMissingFields
	}

	email := fmt.Sprintf("%s@dummy.local", slug(name))
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		// Same name twice; disambiguate with an ID fragment.
		email = fmt.Sprintf("%s_%s@dummy.local", slug(name), uuid.New().String()[:8])
	}

	user := s.newUser(name, email, models.RoleMember)
	user.IsDummy = true

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create dummy member: %w", err)
	}

	return user, nil
}

// Roster resolves an ordered member-ID list into display identities.
// IDs with no matching record get a synthesized placeholder entry, so the
// result always has one entry per input ID and never fails on dangling
// references.
func (s *Service) Roster(ctx context.Context, memberIDs []string) ([]*models.User, error) {
	found, err := s.users.GetUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roster: %w", err)
	}

	roster := make([]*models.User, 0, len(memberIDs))
	for _, id := range memberIDs {
		if user, ok := found[id]; ok {
			roster = append(roster, user)
			continue
		}
		roster = append(roster, Placeholder(id))
	}

	return roster, nil
}

// Placeholder synthesizes a display identity for a member ID with no
// surviving user record.
func Placeholder(memberID string) *models.User {
	frag := memberID
	if len(frag) > 8 {
		frag = frag[:8]
	}
	return &models.User{
		ID:         memberID,
		Name:       fmt.Sprintf("Member %s", frag),
		Email:      fmt.Sprintf("placeholder_%s@dummy.local", memberID),
		Role:       models.RoleMember,
		Status:     models.StatusInactive,
		LastLogin:  "Never",
		Avatar:     "https://ui-avatars.com/api/?name=Placeholder&background=94a3b8&color=fff",
		UniqueCode: placeholderCode,
		IsDummy:    true,
	}
}

// NewCode generates a unique code in the configured format.
func (s *Service) NewCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const digits = "0123456789"
	const base36 = letters + digits

	var b strings.Builder
	b.WriteByte('#')
	switch s.codeFormat {
	case CodeStrict:
		for i := 0; i < 3; i++ {
			b.WriteByte(letters[rand.Intn(len(letters))])
		}
		for i := 0; i < 3; i++ {
			b.WriteByte(digits[rand.Intn(len(digits))])
		}
	default:
		for i := 0; i < 6; i++ {
			b.WriteByte(base36[rand.Intn(len(base36))])
		}
	}
	return b.String()
}

// AvatarURL builds a generated avatar image URL for a display name.
func AvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random&color=fff",
		url.QueryEscape(name))
}

// newUser builds a user record with all synthesized fields populated.
func (s *Service) newUser(name, email, role string) *models.User {
	if role != models.RoleAdmin {
		role = models.RoleMember
	}
	return &models.User{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      email,
		Role:       role,
		Status:     models.StatusActive,
		LastLogin:  "Never",
		UniqueCode: s.NewCode(),
		Avatar:     AvatarURL(name),
		CreatedAt:  time.Now().Unix(),
	}
}

// slug lowercases a name and strips whitespace for synthesized addresses.
func slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
