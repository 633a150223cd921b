package models

// User roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User represents an identity record: a real account with login capability,
// or a placeholder ("dummy") member created to hold a seat in a scheme.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique among real accounts).
	// Dummies get a synthesized <slug>@dummy.local address.
	Email string `json:"email"`

	// Role is either RoleAdmin or RoleMember.
	Role string `json:"role"`

	// Status is either StatusActive or StatusInactive.
	Status string `json:"status"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for dummy members, which cannot log in.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// UniqueCode is a human-shareable code of the form "#" plus a short
	// alphanumeric suffix. The exact format is deployment-configurable.
	UniqueCode string `json:"uniqueCode"`

	// Avatar is a generated avatar image URL. Display-only.
	Avatar string `json:"avatar"`

	// LastLogin is "Never" until the first successful login, then an
	// RFC3339 timestamp.
	LastLogin string `json:"lastLogin"`

	// IsDummy marks a placeholder member with no credential.
	IsDummy bool `json:"isDummy"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `json:"createdAt"`
}
