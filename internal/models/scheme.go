package models

// Scheme statuses.
const (
	SchemePending   = "pending"
	SchemeActive    = "active"
	SchemeCompleted = "completed"
	SchemeRejected  = "rejected"
)

// Scheme types.
const (
	SchemeNew      = "new"
	SchemeExisting = "existing"
)

// Payment statuses.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
	PaymentLate    = "late"
)

// Nomination statuses.
const (
	NominationPending  = "pending"
	NominationApproved = "approved"
	NominationRejected = "rejected"
)

// Scheme is the aggregate root for one kuri (rotating-savings group).
// The whole value is persisted as a single document; updates replace
// top-level fields wholesale, including the slices.
type Scheme struct {
	// ID is the unique identifier for the scheme (UUID format).
	ID string `json:"id"`

	// Name is the display name of the scheme.
	Name string `json:"name"`

	// Description is free text.
	Description string `json:"description"`

	// MonthlyAmount is the fixed contribution each member owes per month.
	MonthlyAmount float64 `json:"monthlyAmount"`

	// Status is one of SchemePending, SchemeActive, SchemeCompleted,
	// SchemeRejected. Member-created schemes start pending; admin-created
	// schemes start active.
	Status string `json:"status"`

	// Type is SchemeNew or SchemeExisting.
	Type string `json:"type"`

	// Duration is the nominal total month count.
	Duration int `json:"duration"`

	// StartDate anchors month-to-date arithmetic, formatted "2006-01-02".
	StartDate string `json:"startDate"`

	// KuriTakenDate is a free-form date note carried for display.
	KuriTakenDate string `json:"kuriTakenDate,omitempty"`

	// AdminID is the member responsible for managing the scheme.
	// May dangle; never cross-checked against MemberIDs.
	AdminID string `json:"adminId"`

	// CreatedBy is the original creator. Immutable after creation.
	CreatedBy string `json:"createdBy"`

	// MemberIDs is the ordered set of member IDs (insertion order, unique).
	MemberIDs []string `json:"memberIds"`

	// Payments holds at most one entry per (member, month) pair.
	Payments []Payment `json:"payments,omitempty"`

	// Winners holds at most one entry per month.
	Winners []Winner `json:"winners,omitempty"`

	// Nominations holds at most one pending entry per month; resolved
	// entries are retained as history.
	Nominations []Nomination `json:"nominations,omitempty"`

	// CreatedAt is the Unix timestamp when the scheme was created.
	CreatedAt int64 `json:"createdAt"`
}

// Payment is one member's contribution record for one month.
// A new status for the same (member, month) pair replaces the prior entry.
type Payment struct {
	MemberID string `json:"memberId"`
	Month    int    `json:"month"`
	Status   string `json:"status"`

	// PaidDate is set (RFC3339) only when Status is PaymentPaid.
	PaidDate string `json:"paidDate,omitempty"`
}

// Winner records the prize recipient for one month.
type Winner struct {
	Month    int    `json:"month"`
	MemberID string `json:"memberId"`
}

// Nomination is a proposal by the current winner of a month that another
// member take the prize slot, resolved by the scheme admin.
type Nomination struct {
	Month              int    `json:"month"`
	OriginalWinnerID   string `json:"originalWinnerId"`
	NominatedMemberID  string `json:"nominatedMemberId"`
	Status             string `json:"status"`
	NominatedAt        string `json:"nominatedAt"`
	ApprovedAt         string `json:"approvedAt,omitempty"`
	RejectedAt         string `json:"rejectedAt,omitempty"`
}

// WinnerFor returns the winner entry for the given month, or nil.
func (s *Scheme) WinnerFor(month int) *Winner {
	for i := range s.Winners {
		if s.Winners[i].Month == month {
			return &s.Winners[i]
		}
	}
	return nil
}

// PaymentFor returns the payment entry for the given member and month, or nil.
func (s *Scheme) PaymentFor(memberID string, month int) *Payment {
	for i := range s.Payments {
		if s.Payments[i].MemberID == memberID && s.Payments[i].Month == month {
			return &s.Payments[i]
		}
	}
	return nil
}

// PendingNominationFor returns the pending nomination for the given month,
// or nil. Resolved nominations are not considered.
func (s *Scheme) PendingNominationFor(month int) *Nomination {
	for i := range s.Nominations {
		if s.Nominations[i].Month == month && s.Nominations[i].Status == NominationPending {
			return &s.Nominations[i]
		}
	}
	return nil
}

// HasMember reports whether the given ID is part of the scheme's membership.
func (s *Scheme) HasMember(id string) bool {
	for _, m := range s.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
