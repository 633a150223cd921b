// Package scheme implements the kuri lifecycle engine: scheme creation and
// typed updates, membership, monthly winner rotation under the configured
// policy, per-member payment tracking, and the authorization rules gating
// all of it.
//
// Every mutation reads the whole scheme document, validates the transition,
// applies it in memory, and writes the document back. Two concurrent
// mutations of the same scheme therefore race at document granularity and
// the last write wins; see the storage package for the contract.
package scheme

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nithinkp/kurihub/internal/models"
	"github.com/nithinkp/kurihub/internal/storage"
)

// Engine validates and applies all state transitions on schemes.
// The acting user is passed into every call; the engine never reads
// ambient session state.
type Engine struct {
	store    storage.SchemeStore
	rotation RotationPolicy
	now      func() time.Time
}

// NewEngine creates a lifecycle engine over the given store, running the
// given rotation policy.
func NewEngine(store storage.SchemeStore, rotation RotationPolicy) *Engine {
	return &Engine{
		store:    store,
		rotation: rotation,
		now:      time.Now,
	}
}

// Rotation returns the policy this engine runs.
func (e *Engine) Rotation() RotationPolicy {
	return e.rotation
}

// CreateInput carries the fields accepted at scheme creation.
type CreateInput struct {
	Name          string
	Description   string
	MonthlyAmount float64
	Duration      string // lenient: "12" or "12 months"
	StartDate     string
	KuriTakenDate string
	MemberIDs     []string
	Status        string
	Type          string
	AdminID       string
}

// Create validates and persists a new scheme. Name and a positive monthly
// amount are required. Member-created schemes default to pending status;
// admin-created ones to active. The creator becomes the scheme admin unless
// another admin ID is supplied, and is the sole member when no member list
// is given.
func (e *Engine) Create(ctx context.Context, actor *models.User, in CreateInput) (*models.Scheme, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: actor required", ErrForbidden)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.MonthlyAmount <= 0 {
		return nil, fmt.Errorf("%w: monthly amount must be positive", ErrValidation)
	}

	status := in.Status
	if !validSchemeStatus(status) {
		status = models.SchemePending
		if actor.Role == models.RoleAdmin {
			status = models.SchemeActive
		}
	}

	typ := in.Type
	if typ != models.SchemeExisting {
		typ = models.SchemeNew
	}

	adminID := in.AdminID
	if adminID == "" {
		adminID = actor.ID
	}

	memberIDs := dedup(in.MemberIDs)
	if len(memberIDs) == 0 {
		memberIDs = []string{actor.ID}
	}

	s := &models.Scheme{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Description:   in.Description,
		MonthlyAmount: in.MonthlyAmount,
		Status:        status,
		Type:          typ,
		Duration:      DurationMonths(in.Duration),
		StartDate:     in.StartDate,
		KuriTakenDate: in.KuriTakenDate,
		AdminID:       adminID,
		CreatedBy:     actor.ID,
		MemberIDs:     memberIDs,
		CreatedAt:     e.now().Unix(),
	}

	if err := e.store.CreateScheme(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update carries a typed partial update. Nil fields are left unchanged;
// present fields replace the stored value wholesale, including the member
// list. CreatedBy is deliberately absent: the creator cannot be overwritten
// through an update. Payments, winners, and nominations are not updatable
// here either — those move only through their dedicated operations.
type Update struct {
	Name          *string
	Description   *string
	MonthlyAmount *float64
	Status        *string
	Type          *string
	Duration      *int
	StartDate     *string
	KuriTakenDate *string
	AdminID       *string
	MemberIDs     *[]string
}

// ApplyUpdate validates and applies a typed update to the scheme.
func (e *Engine) ApplyUpdate(ctx context.Context, actor *models.User, id string, upd Update) (*models.Scheme, error) {
	s, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, s) {
		return nil, fmt.Errorf("%w: only the scheme admin or creator can update it", ErrForbidden)
	}

	if upd.MonthlyAmount != nil && *upd.MonthlyAmount <= 0 {
		return nil, fmt.Errorf("%w: monthly amount must be positive", ErrValidation)
	}
	if upd.Status != nil && !validSchemeStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *upd.Status)
	}
	if upd.Type != nil && *upd.Type != models.SchemeNew && *upd.Type != models.SchemeExisting {
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, *upd.Type)
	}

	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Description != nil {
		s.Description = *upd.Description
	}
	if upd.MonthlyAmount != nil {
		s.MonthlyAmount = *upd.MonthlyAmount
	}
	if upd.Status != nil {
		s.Status = *upd.Status
	}
	if upd.Type != nil {
		s.Type = *upd.Type
	}
	if upd.Duration != nil {
		s.Duration = *upd.Duration
	}
	if upd.StartDate != nil {
		s.StartDate = *upd.StartDate
	}
	if upd.KuriTakenDate != nil {
		s.KuriTakenDate = *upd.KuriTakenDate
	}
	if upd.AdminID != nil {
		s.AdminID = *upd.AdminID
	}
	if upd.MemberIDs != nil {
		s.MemberIDs = dedup(*upd.MemberIDs)
	}

	if err := e.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes the scheme entirely, orphaning its payment, winner, and
// nomination history.
func (e *Engine) Delete(ctx context.Context, actor *models.User, id string) error {
	s, err := e.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanManage(actor, s) {
		return fmt.Errorf("%w: only the scheme admin or creator can delete it", ErrForbidden)
	}

	if err := e.store.DeleteScheme(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: scheme %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

// Get retrieves a scheme by ID.
func (e *Engine) Get(ctx context.Context, id string) (*models.Scheme, error) {
	s, err := e.store.GetScheme(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: scheme %s", ErrNotFound, id)
		}
		return nil, err
	}
	return s, nil
}

// ListFor returns the schemes visible to the given user: those they
// administer, belong to, or created. An empty user ID returns everything.
func (e *Engine) ListFor(ctx context.Context, userID string) ([]*models.Scheme, error) {
	all, err := e.store.ListSchemes(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return all, nil
	}

	visible := make([]*models.Scheme, 0, len(all))
	for _, s := range all {
		if Visible(userID, s) {
			visible = append(visible, s)
		}
	}
	return visible, nil
}

// AssignWinner directly sets or clears the winner for a month. Only
// available under the direct rotation policy. An empty member ID clears the
// slot. Assignment replaces any existing winner for the month and is gated
// by the month's taken date.
func (e *Engine) AssignWinner(ctx context.Context, actor *models.User, id string, month int, memberID string) (*models.Scheme, error) {
	if e.rotation != RotationDirect {
		return nil, fmt.Errorf("%w: direct winner assignment is disabled", ErrRotationPolicy)
	}
	if month < 1 {
		return nil, fmt.Errorf("%w: month must be 1 or greater", ErrValidation)
	}

	s, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, s) {
		return nil, fmt.Errorf("%w: only the scheme admin or creator can assign winners", ErrForbidden)
	}

	if memberID != "" {
		if !s.HasMember(memberID) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMember, memberID)
		}
		if start, ok := parseStartDate(s.StartDate); ok {
			if taken := TakenDate(start, month); e.now().Before(taken) {
				return nil, fmt.Errorf("%w: month %d opens %s", ErrTooEarly, month, taken.Format(startDateLayout))
			}
		}
	}

	setWinner(s, month, memberID)

	if err := e.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Nominate records a proposal by the current winner of a month that another
// member take the prize slot. Only available under the nomination rotation
// policy. A pending nomination for the same month is replaced; resolved
// nominations stay in the history.
func (e *Engine) Nominate(ctx context.Context, actor *models.User, id string, month int, nominatedID string) (*models.Nomination, error) {
	if e.rotation != RotationNomination {
		return nil, fmt.Errorf("%w: winner nomination is disabled", ErrRotationPolicy)
	}
	if month < 1 || nominatedID == "" {
		return nil, fmt.Errorf("%w: month and nominated member ID are required", ErrValidation)
	}

	s, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := s.WinnerFor(month)
	if actor == nil || current == nil || current.MemberID != actor.ID {
		return nil, fmt.Errorf("%w: only the current winner can nominate a replacement", ErrForbidden)
	}
	if !s.HasMember(nominatedID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMember, nominatedID)
	}

	nom := models.Nomination{
		Month:             month,
		OriginalWinnerID:  actor.ID,
		NominatedMemberID: nominatedID,
		Status:            models.NominationPending,
		NominatedAt:       e.now().Format(time.RFC3339),
	}

	replaced := false
	for i := range s.Nominations {
		if s.Nominations[i].Month == month && s.Nominations[i].Status == models.NominationPending {
			s.Nominations[i] = nom
			replaced = true
			break
		}
	}
	if !replaced {
		s.Nominations = append(s.Nominations, nom)
	}

	if err := e.save(ctx, s); err != nil {
		return nil, err
	}
	return &nom, nil
}

// DecideNomination resolves the pending nomination for a month. Only the
// scheme's admin may decide. Approval installs the nominated member as the
// month's winner; rejection leaves the winner unchanged. Either way the
// nomination is kept, stamped with its outcome.
func (e *Engine) DecideNomination(ctx context.Context, actor *models.User, id string, month int, approve bool) (*models.Scheme, error) {
	if e.rotation != RotationNomination {
		return nil, fmt.Errorf("%w: winner nomination is disabled", ErrRotationPolicy)
	}
	if month < 1 {
		return nil, fmt.Errorf("%w: month must be 1 or greater", ErrValidation)
	}

	s, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.ID != s.AdminID {
		return nil, fmt.Errorf("%w: only the scheme admin can decide nominations", ErrForbidden)
	}

	nom := s.PendingNominationFor(month)
	if nom == nil {
		// Distinguish "already resolved" from "never nominated".
		for i := range s.Nominations {
			if s.Nominations[i].Month == month {
				return nil, fmt.Errorf("%w: nomination for month %d is already %s", ErrConflict, month, s.Nominations[i].Status)
			}
		}
		return nil, fmt.Errorf("%w: no pending nomination for month %d", ErrNotFound, month)
	}

	if approve {
		setWinner(s, month, nom.NominatedMemberID)
		nom.Status = models.NominationApproved
		nom.ApprovedAt = e.now().Format(time.RFC3339)
	} else {
		nom.Status = models.NominationRejected
		nom.RejectedAt = e.now().Format(time.RFC3339)
	}

	if err := e.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetPayment records a member's contribution status for a month, replacing
// any existing record for the same (member, month) pair. PaidDate is stamped
// with the current time when the status becomes paid; a caller-supplied date
// is honored only for paid status.
func (e *Engine) SetPayment(ctx context.Context, actor *models.User, id, memberID string, month int, status, paidDate string) (*models.Scheme, error) {
	if month < 1 || memberID == "" {
		return nil, fmt.Errorf("%w: member ID and month are required", ErrValidation)
	}
	if status != models.PaymentPaid && status != models.PaymentPending && status != models.PaymentLate {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}

	s, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor, s) {
		return nil, fmt.Errorf("%w: only the scheme admin or creator can mark payments", ErrForbidden)
	}
	if !s.HasMember(memberID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMember, memberID)
	}

	p := models.Payment{
		MemberID: memberID,
		Month:    month,
		Status:   status,
	}
	if status == models.PaymentPaid {
		p.PaidDate = paidDate
		if p.PaidDate == "" {
			p.PaidDate = e.now().Format(time.RFC3339)
		}
	}

	replaced := false
	for i := range s.Payments {
		if s.Payments[i].MemberID == memberID && s.Payments[i].Month == month {
			s.Payments[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		s.Payments = append(s.Payments, p)
	}

	if err := e.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// save writes the whole document back, translating store NotFound.
func (e *Engine) save(ctx context.Context, s *models.Scheme) error {
	if err := e.store.UpdateScheme(ctx, s); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: scheme %s", ErrNotFound, s.ID)
		}
		return err
	}
	return nil
}

// setWinner replaces the winner entry for a month, appending when none
// exists and removing it when memberID is empty. At most one entry per
// month survives.
func setWinner(s *models.Scheme, month int, memberID string) {
	for i := range s.Winners {
		if s.Winners[i].Month == month {
			if memberID == "" {
				s.Winners = append(s.Winners[:i], s.Winners[i+1:]...)
			} else {
				s.Winners[i].MemberID = memberID
			}
			return
		}
	}
	if memberID != "" {
		s.Winners = append(s.Winners, models.Winner{Month: month, MemberID: memberID})
	}
}

// DurationMonths leniently parses a duration field: "12", "12 months", and
// plain integers all normalize to 12. Anything unparseable is 0.
func DurationMonths(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.Atoi(raw[:i])
	if err != nil {
		return 0
	}
	return n
}

func validSchemeStatus(s string) bool {
	switch s {
	case models.SchemePending, models.SchemeActive, models.SchemeCompleted, models.SchemeRejected:
		return true
	}
	return false
}

// dedup preserves first-seen order while dropping repeated IDs.
func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
