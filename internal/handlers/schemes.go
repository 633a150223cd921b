package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nithinkp/kurihub/internal/identity"
	"github.com/nithinkp/kurihub/internal/middleware"
	"github.com/nithinkp/kurihub/internal/models"
	"github.com/nithinkp/kurihub/internal/scheme"
)

// SchemeHandler serves the kuri endpoints: CRUD, winner rotation, payments,
// and collection analytics.
type SchemeHandler struct {
	engine   *scheme.Engine
	identity *identity.Service
}

// NewSchemeHandler creates a scheme handler.
func NewSchemeHandler(engine *scheme.Engine, ids *identity.Service) *SchemeHandler {
	return &SchemeHandler{engine: engine, identity: ids}
}

// List returns the schemes visible to the requested user, or all schemes
// when no userId filter is given.
func (h *SchemeHandler) List(c *gin.Context) {
	schemes, err := h.engine.ListFor(c.Request.Context(), c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if schemes == nil {
		schemes = []*models.Scheme{}
	}
	c.JSON(http.StatusOK, schemes)
}

// schemeWithMembers bundles a scheme with its resolved display roster.
type schemeWithMembers struct {
	*models.Scheme
	Members []*models.User `json:"members"`
}

// Get returns one scheme with its member roster resolved. Dangling member
// IDs come back as synthesized placeholders; the roster never fails.
func (h *SchemeHandler) Get(c *gin.Context) {
	s, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	members, err := h.identity.Roster(c.Request.Context(), s.MemberIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, schemeWithMembers{Scheme: s, Members: members})
}

type createSchemeRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	MonthlyAmount float64  `json:"monthlyAmount"`
	Duration      string   `json:"duration"`
	StartDate     string   `json:"startDate"`
	KuriTakenDate string   `json:"kuriTakenDate"`
	MemberIDs     []string `json:"memberIds"`
	Status        string   `json:"status"`
	Type          string   `json:"type"`
	AdminID       string   `json:"adminId"`
}

// Create validates and persists a new scheme on behalf of the actor.
func (h *SchemeHandler) Create(c *gin.Context) {
	var req createSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}

	s, err := h.engine.Create(c.Request.Context(), middleware.Actor(c), scheme.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		MonthlyAmount: req.MonthlyAmount,
		Duration:      req.Duration,
		StartDate:     req.StartDate,
		KuriTakenDate: req.KuriTakenDate,
		MemberIDs:     req.MemberIDs,
		Status:        req.Status,
		Type:          req.Type,
		AdminID:       req.AdminID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Scheme created", "scheme_id", s.ID, "name", s.Name, "created_by", s.CreatedBy)
	c.JSON(http.StatusCreated, s)
}

type updateSchemeRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	MonthlyAmount *float64  `json:"monthlyAmount"`
	Status        *string   `json:"status"`
	Type          *string   `json:"type"`
	Duration      *int      `json:"duration"`
	StartDate     *string   `json:"startDate"`
	KuriTakenDate *string   `json:"kuriTakenDate"`
	AdminID       *string   `json:"adminId"`
	MemberIDs     *[]string `json:"memberIds"`
}

// Update applies a typed partial update. Absent fields stay untouched;
// present fields replace the stored value wholesale.
func (h *SchemeHandler) Update(c *gin.Context) {
	var req updateSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}

	s, err := h.engine.ApplyUpdate(c.Request.Context(), middleware.Actor(c), c.Param("id"), scheme.Update{
		Name:          req.Name,
		Description:   req.Description,
		MonthlyAmount: req.MonthlyAmount,
		Status:        req.Status,
		Type:          req.Type,
		Duration:      req.Duration,
		StartDate:     req.StartDate,
		KuriTakenDate: req.KuriTakenDate,
		AdminID:       req.AdminID,
		MemberIDs:     req.MemberIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// Delete removes a scheme and its embedded history.
func (h *SchemeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.engine.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Scheme deleted", "scheme_id", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Kuri deleted"})
}

type assignWinnerRequest struct {
	Month    int    `json:"month"`
	MemberID string `json:"memberId"`
}

// AssignWinner directly sets or clears a month's winner (direct rotation
// policy only). An empty memberId clears the slot.
func (h *SchemeHandler) AssignWinner(c *gin.Context) {
	var req assignWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}

	s, err := h.engine.AssignWinner(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Month, req.MemberID)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Winner assigned", "scheme_id", s.ID, "month", req.Month, "member_id", req.MemberID)
	c.JSON(http.StatusOK, gin.H{"success": true, "kuri": s})
}

type nominateRequest struct {
	Month             int    `json:"month"`
	NominatedMemberID string `json:"nominatedMemberId"`
}

// Nominate records the current winner's hand-off proposal for a month
// (nomination rotation policy only).
func (h *SchemeHandler) Nominate(c *gin.Context) {
	var req nominateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}
	if req.Month == 0 || req.NominatedMemberID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "month and nominated member ID are required", "code": "Validation"})
		return
	}

	nom, err := h.engine.Nominate(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Month, req.NominatedMemberID)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Winner nominated", "scheme_id", c.Param("id"), "month", nom.Month, "nominated", nom.NominatedMemberID)
	c.JSON(http.StatusOK, gin.H{"success": true, "nomination": nom})
}

type decideNominationRequest struct {
	Month   int   `json:"month"`
	Approve *bool `json:"approve"`
}

// DecideNomination approves or rejects the pending nomination for a month
// (scheme admin only).
func (h *SchemeHandler) DecideNomination(c *gin.Context) {
	var req decideNominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}
	if req.Month == 0 || req.Approve == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "month and approve status are required", "code": "Validation"})
		return
	}

	s, err := h.engine.DecideNomination(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Month, *req.Approve)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Nomination decided", "scheme_id", s.ID, "month", req.Month, "approved", *req.Approve)
	c.JSON(http.StatusOK, gin.H{"success": true, "kuri": s})
}

type setPaymentRequest struct {
	MemberID string `json:"memberId"`
	Month    int    `json:"month"`
	Status   string `json:"status"`
	PaidDate string `json:"paidDate"`
}

// SetPayment marks a member's contribution status for a month, replacing
// any prior record for the same pair.
func (h *SchemeHandler) SetPayment(c *gin.Context) {
	var req setPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body", "code": "Validation"})
		return
	}

	s, err := h.engine.SetPayment(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.MemberID, req.Month, req.Status, req.PaidDate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "kuri": s})
}

// Collection returns the month's collection analytics. Only an admin/owner
// sees the breakdown.
func (h *SchemeHandler) Collection(c *gin.Context) {
	month, err := strconv.Atoi(c.DefaultQuery("month", "1"))
	if err != nil || month < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "month must be a positive integer", "code": "Validation"})
		return
	}

	s, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !scheme.CanManage(middleware.Actor(c), s) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "only the scheme admin or creator can view collection detail", "code": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, scheme.MonthlyCollection(s, month))
}

// MyPayment returns only the caller's own paid status for the selected
// month — the view a plain member is allowed.
func (h *SchemeHandler) MyPayment(c *gin.Context) {
	month, err := strconv.Atoi(c.DefaultQuery("month", "1"))
	if err != nil || month < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "month must be a positive integer", "code": "Validation"})
		return
	}

	s, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	actor := middleware.Actor(c)
	c.JSON(http.StatusOK, gin.H{
		"month":   month,
		"hasPaid": scheme.HasPaid(s, actor.ID, month),
	})
}
