package api

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/repository"
	"alcyxob/gym-membership/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// --- DTOs ---

type CreateMemberRequest struct {
	Name  string `json:"name" binding:"required,max=120"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

type UpdateMemberRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=120"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
}

type ListMembersQuery struct {
	Search   string `form:"search"`
	WithPlan bool   `form:"withPlan"`
	Limit    int64  `form:"limit" binding:"omitempty,min=1,max=500"`
}

// PlanStatusResponse is the days-remaining indicator shown next to a member.
type PlanStatusResponse struct {
	StartDate         time.Time       `json:"startDate"`
	TargetSessions    int             `json:"targetSessions"`
	RemainingSessions int             `json:"remainingSessions"`
	DaysRemaining     int             `json:"daysRemaining"`
	Severity          domain.Severity `json:"severity"`
}

type MemberListItem struct {
	ID    string              `json:"id"`
	Name  string              `json:"name"`
	Email string              `json:"email,omitempty"`
	Phone string              `json:"phone,omitempty"`
	Plan  *PlanStatusResponse `json:"plan"` // null when the member has no active plan
}

func mapPlanStatus(s service.PlanStatus) *PlanStatusResponse {
	if s.Plan == nil {
		return nil
	}
	return &PlanStatusResponse{
		StartDate:         s.Plan.StartDate,
		TargetSessions:    s.Plan.TargetSessions,
		RemainingSessions: s.Plan.RemainingSessions,
		DaysRemaining:     s.DaysRemaining,
		Severity:          s.Severity,
	}
}

// --- Handler Methods ---

// CreateMember godoc
// @Summary Register a gym member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param member body CreateMemberRequest true "Member details"
// @Success 201 {object} domain.Member
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already used by another member"
// @Router /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	member, err := h.memberService.Register(c.Request.Context(), service.RegisterMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to register member.")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// ListMembers godoc
// @Summary List members with their plan status
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or email contains"
// @Param withPlan query bool false "Only members with an active plan"
// @Success 200 {array} MemberListItem
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var q ListMembersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	rows, err := h.memberService.List(c.Request.Context(), repository.MemberFilter{
		Search:       q.Search,
		WithPlanOnly: q.WithPlan,
		Limit:        q.Limit,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve members.")
		return
	}

	items := make([]MemberListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MemberListItem{
			ID:    row.Member.ID.Hex(),
			Name:  row.Member.Name,
			Email: row.Member.Email,
			Phone: row.Member.Phone,
			Plan:  mapPlanStatus(row.Status),
		})
	}
	c.JSON(http.StatusOK, items)
}

// GetMember godoc
// @Summary Get a member with attendance, plan and history
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} domain.Member
// @Failure 404 {object} gin.H "Member not found"
// @Router /members/{memberId} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	member, err := h.memberService.Get(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve member.")
		return
	}
	c.JSON(http.StatusOK, member)
}

// UpdateMember godoc
// @Summary Update contact data of a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param member body UpdateMemberRequest true "Fields to change"
// @Success 200 {object} domain.Member
// @Router /members/{memberId} [put]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), memberID, service.UpdateMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update member.")
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteMember godoc
// @Summary Delete a member and everything recorded for them
// @Tags Members
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 204
// @Router /members/{memberId} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	if err := h.memberService.Delete(c.Request.Context(), memberID); err != nil {
		respondServiceError(c, err, "Failed to delete member.")
		return
	}
	c.Status(http.StatusNoContent)
}
