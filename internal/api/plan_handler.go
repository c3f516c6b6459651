package api

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves training plans, check-ins and plan history of a member.
type PlanHandler struct {
	planService service.PlanService
	loc         *time.Location // Gym time zone, used for plain dates
}

func NewPlanHandler(planService service.PlanService, loc *time.Location) *PlanHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PlanHandler{planService: planService, loc: loc}
}

// --- DTOs ---

type StartPlanRequest struct {
	StartDate      string `json:"startDate" binding:"required"` // YYYY-MM-DD or RFC 3339
	TargetSessions int    `json:"targetSessions" binding:"required,min=1"`
}

type AttendanceRequest struct {
	Timestamp string `json:"timestamp"` // Defaults to now
	Activity  string `json:"activity" binding:"required,activity"`
	Present   *bool  `json:"present"` // Defaults to true
}

type EditAttendanceRequest struct {
	Timestamp string `json:"timestamp" binding:"required"`
	Activity  string `json:"activity" binding:"required,activity"`
}

type AttendanceResponse struct {
	Record            domain.AttendanceRecord  `json:"record"`
	Decremented       bool                     `json:"decremented"`
	RemainingSessions *int                     `json:"remainingSessions,omitempty"`
	CompletedPlan     *domain.PlanHistoryEntry `json:"completedPlan,omitempty"`
}

// --- Plan ---

// StartPlan godoc
// @Summary Start a training plan for a member
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param plan body StartPlanRequest true "Plan"
// @Success 201 {object} PlanStatusResponse
// @Failure 409 {object} gin.H "A plan is already in progress"
// @Router /members/{memberId}/plan [post]
func (h *PlanHandler) StartPlan(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	var req StartPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	startDate, err := parseInstant(req.StartDate, h.loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: startDate "+err.Error())
		return
	}

	plan, err := h.planService.StartPlan(c.Request.Context(), memberID, service.StartPlanInput{
		StartDate:      startDate,
		TargetSessions: req.TargetSessions,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to start training plan.")
		return
	}
	days := plan.DaysRemaining()
	c.JSON(http.StatusCreated, mapPlanStatus(service.PlanStatus{Plan: plan, DaysRemaining: days, Severity: domain.SeverityFor(days)}))
}

// GetPlan godoc
// @Summary Current plan and days remaining
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} PlanStatusResponse
// @Failure 404 {object} gin.H "Member not found or no active plan"
// @Router /members/{memberId}/plan [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	status, err := h.planService.PlanStatus(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve training plan.")
		return
	}
	if status.Plan == nil {
		respondServiceError(c, service.ErrPlanNotFound, "")
		return
	}
	c.JSON(http.StatusOK, mapPlanStatus(status))
}

// DeletePlan godoc
// @Summary Cancel the active plan without archiving it
// @Tags Plans
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 204
// @Router /members/{memberId}/plan [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), memberID); err != nil {
		respondServiceError(c, err, "Failed to delete training plan.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Attendance ---

// RecordAttendance godoc
// @Summary Check a member in
// @Description Strength check-ins on or after the plan start count down the active plan.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param attendance body AttendanceRequest true "Check-in"
// @Success 201 {object} AttendanceResponse
// @Failure 409 {object} gin.H "Already checked in for this activity on that day"
// @Router /members/{memberId}/attendance [post]
func (h *PlanHandler) RecordAttendance(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != "" {
		var err error
		if ts, err = parseInstant(req.Timestamp, h.loc); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: timestamp "+err.Error())
			return
		}
	}
	activity, _ := domain.ParseActivityKind(req.Activity) // checked by the binding tag
	present := req.Present == nil || *req.Present

	out, err := h.planService.RecordAttendance(c.Request.Context(), memberID, service.RecordAttendanceInput{
		Timestamp: ts,
		Activity:  activity,
		Present:   present,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to record attendance.")
		return
	}

	resp := AttendanceResponse{Record: out.Record, Decremented: out.Decremented, CompletedPlan: out.Completed}
	if out.Member.Plan != nil {
		remaining := out.Member.Plan.RemainingSessions
		resp.RemainingSessions = &remaining
	}
	c.JSON(http.StatusCreated, resp)
}

// EditAttendance godoc
// @Summary Correct the time or activity of a check-in
// @Description Plan counters are not recalculated.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param recordId path string true "Attendance record ID"
// @Param attendance body EditAttendanceRequest true "New values"
// @Success 200 {object} domain.AttendanceRecord
// @Router /members/{memberId}/attendance/{recordId} [put]
func (h *PlanHandler) EditAttendance(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	recordID, ok := objectIDParam(c, "recordId")
	if !ok {
		return
	}
	var req EditAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	ts, err := parseInstant(req.Timestamp, h.loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: timestamp "+err.Error())
		return
	}
	activity, _ := domain.ParseActivityKind(req.Activity)

	record, err := h.planService.EditAttendance(c.Request.Context(), memberID, recordID, service.EditAttendanceInput{
		Timestamp: ts,
		Activity:  activity,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to edit attendance.")
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteAttendance godoc
// @Summary Remove a check-in
// @Description Sessions already counted are not given back.
// @Tags Attendance
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param recordId path string true "Attendance record ID"
// @Success 204
// @Router /members/{memberId}/attendance/{recordId} [delete]
func (h *PlanHandler) DeleteAttendance(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	recordID, ok := objectIDParam(c, "recordId")
	if !ok {
		return
	}
	if err := h.planService.DeleteAttendance(c.Request.Context(), memberID, recordID); err != nil {
		respondServiceError(c, err, "Failed to delete attendance.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- History ---

// GetHistory godoc
// @Summary Archived plans of a member
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {array} domain.PlanHistoryEntry
// @Router /members/{memberId}/history [get]
func (h *PlanHandler) GetHistory(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	history, err := h.planService.History(c.Request.Context(), memberID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve plan history.")
		return
	}
	c.JSON(http.StatusOK, history)
}

// DeleteHistoryEntry godoc
// @Summary Delete an archived plan
// @Tags Plans
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param entryId path string true "History entry ID"
// @Success 204
// @Router /members/{memberId}/history/{entryId} [delete]
func (h *PlanHandler) DeleteHistoryEntry(c *gin.Context) {
	memberID, ok := objectIDParam(c, "memberId")
	if !ok {
		return
	}
	entryID, ok := objectIDParam(c, "entryId")
	if !ok {
		return
	}
	if err := h.planService.DeleteHistoryEntry(c.Request.Context(), memberID, entryID); err != nil {
		respondServiceError(c, err, "Failed to delete plan history entry.")
		return
	}
	c.Status(http.StatusNoContent)
}
