package api

import (
	"alcyxob/gym-membership/internal/domain" // Needed for RoleMiddleware
	"alcyxob/gym-membership/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	loc *time.Location,
	authService service.AuthService,
	memberService service.MemberService,
	planService service.PlanService,
) {
	RegisterValidators()

	authHandler := NewAuthHandler(authService)
	memberHandler := NewMemberHandler(memberService)
	planHandler := NewPlanHandler(planService, loc)

	// Tokens are verified with the same secret the auth service signs them with.
	authMiddleware := AuthMiddleware(authService.GetJWTSecret())
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			// Staff accounts are created by admins; the first admin comes from the admin CLI.
			authGroup.POST("/register", authMiddleware, adminOnly, authHandler.Register)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware, RoleMiddleware(domain.RoleAdmin, domain.RoleStaff))
	{
		protected.GET("/me", func(c *gin.Context) {
			staff, err := staffFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": staff.UserID, "role": staff.Role})
		})

		// --- Member Routes ---
		members := protected.Group("/members")
		{
			members.POST("", memberHandler.CreateMember)
			members.GET("", memberHandler.ListMembers)
			members.GET("/:memberId", memberHandler.GetMember)
			members.PUT("/:memberId", memberHandler.UpdateMember)
			members.DELETE("/:memberId", adminOnly, memberHandler.DeleteMember)

			// --- Training Plan ---
			members.POST("/:memberId/plan", planHandler.StartPlan)
			members.GET("/:memberId/plan", planHandler.GetPlan)
			members.DELETE("/:memberId/plan", planHandler.DeletePlan)

			// --- Attendance ---
			members.POST("/:memberId/attendance", planHandler.RecordAttendance)
			members.PUT("/:memberId/attendance/:recordId", planHandler.EditAttendance)
			members.DELETE("/:memberId/attendance/:recordId", planHandler.DeleteAttendance)

			// --- Plan History ---
			members.GET("/:memberId/history", planHandler.GetHistory)
			members.DELETE("/:memberId/history/:entryId", adminOnly, planHandler.DeleteHistoryEntry)
		}
	}
}
