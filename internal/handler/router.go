package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/middleware"
	"github.com/noah-isme/smart-attendance-api/internal/models"
)

// Routes groups the handlers mounted under the API prefix.
type Routes struct {
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Leaves     *LeaveHandler
	Users      *UserHandler
	Dashboard  *DashboardHandler
}

// Register mounts every API route on r under prefix. tokens verifies bearer
// tokens for protected routes.
func (rt Routes) Register(r gin.IRouter, prefix string, tokens middleware.TokenVerifier) {
	api := r.Group(prefix)
	auth := middleware.JWT(tokens)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	self := middleware.AdminOrSelf("user_id")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", rt.Auth.Login)
	authGroup.POST("/register", rt.Auth.Register)
	authGroup.GET("/me", auth, rt.Auth.Me)

	attendance := api.Group("/attendance", auth)
	attendance.POST("/check-in", rt.Attendance.CheckIn)
	attendance.POST("/check-out", rt.Attendance.CheckOut)
	attendance.GET("/all", adminOnly, rt.Attendance.List)
	attendance.GET("/history/:user_id", self, rt.Attendance.History)
	attendance.GET("/:user_id", self, rt.Attendance.Today)

	leaves := api.Group("/leaves", auth)
	leaves.POST("/request", rt.Leaves.Request)
	leaves.GET("/user/:user_id", self, rt.Leaves.ListForUser)
	leaves.GET("/pending", adminOnly, rt.Leaves.ListPending)
	leaves.POST("/approve/:id", adminOnly, rt.Leaves.Approve)
	leaves.POST("/reject/:id", adminOnly, rt.Leaves.Reject)

	users := api.Group("/users", auth, adminOnly)
	users.GET("", rt.Users.List)
	users.GET("/:id", rt.Users.Get)
	users.POST("", rt.Users.Create)
	users.PUT("/:id", rt.Users.Update)
	users.DELETE("/:id", rt.Users.Delete)

	dashboard := api.Group("/dashboard", auth, adminOnly, middleware.WithResponseMeta())
	dashboard.GET("/stats", rt.Dashboard.Stats)
	dashboard.GET("/attendance-chart", rt.Dashboard.AttendanceChart)
	dashboard.GET("/employee-performance", rt.Dashboard.EmployeePerformance)
	dashboard.GET("/monthly-report", rt.Dashboard.MonthlyReport)
	dashboard.GET("/monthly-report/export", rt.Dashboard.ExportMonthlyReport)
}
