package api

import (
	"fmt"
	"net/http"

	"github.com/staffeye/internal/auth"
	"github.com/staffeye/internal/database"
	"github.com/staffeye/internal/models"
	"github.com/staffeye/internal/report"
	"github.com/staffeye/internal/scheduler"

	"github.com/gin-gonic/gin"
)

type Server struct {
	registry   *scheduler.Registry
	aggregator *report.Aggregator
	router     *gin.Engine
}

func NewServer(registry *scheduler.Registry, aggregator *report.Aggregator) *Server {
	server := &Server{
		registry:   registry,
		aggregator: aggregator,
		router:     gin.Default(),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Public routes
	s.router.POST("/api/v1/auth/login", s.login)

	// Protected routes (require authentication)
	api := s.router.Group("/api/v1")
	api.Use(auth.AuthMiddleware())

	// Employee directory endpoints
	api.GET("/employees", auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), s.listEmployees)

	// Report endpoints
	reports := api.Group("/reports")
	{
		reports.GET("", s.listReports)
		reports.POST("/generate", auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin), s.generateReport)
		reports.GET("/:id/download", s.downloadReport)
	}

	// Schedule management endpoints
	schedules := api.Group("/reports/schedules")
	schedules.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	{
		schedules.GET("", s.listSchedules)
		schedules.POST("", s.createSchedule)
		schedules.PUT("/:id", s.updateSchedule)
		schedules.PUT("/:id/toggle", s.toggleSchedule)
		schedules.DELETE("/:id", s.deleteSchedule)
		schedules.POST("/:id/run", s.runScheduleNow)
	}
}

func (s *Server) Start(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

func (s *Server) login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var employee models.Employee
	if err := database.GetDB().Where("email = ?", loginReq.Email).First(&employee).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !employee.CheckPassword(loginReq.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(&employee)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) listEmployees(c *gin.Context) {
	query := database.GetDB().Model(&models.Employee{})
	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list employees"})
		return
	}

	c.JSON(http.StatusOK, employees)
}
