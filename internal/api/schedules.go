package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/staffeye/internal/database"
	"github.com/staffeye/internal/models"
	"github.com/staffeye/internal/scheduler"

	"github.com/gin-gonic/gin"
)

type scheduleRequest struct {
	Name       string            `json:"name" binding:"required"`
	Kind       models.ReportKind `json:"kind" binding:"required"`
	CronExpr   string            `json:"cron_expr" binding:"required"`
	DataPeriod models.DataPeriod `json:"data_period"`
	CustomFrom string            `json:"custom_from"`
	CustomTo   string            `json:"custom_to"`
	Department string            `json:"department"`
	Recipients []string          `json:"recipients"`
}

func (s *Server) listSchedules(c *gin.Context) {
	var tasks []models.ScheduledTask
	if err := database.GetDB().Order("created_at desc").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list schedules"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report kind"})
		return
	}
	if err := s.registry.ValidateExpr(req.CronExpr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.ScheduledTask{
		Name:       req.Name,
		Kind:       req.Kind,
		CronExpr:   req.CronExpr,
		DataPeriod: req.DataPeriod,
		CustomFrom: req.CustomFrom,
		CustomTo:   req.CustomTo,
		Department: req.Department,
		Recipients: req.Recipients,
		CreatedBy:  c.GetString("employee_name"),
		Active:     true,
	}
	if task.DataPeriod == "" {
		task.DataPeriod = models.PeriodPreviousDay
	}

	if err := database.GetDB().Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create schedule"})
		return
	}

	// Arm immediately; the persisted row is already the source of truth.
	if err := s.registry.Register(task); err != nil {
		c.JSON(http.StatusCreated, gin.H{"data": task, "warning": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (s *Server) updateSchedule(c *gin.Context) {
	task, ok := s.findSchedule(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report kind"})
		return
	}
	if err := s.registry.ValidateExpr(req.CronExpr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task.Name = req.Name
	task.Kind = req.Kind
	task.CronExpr = req.CronExpr
	task.DataPeriod = req.DataPeriod
	task.CustomFrom = req.CustomFrom
	task.CustomTo = req.CustomTo
	task.Department = req.Department
	task.Recipients = req.Recipients

	if err := database.GetDB().Save(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update schedule"})
		return
	}

	// Unregister-then-register picks up the new expression and fields.
	if err := s.registry.Register(*task); err != nil && !errors.Is(err, scheduler.ErrInvalidSchedule) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (s *Server) toggleSchedule(c *gin.Context) {
	task, ok := s.findSchedule(c)
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task.Active = *req.Active
	if err := database.GetDB().Save(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle schedule"})
		return
	}

	// Register handles both directions: arms when active, tears down when
	// not.
	if err := s.registry.Register(*task); err != nil {
		c.JSON(http.StatusOK, gin.H{"data": task, "warning": err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteSchedule(c *gin.Context) {
	task, ok := s.findSchedule(c)
	if !ok {
		return
	}

	if err := database.GetDB().Delete(task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete schedule"})
		return
	}

	// Bulk mutation path: resync the whole registry with persisted state.
	if err := s.registry.ReloadAll(); err != nil {
		c.JSON(http.StatusOK, gin.H{"warning": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) runScheduleNow(c *gin.Context) {
	task, ok := s.findSchedule(c)
	if !ok {
		return
	}

	s.registry.RunNow(*task)
	c.JSON(http.StatusAccepted, gin.H{"message": "run triggered"})
}

func (s *Server) findSchedule(c *gin.Context) (*models.ScheduledTask, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule ID"})
		return nil, false
	}

	var task models.ScheduledTask
	if err := database.GetDB().First(&task, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return nil, false
	}
	return &task, true
}
