package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/staffeye/internal/database"
	"github.com/staffeye/internal/models"
	"github.com/staffeye/internal/report"

	"github.com/gin-gonic/gin"
)

var reportNames = map[models.ReportKind]string{
	models.ReportGeneral:        "Personnel Master List",
	models.ReportMovement:       "Personnel Movement Report",
	models.ReportClassification: "Classification & Tag Report",
}

func (s *Server) listReports(c *gin.Context) {
	var reports []models.Report
	if err := database.GetDB().Order("created_at desc").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (s *Server) generateReport(c *gin.Context) {
	var req struct {
		Kind       models.ReportKind `json:"kind" binding:"required"`
		DateFrom   string            `json:"date_from"`
		DateTo     string            `json:"date_to"`
		Department string            `json:"department"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report kind"})
		return
	}

	window := criteriaWindow(req.DateFrom, req.DateTo, time.Now())
	table, err := s.aggregator.Aggregate(req.Kind, window, req.Department)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	name := reportNames[req.Kind]
	if req.Department != "" {
		name = fmt.Sprintf("%s - %s", name, req.Department)
	}

	rec := models.Report{
		Name:        name,
		Kind:        req.Kind,
		Department:  req.Department,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		RecordCount: len(table.Rows),
		CreatedBy:   c.GetString("employee_name"),
	}
	if err := database.GetDB().Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// downloadReport re-renders the CSV from the stored criteria. Same
// aggregation and codec as the email attachment path, so the bytes are
// identical for identical criteria.
func (s *Server) downloadReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report ID"})
		return
	}

	var rec models.Report
	if err := database.GetDB().First(&rec, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	window := criteriaWindow(rec.DateFrom, rec.DateTo, time.Now())
	table, err := s.aggregator.Aggregate(rec.Kind, window, rec.Department)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payload, err := report.EncodeCSV(table)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := report.Filename(rec.Kind, rec.CreatedAt)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// criteriaWindow turns optional YYYY-MM-DD bounds into a concrete window:
// open bounds span from the epoch to now.
func criteriaWindow(fromStr, toStr string, now time.Time) report.Window {
	from := time.Unix(0, 0)
	if t, err := time.ParseInLocation("2006-01-02", fromStr, now.Location()); err == nil {
		from = t
	}
	to := now
	if t, err := time.ParseInLocation("2006-01-02", toStr, now.Location()); err == nil {
		to = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, now.Location())
	}
	if to.After(now) {
		to = now
	}
	return report.Window{From: from, To: to}
}
