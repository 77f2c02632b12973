package models

import (
	"gorm.io/gorm"
)

// Report is the persisted metadata of one generated report. The CSV payload
// itself is rendered on demand from the stored criteria so that the download
// endpoint and the email attachment share one code path.
type Report struct {
	gorm.Model
	Name        string     `gorm:"not null" json:"name"`
	Kind        ReportKind `gorm:"not null" json:"kind"`
	Department  string     `json:"department"`
	DateFrom    string     `json:"date_from"` // YYYY-MM-DD
	DateTo      string     `json:"date_to"`
	RecordCount int        `json:"record_count"`
	CreatedBy   string     `json:"created_by"`
}
