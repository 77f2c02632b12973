package models

import (
	"time"

	"gorm.io/gorm"
)

type ReportKind string

const (
	ReportGeneral        ReportKind = "general"
	ReportMovement       ReportKind = "movement"
	ReportClassification ReportKind = "classifications"
)

func (k ReportKind) Valid() bool {
	switch k {
	case ReportGeneral, ReportMovement, ReportClassification:
		return true
	}
	return false
}

// DataPeriod describes how a report's time window is computed relative to
// "now", independently of the cron cadence that triggers the run.
type DataPeriod string

const (
	PeriodSameDay       DataPeriod = "same_day"
	PeriodPreviousDay   DataPeriod = "previous_day"
	PeriodLast7Days     DataPeriod = "last_7_days"
	PeriodLast30Days    DataPeriod = "last_30_days"
	PeriodCurrentWeek   DataPeriod = "current_week"
	PeriodPreviousWeek  DataPeriod = "previous_week"
	PeriodCurrentMonth  DataPeriod = "current_month"
	PeriodPreviousMonth DataPeriod = "previous_month"
	PeriodCustom        DataPeriod = "custom"
)

type RunOutcome string

const (
	RunSuccess RunOutcome = "success"
	RunFailed  RunOutcome = "failed"
	RunSkipped RunOutcome = "skipped"
	RunUnset   RunOutcome = ""
)

// ScheduledTask is a user-defined report schedule. The scheduler only reads
// tasks and writes back LastRun/LastOutcome; creation and deletion happen
// through the API layer.
type ScheduledTask struct {
	gorm.Model
	Name        string     `gorm:"not null" json:"name"`
	Kind        ReportKind `gorm:"not null" json:"kind"`
	CronExpr    string     `gorm:"not null" json:"cron_expr"` // 5- or 6-field cron expression
	DataPeriod  DataPeriod `json:"data_period"`
	CustomFrom  string     `json:"custom_from"` // YYYY-MM-DD, used only when DataPeriod is custom
	CustomTo    string     `json:"custom_to"`
	Department  string     `json:"department"` // empty = all departments
	Recipients  []string   `gorm:"serializer:json" json:"recipients"`
	CreatedBy   string     `json:"created_by"`
	Active      bool       `gorm:"default:true" json:"active"`
	LastRun     time.Time  `json:"last_run"`
	LastOutcome RunOutcome `json:"last_outcome"`
}

// MovementEvent is one personnel change record (transfer, status change,
// field edit) written by the record-keeping side of the system.
type MovementEvent struct {
	gorm.Model
	EmployeeCode string    `gorm:"index" json:"employee_code"`
	Type         string    `gorm:"not null" json:"type"` // e.g. TRANSFER, STATUS_CHANGE
	FieldName    string    `json:"field_name"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	Note         string    `json:"note"`
	UpdatedBy    string    `json:"updated_by"`
	OccurredAt   time.Time `gorm:"index" json:"occurred_at"`
}
