// Package store implements the narrow persistence ports consumed by the
// report engine. The scheduler and aggregator depend on these interfaces
// rather than on gorm directly so tests can swap in fixtures.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/staffeye/internal/models"
	"gorm.io/gorm"
)

// TaskStore persists scheduled task definitions. The engine only reads
// active tasks and writes back run outcomes.
type TaskStore interface {
	ListActive() ([]models.ScheduledTask, error)
	RecordOutcome(id uint, at time.Time, outcome models.RunOutcome) error
}

// Directory is the personnel lookup used for aggregation and recipient
// validation.
type Directory interface {
	FindByEmail(email string) (*models.Employee, error)
	ListAll(department string) ([]models.Employee, error)
}

// History provides movement events for a time window.
type History interface {
	QueryWindow(from, to time.Time) ([]models.MovementEvent, error)
}

type GormTaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

func (s *GormTaskStore) ListActive() ([]models.ScheduledTask, error) {
	var tasks []models.ScheduledTask
	if err := s.db.Where("active = ?", true).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load active tasks: %v", err)
	}
	return tasks, nil
}

func (s *GormTaskStore) RecordOutcome(id uint, at time.Time, outcome models.RunOutcome) error {
	updates := map[string]interface{}{
		"last_run":     at,
		"last_outcome": outcome,
	}
	if err := s.db.Model(&models.ScheduledTask{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to record run outcome for task %d: %v", id, err)
	}
	return nil
}

type GormDirectory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) FindByEmail(email string) (*models.Employee, error) {
	var e models.Employee
	err := d.db.Where("email = ?", email).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee by email: %v", err)
	}
	return &e, nil
}

func (d *GormDirectory) ListAll(department string) ([]models.Employee, error) {
	query := d.db.Model(&models.Employee{})
	if department != "" {
		query = query.Where("department = ?", department)
	}
	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %v", err)
	}
	return employees, nil
}

type GormHistory struct {
	db *gorm.DB
}

func NewHistory(db *gorm.DB) *GormHistory {
	return &GormHistory{db: db}
}

func (h *GormHistory) QueryWindow(from, to time.Time) ([]models.MovementEvent, error) {
	var events []models.MovementEvent
	if err := h.db.Where("occurred_at BETWEEN ? AND ?", from, to).
		Order("occurred_at asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query movement events: %v", err)
	}
	return events, nil
}
