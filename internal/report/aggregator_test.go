package report

import (
	"errors"
	"testing"
	"time"

	"github.com/staffeye/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	employees []models.Employee
	err       error
}

func (f *fakeDirectory) FindByEmail(email string) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.employees {
		if f.employees[i].Email == email {
			return &f.employees[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) ListAll(department string) ([]models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	if department == "" {
		return f.employees, nil
	}
	var out []models.Employee
	for _, e := range f.employees {
		if e.Department == department {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeHistory struct {
	events []models.MovementEvent
	err    error
}

func (f *fakeHistory) QueryWindow(from, to time.Time) ([]models.MovementEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.MovementEvent
	for _, ev := range f.events {
		if !ev.OccurredAt.Before(from) && !ev.OccurredAt.After(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func employee(code, name, email, department string, joinDate string) models.Employee {
	return models.Employee{
		Code:       code,
		Name:       name,
		Email:      email,
		Department: department,
		Position:   "Officer",
		Status:     models.StatusActive,
		JoinDate:   joinDate,
	}
}

func TestAggregateGeneralFiltersByJoinDateAndDepartment(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	window := ResolveWindow(models.PeriodPreviousDay, "", "", "", now)

	dir := &fakeDirectory{employees: []models.Employee{
		employee("E001", "Alice", "a@x.com", "Finance", "2026-03-14"),
		employee("E002", "Bob", "b@x.com", "Finance", "2026-03-14"),
		employee("E003", "Carol", "c@x.com", "Finance", "2026-03-13"),
		employee("E004", "Dave", "d@x.com", "IT", "2026-03-14"),
	}}

	agg := NewAggregator(dir, &fakeHistory{})
	table, err := agg.Aggregate(models.ReportGeneral, window, "Finance")
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "E001", table.Rows[0][0])
	assert.Equal(t, "E002", table.Rows[1][0])
}

func TestAggregateMovementEnrichesAndFilters(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	window := Window{From: now.AddDate(0, 0, -1), To: now}

	dir := &fakeDirectory{employees: []models.Employee{
		employee("E001", "Alice", "a@x.com", "Finance", "2020-01-01"),
		employee("E004", "Dave", "d@x.com", "IT", "2020-01-01"),
	}}
	hist := &fakeHistory{events: []models.MovementEvent{
		{EmployeeCode: "E001", Type: "TRANSFER", FieldName: "Department", OldValue: "HR", NewValue: "Finance", OccurredAt: now.Add(-2 * time.Hour)},
		{EmployeeCode: "E004", Type: "STATUS_CHANGE", FieldName: "Status", OccurredAt: now.Add(-3 * time.Hour)},
		{EmployeeCode: "GONE", Type: "TRANSFER", FieldName: "Department", OccurredAt: now.Add(-4 * time.Hour)},
		{EmployeeCode: "E001", Type: "TRANSFER", FieldName: "Position", OccurredAt: now.AddDate(0, 0, -5)}, // outside window
	}}

	agg := NewAggregator(dir, hist)

	// Unfiltered: orphan events keep placeholder identity.
	table, err := agg.Aggregate(models.ReportMovement, window, "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	var sawOrphan bool
	for _, row := range table.Rows {
		if row[1] == "N/A" {
			sawOrphan = true
			assert.Equal(t, "Unknown/Deleted", row[2])
		}
	}
	assert.True(t, sawOrphan)

	// Department filter uses the employee's current department; orphans and
	// other departments drop out.
	table, err = agg.Aggregate(models.ReportMovement, window, "Finance")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "E001", table.Rows[0][1])
	assert.Equal(t, "Alice", table.Rows[0][2])
}

func TestAggregateClassificationIgnoresWindow(t *testing.T) {
	// Snapshot of current tags/status: an otherwise-empty window must not
	// drop anybody.
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	window := Window{From: now, To: now}

	employees := []models.Employee{
		employee("E001", "Alice", "a@x.com", "Finance", "2020-01-01"),
		employee("E004", "Dave", "d@x.com", "IT", "2020-01-01"),
	}
	employees[0].Tags = []string{"planning", "senior"}

	agg := NewAggregator(&fakeDirectory{employees: employees}, &fakeHistory{})
	table, err := agg.Aggregate(models.ReportClassification, window, "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "planning, senior", table.Rows[0][4])
}

func TestAggregatePropagatesCollaboratorError(t *testing.T) {
	agg := NewAggregator(&fakeDirectory{err: errors.New("db down")}, &fakeHistory{err: errors.New("db down")})
	for _, kind := range []models.ReportKind{models.ReportGeneral, models.ReportMovement, models.ReportClassification} {
		_, err := agg.Aggregate(kind, Window{}, "")
		assert.Error(t, err, "kind %s", kind)
	}
}

func TestAggregateUnknownKind(t *testing.T) {
	agg := NewAggregator(&fakeDirectory{}, &fakeHistory{})
	_, err := agg.Aggregate("bogus", Window{}, "")
	assert.Error(t, err)
}
