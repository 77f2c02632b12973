package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/staffeye/internal/models"
	"github.com/staffeye/internal/store"
)

// Table is the in-memory result of one aggregation: the report kind plus one
// row per record in the kind's fixed column order. Absent values are empty
// strings so the CSV stays machine-parseable.
type Table struct {
	Kind models.ReportKind
	Rows [][]string
}

type Aggregator struct {
	directory store.Directory
	history   store.History
}

func NewAggregator(directory store.Directory, history store.History) *Aggregator {
	return &Aggregator{directory: directory, history: history}
}

// Aggregate builds the tabular result for one report kind over the given
// window. department is an optional filter, empty means all departments.
func (a *Aggregator) Aggregate(kind models.ReportKind, window Window, department string) (*Table, error) {
	switch kind {
	case models.ReportMovement:
		return a.aggregateMovement(window, department)
	case models.ReportClassification:
		return a.aggregateClassification(department)
	case models.ReportGeneral:
		return a.aggregateGeneral(window, department)
	default:
		return nil, fmt.Errorf("unknown report kind: %s", kind)
	}
}

func (a *Aggregator) aggregateMovement(window Window, department string) (*Table, error) {
	events, err := a.history.QueryWindow(window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movement events: %v", err)
	}

	// All employees once, indexed by code, instead of a lookup per event.
	employees, err := a.directory.ListAll("")
	if err != nil {
		return nil, fmt.Errorf("failed to load employees for enrichment: %v", err)
	}
	byCode := make(map[string]*models.Employee, len(employees))
	for i := range employees {
		byCode[employees[i].Code] = &employees[i]
	}

	table := &Table{Kind: models.ReportMovement}
	for _, ev := range events {
		name, code := "Unknown/Deleted", "N/A"
		var emp *models.Employee
		if e, ok := byCode[ev.EmployeeCode]; ok {
			emp = e
			name, code = e.Name, e.Code
		}
		// Filters by the employee's current department, not the department
		// at the time of the event. Intended behavior.
		if department != "" {
			if emp == nil || emp.Department != department {
				continue
			}
		}
		table.Rows = append(table.Rows, []string{
			ev.OccurredAt.Format("2006-01-02 15:04:05"),
			code,
			name,
			ev.Type,
			ev.FieldName,
			ev.OldValue,
			ev.NewValue,
			ev.Note,
		})
	}
	return table, nil
}

func (a *Aggregator) aggregateGeneral(window Window, department string) (*Table, error) {
	employees, err := a.directory.ListAll(department)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %v", err)
	}

	table := &Table{Kind: models.ReportGeneral}
	for _, e := range employees {
		if !joinedWithin(&e, window) {
			continue
		}
		table.Rows = append(table.Rows, []string{
			e.Code,
			e.Name,
			e.Email,
			e.Phone,
			e.Department,
			e.Position,
			string(e.Status),
			e.JoinDate,
			e.BirthDate,
			e.Address,
			e.NationalID,
		})
	}
	return table, nil
}

// aggregateClassification is a point-in-time snapshot of current tags and
// status, so no date filter applies.
func (a *Aggregator) aggregateClassification(department string) (*Table, error) {
	employees, err := a.directory.ListAll(department)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %v", err)
	}

	table := &Table{Kind: models.ReportClassification}
	for _, e := range employees {
		table.Rows = append(table.Rows, []string{
			e.Code,
			e.Name,
			e.Department,
			e.Position,
			strings.Join(e.Tags, ", "),
			string(e.Status),
		})
	}
	return table, nil
}

// joinedWithin checks the employee's join date, falling back to the record
// creation time for entries without one.
func joinedWithin(e *models.Employee, window Window) bool {
	joined := e.CreatedAt
	if e.JoinDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", e.JoinDate, window.From.Location()); err == nil {
			joined = t
		}
	}
	return !joined.Before(window.From) && !joined.After(window.To)
}
