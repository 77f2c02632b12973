package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/staffeye/internal/mail"
	"github.com/staffeye/internal/models"
	"github.com/staffeye/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	employees []models.Employee
}

func (f *fakeDirectory) FindByEmail(email string) (*models.Employee, error) {
	for i := range f.employees {
		if f.employees[i].Email == email {
			return &f.employees[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) ListAll(department string) ([]models.Employee, error) {
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
	return f.events, nil
}

type fakeSender struct {
	name string
	err  error
	sent []*mail.Message
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(m *mail.Message) (string, error) {
	f.sent = append(f.sent, m)
	if f.err != nil {
		return "", f.err
	}
	return "id-1", nil
}

type fakeNotifier struct {
	reasons []string
}

func (f *fakeNotifier) NotifyRunFailed(task models.ScheduledTask, reason string) error {
	f.reasons = append(f.reasons, reason)
	return nil
}

func admin(email string) models.Employee {
	return models.Employee{
		Code:   "E001",
		Name:   "Admin",
		Email:  email,
		Role:   models.RoleAdmin,
		Status: models.StatusActive,
	}
}

func runnerWith(dir *fakeDirectory, hist *fakeHistory, senders ...mail.Sender) (*ReportRunner, *fakeNotifier) {
	notifier := &fakeNotifier{}
	agg := report.NewAggregator(dir, hist)
	r := NewReportRunner(dir, agg, mail.NewPipeline(senders...), notifier, "reports@staffeye.io")
	r.now = func() time.Time {
		return time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	}
	return r, notifier
}

func generalTask() models.ScheduledTask {
	t := task(1, "0 8 * * *", true)
	t.Recipients = []string{"admin@x.com"}
	return t
}

func TestRunSuccess(t *testing.T) {
	dir := &fakeDirectory{employees: []models.Employee{admin("admin@x.com")}}
	sender := &fakeSender{name: "ok"}
	r, notifier := runnerWith(dir, &fakeHistory{}, sender)

	outcome := r.Run(generalTask())
	assert.Equal(t, models.RunSuccess, outcome)
	assert.Empty(t, notifier.reasons)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"admin@x.com"}, msg.To)
	require.Len(t, msg.Attachments, 1)
	assert.Contains(t, msg.Attachments[0].Filename, "report-general-")
	assert.True(t, len(msg.Attachments[0].Content) > 0)
}

func TestRunSkippedWhenNoValidRecipients(t *testing.T) {
	// Directory knows nobody; every recipient is rejected.
	dir := &fakeDirectory{}
	sender := &fakeSender{name: "ok"}
	r, notifier := runnerWith(dir, &fakeHistory{}, sender)

	outcome := r.Run(generalTask())
	assert.Equal(t, models.RunSkipped, outcome)
	assert.Empty(t, sender.sent, "nothing may be aggregated or delivered")
	assert.Empty(t, notifier.reasons, "a skip is not a failure")
}

func TestRunFailedWhenDeliveryExhausted(t *testing.T) {
	dir := &fakeDirectory{employees: []models.Employee{admin("admin@x.com")}}
	r, notifier := runnerWith(dir, &fakeHistory{},
		&fakeSender{name: "a", err: errors.New("blocked")},
		&fakeSender{name: "b", err: errors.New("blocked")},
	)

	var outcome models.RunOutcome
	assert.NotPanics(t, func() {
		outcome = r.Run(generalTask())
	})
	assert.Equal(t, models.RunFailed, outcome)
	require.Len(t, notifier.reasons, 1)
	assert.Contains(t, notifier.reasons[0], "delivery")
}

func TestRunFailedOnAggregationError(t *testing.T) {
	dir := &fakeDirectory{employees: []models.Employee{admin("admin@x.com")}}
	sender := &fakeSender{name: "ok"}
	r, notifier := runnerWith(dir, &fakeHistory{err: errors.New("db down")}, sender)

	tk := generalTask()
	tk.Kind = models.ReportMovement

	outcome := r.Run(tk)
	assert.Equal(t, models.RunFailed, outcome)
	assert.Empty(t, sender.sent)
	require.Len(t, notifier.reasons, 1)
	assert.Contains(t, notifier.reasons[0], "aggregation")
}

func TestRunWithoutNotifier(t *testing.T) {
	dir := &fakeDirectory{employees: []models.Employee{admin("admin@x.com")}}
	agg := report.NewAggregator(dir, &fakeHistory{})
	r := NewReportRunner(dir, agg, mail.NewPipeline(&fakeSender{name: "a", err: errors.New("down")}), nil, "reports@staffeye.io")

	assert.NotPanics(t, func() {
		assert.Equal(t, models.RunFailed, r.Run(generalTask()))
	})
}
