package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/staffeye/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedOutcome struct {
	ID      uint
	Outcome models.RunOutcome
}

type fakeTaskStore struct {
	mu       sync.Mutex
	active   []models.ScheduledTask
	err      error
	outcomes []recordedOutcome
}

func (f *fakeTaskStore) ListActive() ([]models.ScheduledTask, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active, nil
}

func (f *fakeTaskStore) RecordOutcome(id uint, at time.Time, outcome models.RunOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, recordedOutcome{ID: id, Outcome: outcome})
	return nil
}

func (f *fakeTaskStore) recorded() []recordedOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedOutcome(nil), f.outcomes...)
}

type fakeRunner struct {
	outcome models.RunOutcome
	panics  bool
	runs    int
}

func (f *fakeRunner) Run(task models.ScheduledTask) models.RunOutcome {
	f.runs++
	if f.panics {
		panic("boom")
	}
	return f.outcome
}

func task(id uint, expr string, active bool) models.ScheduledTask {
	return models.ScheduledTask{
		Model:      gorm.Model{ID: id},
		Name:       "test task",
		Kind:       models.ReportGeneral,
		CronExpr:   expr,
		DataPeriod: models.PeriodPreviousDay,
		Recipients: []string{"admin@x.com"},
		Active:     active,
	}
}

func newTestRegistry(store *fakeTaskStore, runner Runner) *Registry {
	r := NewRegistry(store, runner)
	return r
}

func TestRegisterThenUnregister(t *testing.T) {
	r := newTestRegistry(&fakeTaskStore{}, &fakeRunner{outcome: models.RunSuccess})
	defer r.Stop()

	require.NoError(t, r.Register(task(1, "0 8 * * *", true)))
	assert.True(t, r.Registered(1))

	r.Unregister(1)
	assert.False(t, r.Registered(1))

	// Unregistering an absent id is a no-op.
	r.Unregister(42)
}

func TestRegisterInvalidExpression(t *testing.T) {
	r := newTestRegistry(&fakeTaskStore{}, &fakeRunner{})
	defer r.Stop()

	err := r.Register(task(1, "not a cron", true))
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.False(t, r.Registered(1))
}

func TestRegisterSixFieldExpression(t *testing.T) {
	r := newTestRegistry(&fakeTaskStore{}, &fakeRunner{})
	defer r.Stop()

	require.NoError(t, r.Register(task(1, "0 0 8 * * 1", true)))
	assert.True(t, r.Registered(1))
}

func TestRegisterInactiveTearsDown(t *testing.T) {
	r := newTestRegistry(&fakeTaskStore{}, &fakeRunner{})
	defer r.Stop()

	active := task(1, "0 8 * * *", true)
	require.NoError(t, r.Register(active))
	require.True(t, r.Registered(1))

	// Toggling active to false and re-registering removes the timer.
	inactive := active
	inactive.Active = false
	require.NoError(t, r.Register(inactive))
	assert.False(t, r.Registered(1))
}

func TestRegisterIsIdempotent(t *testing.T) {
	r := newTestRegistry(&fakeTaskStore{}, &fakeRunner{})
	defer r.Stop()

	tk := task(1, "0 8 * * *", true)
	require.NoError(t, r.Register(tk))
	require.NoError(t, r.Register(tk))
	assert.True(t, r.Registered(1))

	r.Unregister(1)
	assert.False(t, r.Registered(1))
}

func TestReloadAll(t *testing.T) {
	store := &fakeTaskStore{active: []models.ScheduledTask{
		task(1, "0 8 * * *", true),
		task(2, "bogus", true),
		task(3, "30 7 * * 1", true),
	}}
	r := newTestRegistry(store, &fakeRunner{})
	defer r.Stop()

	// A stale entry not present in the store must disappear on reload.
	require.NoError(t, r.Register(task(9, "0 9 * * *", true)))

	require.NoError(t, r.ReloadAll())
	assert.True(t, r.Registered(1))
	assert.False(t, r.Registered(2), "invalid expression must stay inert")
	assert.True(t, r.Registered(3))
	assert.False(t, r.Registered(9))
}

func TestReloadAllStoreError(t *testing.T) {
	r := newTestRegistry(&fakeTaskStore{err: errors.New("db down")}, &fakeRunner{})
	defer r.Stop()
	assert.Error(t, r.ReloadAll())
}

func TestTickRecordsOutcome(t *testing.T) {
	tests := []struct {
		name    string
		runner  *fakeRunner
		outcome models.RunOutcome
	}{
		{name: "success", runner: &fakeRunner{outcome: models.RunSuccess}, outcome: models.RunSuccess},
		{name: "skipped", runner: &fakeRunner{outcome: models.RunSkipped}, outcome: models.RunSkipped},
		{name: "failed", runner: &fakeRunner{outcome: models.RunFailed}, outcome: models.RunFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTaskStore{}
			r := newTestRegistry(store, tt.runner)
			defer r.Stop()

			r.tick(task(7, "0 8 * * *", true))

			recorded := store.recorded()
			require.Len(t, recorded, 1)
			assert.Equal(t, uint(7), recorded[0].ID)
			assert.Equal(t, tt.outcome, recorded[0].Outcome)
		})
	}
}

func TestTickSurvivesPanic(t *testing.T) {
	store := &fakeTaskStore{}
	r := newTestRegistry(store, &fakeRunner{panics: true})
	defer r.Stop()

	assert.NotPanics(t, func() {
		r.tick(task(7, "0 8 * * *", true))
	})

	recorded := store.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, models.RunFailed, recorded[0].Outcome)
}

func TestValidateExpr(t *testing.T) {
	r := newTestRegistry(&fakeTaskStore{}, &fakeRunner{})
	defer r.Stop()

	assert.NoError(t, r.ValidateExpr("*/5 * * * *"))
	assert.NoError(t, r.ValidateExpr("0 0 8 * * *"))
	assert.NoError(t, r.ValidateExpr("@daily"))
	assert.ErrorIs(t, r.ValidateExpr("every tuesday"), ErrInvalidSchedule)
}
