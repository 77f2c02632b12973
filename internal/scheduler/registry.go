// Package scheduler owns the live mapping from task id to armed cron entry
// and drives the report pipeline on every trigger. A single scheduler
// process is assumed; there is no cross-instance coordination.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/staffeye/internal/models"
	"github.com/staffeye/internal/store"
)

// Runner executes one scheduled run end to end and reports the outcome. It
// must not panic; the registry still guards the tick with a recover as a
// last line of defense.
type Runner interface {
	Run(task models.ScheduledTask) models.RunOutcome
}

type Registry struct {
	mu      sync.Mutex
	cron    *cron.Cron
	parser  cron.Parser
	entries map[uint]cron.EntryID

	tasks  store.TaskStore
	runner Runner
}

func NewRegistry(tasks store.TaskStore, runner Runner) *Registry {
	// 5- or 6-field expressions: seconds are optional.
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	c := cron.New(cron.WithParser(parser))
	c.Start()
	return &Registry{
		cron:    c,
		parser:  parser,
		entries: make(map[uint]cron.EntryID),
		tasks:   tasks,
		runner:  runner,
	}
}

// ValidateExpr checks a 5- or 6-field cron expression without arming
// anything.
func (r *Registry) ValidateExpr(expr string) error {
	if _, err := r.parser.Parse(expr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return nil
}

// Register arms a timer for the task. Re-registration is idempotent: any
// existing entry for the id is stopped first, which is also how updates and
// active-flag toggles take effect. An inactive task only tears down.
func (r *Registry) Register(task models.ScheduledTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(task.ID)

	if !task.Active {
		return nil
	}

	if _, err := r.parser.Parse(task.CronExpr); err != nil {
		log.Printf("Invalid cron expression for task %d (%s): %v", task.ID, task.CronExpr, err)
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	id, err := r.cron.AddFunc(task.CronExpr, func() {
		r.tick(task)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	r.entries[task.ID] = id
	log.Printf("Scheduled task %d [%s] with cron %q", task.ID, task.Name, task.CronExpr)
	return nil
}

// Unregister stops and discards the timer for the id, no-op if absent.
func (r *Registry) Unregister(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

// Registered reports whether a timer is currently armed for the id.
func (r *Registry) Registered(id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

// ReloadAll stops every armed timer and re-registers all active tasks from
// the store. Full stop-the-world resync rather than an incremental diff:
// task volume is small and reloads are administrator-triggered.
func (r *Registry) ReloadAll() error {
	r.mu.Lock()
	for id := range r.entries {
		r.removeLocked(id)
	}
	r.mu.Unlock()

	tasks, err := r.tasks.ListActive()
	if err != nil {
		return fmt.Errorf("failed to reload tasks: %v", err)
	}

	armed := 0
	for _, t := range tasks {
		if err := r.Register(t); err != nil {
			// Invalid tasks stay inert; everything else still gets armed.
			continue
		}
		armed++
	}
	log.Printf("Scheduler reloaded with %d active jobs", armed)
	return nil
}

// RunNow executes the task's pipeline immediately, outside its cron
// cadence. The run goes through the same fault boundary and outcome
// recording as a scheduled tick.
func (r *Registry) RunNow(task models.ScheduledTask) {
	go r.tick(task)
}

// Stop halts the underlying cron runner. Running jobs finish on their own.
func (r *Registry) Stop() {
	r.cron.Stop()
}

func (r *Registry) removeLocked(id uint) {
	if entryID, ok := r.entries[id]; ok {
		r.cron.Remove(entryID)
		delete(r.entries, id)
	}
}

// tick is the fault boundary around one scheduled execution. Nothing that
// happens inside a run may stop the timer from firing again.
func (r *Registry) tick(task models.ScheduledTask) {
	log.Printf("Executing scheduled task %d [%s]", task.ID, task.Name)

	outcome := models.RunFailed
	defer func() {
		if p := recover(); p != nil {
			log.Printf("Panic in scheduled task %d: %v", task.ID, p)
			outcome = models.RunFailed
		}
		if err := r.tasks.RecordOutcome(task.ID, time.Now(), outcome); err != nil {
			log.Printf("Failed to record outcome for task %d: %v", task.ID, err)
		}
	}()

	outcome = r.runner.Run(task)
}
