package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/staffeye/internal/mail"
	"github.com/staffeye/internal/models"
	"github.com/staffeye/internal/recipients"
	"github.com/staffeye/internal/report"
	"github.com/staffeye/internal/store"
)

// Notifier receives run-failure notifications. Best-effort: errors are
// logged, never acted on.
type Notifier interface {
	NotifyRunFailed(task models.ScheduledTask, reason string) error
}

// ReportRunner is the production pipeline: resolve window, validate
// recipients, aggregate, encode, deliver.
type ReportRunner struct {
	directory  store.Directory
	aggregator *report.Aggregator
	pipeline   *mail.Pipeline
	notifier   Notifier // may be nil
	from       string
	now        func() time.Time
}

func NewReportRunner(directory store.Directory, aggregator *report.Aggregator, pipeline *mail.Pipeline, notifier Notifier, from string) *ReportRunner {
	return &ReportRunner{
		directory:  directory,
		aggregator: aggregator,
		pipeline:   pipeline,
		notifier:   notifier,
		from:       from,
		now:        time.Now,
	}
}

func (r *ReportRunner) Run(task models.ScheduledTask) models.RunOutcome {
	now := r.now()

	window := report.ResolveWindow(task.DataPeriod, task.CustomFrom, task.CustomTo, task.CronExpr, now)
	log.Printf("Task %d window (%s): %s", task.ID, task.DataPeriod, window)

	// Validate recipients before touching any data: mailing nobody is a
	// skip, not a failure.
	valid, rejected, err := recipients.Validate(task.Recipients, r.directory)
	if err != nil {
		r.failed(task, fmt.Sprintf("recipient validation: %v", err))
		return models.RunFailed
	}
	for _, reason := range rejected {
		log.Printf("Task %d: recipient rejected: %s", task.ID, reason)
	}
	if len(valid) == 0 {
		log.Printf("Task %d [%s]: %v, run skipped", task.ID, task.Name, ErrNoValidRecipients)
		return models.RunSkipped
	}

	table, err := r.aggregator.Aggregate(task.Kind, window, task.Department)
	if err != nil {
		r.failed(task, fmt.Sprintf("aggregation: %v", err))
		return models.RunFailed
	}

	csv, err := report.EncodeCSV(table)
	if err != nil {
		r.failed(task, fmt.Sprintf("csv encoding: %v", err))
		return models.RunFailed
	}

	dateRange := fmt.Sprintf("%s - %s", window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))
	msg, err := mail.NewReportMessage(r.from, valid, task.Name, dateRange, report.Filename(task.Kind, now), csv)
	if err != nil {
		r.failed(task, fmt.Sprintf("message build: %v", err))
		return models.RunFailed
	}

	delivery, err := r.pipeline.Deliver(msg)
	if err != nil {
		// The report is not persisted anywhere on delivery failure; it
		// waits for the next tick or a manual re-trigger.
		r.failed(task, fmt.Sprintf("delivery: %v", err))
		return models.RunFailed
	}

	log.Printf("Task %d [%s] delivered to %d recipients via %s", task.ID, task.Name, len(valid), delivery.Provider)
	return models.RunSuccess
}

func (r *ReportRunner) failed(task models.ScheduledTask, reason string) {
	log.Printf("Task %d [%s] failed: %s", task.ID, task.Name, reason)
	if r.notifier == nil {
		return
	}
	if err := r.notifier.NotifyRunFailed(task, reason); err != nil {
		log.Printf("Failed to send failure notification for task %d: %v", task.ID, err)
	}
}
