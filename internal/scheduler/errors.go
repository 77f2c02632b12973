package scheduler

import "errors"

var (
	// ErrInvalidSchedule marks a malformed cron expression. The task stays
	// stored but is never armed until corrected.
	ErrInvalidSchedule = errors.New("invalid schedule expression")

	// ErrNoValidRecipients marks a run where every recipient was rejected.
	// Distinguished from failure: the run is recorded as skipped.
	ErrNoValidRecipients = errors.New("no valid recipients")
)
