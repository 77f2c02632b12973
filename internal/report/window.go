package report

import (
	"log"
	"strings"
	"time"

	"github.com/staffeye/internal/models"
)

// Window is the half-open reporting interval resolved for one run. To never
// exceeds the resolution instant.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) String() string {
	return w.From.Format(time.RFC3339) + " - " + w.To.Format(time.RFC3339)
}

// endOfDay is the inclusive end used for closed periods (previous day, week,
// month): 23:59:59.999 local time.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999e6, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf returns 00:00 on the Monday of t's ISO week.
func mondayOf(t time.Time) time.Time {
	diff := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -diff))
}

// ResolveWindow maps a task's data-period policy and "now" to a concrete
// time window. cronExpr is consulted only by the legacy fallback for tasks
// with no policy set. The returned window's To is clamped to now.
func ResolveWindow(period models.DataPeriod, customFrom, customTo, cronExpr string, now time.Time) Window {
	var w Window

	switch period {
	case models.PeriodSameDay:
		w = Window{From: startOfDay(now), To: now}
	case models.PeriodPreviousDay:
		yesterday := now.AddDate(0, 0, -1)
		w = Window{From: startOfDay(yesterday), To: endOfDay(yesterday)}
	case models.PeriodLast7Days:
		w = Window{From: now.AddDate(0, 0, -7), To: now}
	case models.PeriodLast30Days:
		w = Window{From: now.AddDate(0, 0, -30), To: now}
	case models.PeriodCurrentWeek:
		w = Window{From: mondayOf(now), To: now}
	case models.PeriodPreviousWeek:
		lastMonday := mondayOf(now).AddDate(0, 0, -7)
		w = Window{From: lastMonday, To: endOfDay(lastMonday.AddDate(0, 0, 6))}
	case models.PeriodCurrentMonth:
		w = Window{From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), To: now}
	case models.PeriodPreviousMonth:
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		w = Window{From: firstOfThis.AddDate(0, -1, 0), To: endOfDay(firstOfThis.AddDate(0, 0, -1))}
	case models.PeriodCustom:
		w = resolveCustom(customFrom, customTo, now)
	default:
		// Legacy tasks without a data period: approximate the window from
		// the cron cadence. Degraded path, kept for old task definitions.
		log.Printf("Warning: task has no data period set, deriving window from cron %q", cronExpr)
		w = resolveFromCron(cronExpr, now)
	}

	if w.To.After(now) {
		w.To = now
	}
	return w
}

func resolveCustom(customFrom, customTo string, now time.Time) Window {
	from := now
	if t, err := time.ParseInLocation("2006-01-02", customFrom, now.Location()); err == nil {
		from = t
	}
	to := now
	if t, err := time.ParseInLocation("2006-01-02", customTo, now.Location()); err == nil {
		to = endOfDay(t)
	}
	return Window{From: from, To: to}
}

// resolveFromCron inspects the day-of-month / day-of-week fields of the
// expression: weekly schedules get the previous 7 days, monthly schedules
// the previous calendar month, anything else the previous day.
func resolveFromCron(cronExpr string, now time.Time) Window {
	fields := strings.Fields(cronExpr)
	// Normalize 6-field (seconds-first) expressions to minute-first.
	if len(fields) == 6 {
		fields = fields[1:]
	}
	if len(fields) == 5 {
		dom, dow := fields[2], fields[4]
		switch {
		case dow != "*" && dow != "?":
			// Weekly
			return Window{From: startOfDay(now.AddDate(0, 0, -7)), To: now}
		case dom != "*" && dom != "?":
			// Monthly
			firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			return Window{From: firstOfThis.AddDate(0, -1, 0), To: endOfDay(firstOfThis.AddDate(0, 0, -1))}
		}
	}
	// Daily
	return Window{From: startOfDay(now.AddDate(0, 0, -1)), To: now}
}
