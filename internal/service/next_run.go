package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang-scheduler/internal/model"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var timeOfDayPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// recurrence is the validated, type-specific form of a schedule. Each variant
// carries only the fields its type needs, so a weekly rule can never be
// missing its weekday.
type recurrence interface {
	// nextAfter returns the first firing instant strictly after now, given the
	// candidate "today at the configured wall-clock time" in the schedule's
	// location. The custom fallback is the only rule allowed to return an
	// instant not after now.
	nextAfter(now, candidate time.Time) time.Time
}

type onceRule struct{}

type dailyRule struct{}

type weeklyRule struct {
	day time.Weekday
}

type monthlyRule struct {
	day int
}

type customRule struct {
	schedule cron.Schedule
}

func (onceRule) nextAfter(now, candidate time.Time) time.Time {
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func (dailyRule) nextAfter(now, candidate time.Time) time.Time {
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func (r weeklyRule) nextAfter(now, candidate time.Time) time.Time {
	days := (int(r.day) - int(candidate.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, days)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

func (r monthlyRule) nextAfter(now, candidate time.Time) time.Time {
	// Direct date construction: an out-of-range day normalizes forward
	// (Jan 31 + 1 month -> Mar 3), exactly like the time package defines it.
	candidate = time.Date(candidate.Year(), candidate.Month(), r.day,
		candidate.Hour(), candidate.Minute(), 0, 0, candidate.Location())
	if !candidate.After(now) {
		candidate = time.Date(candidate.Year(), candidate.Month()+1, r.day,
			candidate.Hour(), candidate.Minute(), 0, 0, candidate.Location())
	}
	return candidate
}

func (r customRule) nextAfter(now, candidate time.Time) time.Time {
	if r.schedule != nil {
		return r.schedule.Next(now.In(candidate.Location()))
	}
	// Stored expression no longer parses; fall back to a plain next-day advance
	// so the task keeps moving instead of stalling.
	return candidate.AddDate(0, 0, 1)
}

// compiledSchedule is a ScheduleConfig that passed validation.
type compiledSchedule struct {
	hour   int
	minute int
	loc    *time.Location
	rule   recurrence
}

// NextRun computes the first firing instant strictly after now. Pure: the same
// (now, schedule) pair always yields the same instant.
func (cs compiledSchedule) NextRun(now time.Time) time.Time {
	local := now.In(cs.loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), cs.hour, cs.minute, 0, 0, cs.loc)
	return cs.rule.nextAfter(now, candidate)
}

// compileSchedule validates a schedule per type and returns its compiled form.
// All failures are *model.ValidationError.
func compileSchedule(cfg model.ScheduleConfig) (compiledSchedule, error) {
	var cs compiledSchedule

	m := timeOfDayPattern.FindStringSubmatch(cfg.Time)
	if m == nil {
		return cs, model.NewValidationError("time %q must be in HH:MM format", cfg.Time)
	}
	cs.hour, _ = strconv.Atoi(m[1])
	cs.minute, _ = strconv.Atoi(m[2])

	if strings.TrimSpace(cfg.Timezone) == "" {
		return cs, model.NewValidationError("timezone is required")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return cs, model.NewValidationError("unknown timezone %q", cfg.Timezone)
	}
	cs.loc = loc

	switch cfg.Type {
	case model.ScheduleTypeOnce:
		cs.rule = onceRule{}
	case model.ScheduleTypeDaily:
		cs.rule = dailyRule{}
	case model.ScheduleTypeWeekly:
		if cfg.DayOfWeek == nil || *cfg.DayOfWeek < 0 || *cfg.DayOfWeek > 6 {
			return cs, model.NewValidationError("day_of_week must be between 0 and 6 for weekly schedules")
		}
		cs.rule = weeklyRule{day: time.Weekday(*cfg.DayOfWeek)}
	case model.ScheduleTypeMonthly:
		if cfg.DayOfMonth == nil || *cfg.DayOfMonth < 1 || *cfg.DayOfMonth > 31 {
			return cs, model.NewValidationError("day_of_month must be between 1 and 31 for monthly schedules")
		}
		cs.rule = monthlyRule{day: *cfg.DayOfMonth}
	case model.ScheduleTypeCustom:
		if cfg.CronExpression == nil || strings.TrimSpace(*cfg.CronExpression) == "" {
			return cs, model.NewValidationError("cron_expression is required for custom schedules")
		}
		schedule, err := cronParser.Parse(*cfg.CronExpression)
		if err != nil {
			return cs, model.NewValidationError("invalid cron_expression %q: %v", *cfg.CronExpression, err)
		}
		cs.rule = customRule{schedule: schedule}
	default:
		return cs, model.NewValidationError("unknown schedule type %q", cfg.Type)
	}

	return cs, nil
}
