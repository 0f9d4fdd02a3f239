package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

const defaultRunTime = "09:00"
const defaultDayOfWeek = 1 // Monday

var quarterStartMonths = []time.Month{time.January, time.April, time.July, time.October}

// NextRun computes the next fire time for a recurrence config, strictly
// after now. The calendar walk happens in the schedule's timezone and the
// result is returned in UTC.
//
// The search starts from "tomorrow" relative to now, so an occurrence
// earlier today is never returned and feeding the result back as now
// yields a strictly increasing sequence.
func NextRun(cfg view.RecurrenceConfig, now time.Time) (time.Time, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
		}
	}
	hour, minute, err := parseRunTime(cfg.Time)
	if err != nil {
		return time.Time{}, err
	}

	localNow := now.In(loc)
	base := utils.StartOfDay(localNow).AddDate(0, 0, 1)

	var next time.Time
	switch cfg.Frequency {
	case view.FrequencyWeekly:
		targetDay := defaultDayOfWeek
		if cfg.DayOfWeek != nil {
			targetDay = *cfg.DayOfWeek
		}
		next = time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, loc)
		for int(next.Weekday()) != targetDay {
			next = next.AddDate(0, 0, 1)
		}
	case view.FrequencyMonthly:
		day := 1
		if cfg.DayOfMonth != nil {
			day = *cfg.DayOfMonth
		}
		next = clampedMonthDay(base.Year(), base.Month(), day, hour, minute, loc)
		if next.Before(base) {
			firstOfNext := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
			next = clampedMonthDay(firstOfNext.Year(), firstOfNext.Month(), day, hour, minute, loc)
		}
	case view.FrequencyQuarterly:
		day := 1
		if cfg.DayOfMonth != nil {
			day = *cfg.DayOfMonth
		}
		next = nextQuarterRun(base, day, hour, minute, loc)
	case view.FrequencyYearly:
		month := time.January
		if cfg.MonthOfYear != nil {
			month = time.Month(*cfg.MonthOfYear)
		}
		day := 1
		if cfg.DayOfMonth != nil {
			day = *cfg.DayOfMonth
		}
		next = clampedMonthDay(base.Year(), month, day, hour, minute, loc)
		if next.Before(base) {
			next = clampedMonthDay(base.Year()+1, month, day, hour, minute, loc)
		}
	default:
		return time.Time{}, fmt.Errorf("unknown recurrence frequency %q", cfg.Frequency)
	}

	return next.UTC(), nil
}

func nextQuarterRun(base time.Time, day int, hour int, minute int, loc *time.Location) time.Time {
	year := base.Year()
	for {
		for _, month := range quarterStartMonths {
			candidate := clampedMonthDay(year, month, day, hour, minute, loc)
			if !candidate.Before(base) {
				return candidate
			}
		}
		year++
	}
}

// clampedMonthDay builds a date pinned to the given month: a day past the
// month's end lands on the last day of that month, never in the next one.
func clampedMonthDay(year int, month time.Month, day int, hour int, minute int, loc *time.Location) time.Time {
	lastDay := utils.LastDayOfMonth(year, month)
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func parseRunTime(runTime string) (int, int, error) {
	if runTime == "" {
		runTime = defaultRunTime
	}
	parts := strings.Split(runTime, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", runTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in time %q", runTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in time %q", runTime)
	}
	return hour, minute, nil
}
