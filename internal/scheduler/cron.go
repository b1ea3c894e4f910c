// Daily Feed - Personalized RSS Aggregation and Scheduling
// Copyright 2026 Mozayed (mozayed007)
// SPDX-License-Identifier: MIT
// https://github.com/mozayed007/Daily-Feed

// Package scheduler provides cron and interval based job scheduling for
// feed pipelines.
package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CronExpression represents a parsed cron expression.
// Standard 5-field format: minute hour day-of-month month day-of-week
type CronExpression struct {
	Minutes     []int // 0-59
	Hours       []int // 0-23
	DaysOfMonth []int // 1-31
	Months      []int // 1-12
	DaysOfWeek  []int // 0-6 (0 = Sunday)
}

// nextRunSearchBound caps the minute-by-minute search in NextRun. An
// expression with no match inside a year is unsatisfiable (e.g. day 31
// in February).
const nextRunSearchBound = 366 * 24 * 60

// ParseCron parses a standard 5-field cron expression.
// Format: minute hour day-of-month month day-of-week
//
// Each field supports exactly one of:
//   - * (any value)
//   - n (specific value)
//   - n-m (inclusive range)
//   - n,m,o (list of specific values)
//   - */s (step across the full range)
//
// Combined forms such as "1-10/2" are rejected. The day-of-week field
// accepts 0-6 only, with 0 meaning Sunday.
//
// Examples:
//   - "0 8 * * *" - Daily at 8:00 AM
//   - "0 8 * * 1" - Every Monday at 8:00 AM
//   - "*/15 * * * *" - Every 15 minutes
func ParseCron(expr string) (*CronExpression, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression must have 5 fields, got %d", len(fields))
	}

	minutes, err := parseField(fields[0], 0, 59)
	if err != nil {
		return nil, fmt.Errorf("invalid minute field: %w", err)
	}

	hours, err := parseField(fields[1], 0, 23)
	if err != nil {
		return nil, fmt.Errorf("invalid hour field: %w", err)
	}

	daysOfMonth, err := parseField(fields[2], 1, 31)
	if err != nil {
		return nil, fmt.Errorf("invalid day-of-month field: %w", err)
	}

	months, err := parseField(fields[3], 1, 12)
	if err != nil {
		return nil, fmt.Errorf("invalid month field: %w", err)
	}

	daysOfWeek, err := parseField(fields[4], 0, 6)
	if err != nil {
		return nil, fmt.Errorf("invalid day-of-week field: %w", err)
	}

	return &CronExpression{
		Minutes:     minutes,
		Hours:       hours,
		DaysOfMonth: daysOfMonth,
		Months:      months,
		DaysOfWeek:  daysOfWeek,
	}, nil
}

// NextRun calculates the first matching time strictly after the given
// time, starting from the next full minute boundary and scanning
// minute-by-minute. All five fields must match; day-of-month and
// day-of-week are both required when both are restricted. Returns an
// error when no match exists within one year.
func (c *CronExpression) NextRun(after time.Time) (time.Time, error) {
	t := after.Add(time.Minute)
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())

	for i := 0; i < nextRunSearchBound; i++ {
		if c.matches(t) {
			return t, nil
		}
		t = t.Add(time.Minute)
	}

	return time.Time{}, fmt.Errorf("no matching time within one year of %s", after.Format(time.RFC3339))
}

// matches reports whether every field of the expression matches t.
// Go's time.Weekday already uses Sunday=0, so no conversion is needed
// for the day-of-week comparison.
func (c *CronExpression) matches(t time.Time) bool {
	return containsInt(c.Minutes, t.Minute()) &&
		containsInt(c.Hours, t.Hour()) &&
		containsInt(c.DaysOfMonth, t.Day()) &&
		containsInt(c.Months, int(t.Month())) &&
		containsInt(c.DaysOfWeek, int(t.Weekday()))
}

// parseField parses a single cron field into the sorted set of values
// it matches.
func parseField(field string, minVal, maxVal int) ([]int, error) {
	switch {
	case field == "*":
		return rangeInts(minVal, maxVal), nil

	case strings.Contains(field, "/"):
		// Only "*/s" is supported; range or value steps are rejected.
		parts := strings.SplitN(field, "/", 2)
		if parts[0] != "*" {
			return nil, fmt.Errorf("unsupported step syntax %q, only */n is allowed", field)
		}
		step, err := strconv.Atoi(parts[1])
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("invalid step value: %s", parts[1])
		}
		var result []int
		for i := minVal; i <= maxVal; i += step {
			result = append(result, i)
		}
		return result, nil

	case strings.Contains(field, ","):
		seen := make(map[int]bool)
		var result []int
		for _, part := range strings.Split(field, ",") {
			val, err := parseValue(part, minVal, maxVal)
			if err != nil {
				return nil, err
			}
			if !seen[val] {
				seen[val] = true
				result = append(result, val)
			}
		}
		return sortInts(result), nil

	case strings.Contains(field, "-"):
		rangeParts := strings.SplitN(field, "-", 2)
		start, err := parseValue(rangeParts[0], minVal, maxVal)
		if err != nil {
			return nil, err
		}
		end, err := parseValue(rangeParts[1], minVal, maxVal)
		if err != nil {
			return nil, err
		}
		if start > end {
			return nil, fmt.Errorf("invalid range: %d-%d", start, end)
		}
		return rangeInts(start, end), nil

	default:
		val, err := parseValue(field, minVal, maxVal)
		if err != nil {
			return nil, err
		}
		return []int{val}, nil
	}
}

// parseValue parses one plain numeric value and bounds-checks it.
func parseValue(part string, minVal, maxVal int) (int, error) {
	val, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("invalid value: %s", part)
	}
	if val < minVal || val > maxVal {
		return 0, fmt.Errorf("value out of range: %d (allowed %d-%d)", val, minVal, maxVal)
	}
	return val, nil
}

// rangeInts returns a slice of integers from start to end (inclusive).
func rangeInts(start, end int) []int {
	result := make([]int, end-start+1)
	for i := range result {
		result[i] = start + i
	}
	return result
}

// containsInt checks if a slice contains a value.
func containsInt(slice []int, val int) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

// sortInts sorts a small slice in place and returns it.
func sortInts(slice []int) []int {
	for i := 0; i < len(slice)-1; i++ {
		for j := i + 1; j < len(slice); j++ {
			if slice[i] > slice[j] {
				slice[i], slice[j] = slice[j], slice[i]
			}
		}
	}
	return slice
}

// CalculateNextRun is a convenience function to parse a cron expression
// and calculate the next run time after the given instant.
func CalculateNextRun(cronExpr string, after time.Time) (time.Time, error) {
	cron, err := ParseCron(cronExpr)
	if err != nil {
		return time.Time{}, err
	}
	return cron.NextRun(after)
}
