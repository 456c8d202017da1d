package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Rule names the business rule a ValidationError violates.
type Rule string

const (
	RuleID            Rule = "id"
	RuleSubject       Rule = "subject"
	RuleService       Rule = "service"
	RuleStatus        Rule = "status"
	RuleTimestamp     Rule = "timestamp"
	RuleTimezone      Rule = "timezone"
	RuleDate          Rule = "date"
	RuleInterval      Rule = "interval"
	RuleWorkingDay    Rule = "working_day"
	RuleBusinessHours Rule = "business_hours"
	RuleMinAdvance    Rule = "min_advance"
	RuleMaxAdvance    Rule = "max_advance"
	RuleBlackout      Rule = "blackout"
	RuleSettings      Rule = "settings"
	RuleTimeBlock     Rule = "time_block"
)

// ValidationError is a caller-fixable violation of a single business rule.
type ValidationError struct {
	Rule  Rule
	Msg   string
	Start time.Time
	End   time.Time
	Block *TimeBlock
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Invalid(rule Rule, msg string) *ValidationError {
	return &ValidationError{Rule: rule, Msg: msg}
}

// InvalidInterval is Invalid with the offending interval attached.
func InvalidInterval(rule Rule, msg string, start, end time.Time) *ValidationError {
	return &ValidationError{Rule: rule, Msg: msg, Start: start, End: end}
}

type NotFoundError struct {
	Entity string
	ID     string
	Msg    string
}

func (e *NotFoundError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return e.Entity + " " + e.ID + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports what occupied the interval at commit time: either an
// existing appointment or a time block.
type ConflictError struct {
	Start       time.Time
	End         time.Time
	Appointment *Appointment
	Block       *TimeBlock
	Msg         string
}

func (e *ConflictError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "the requested time is no longer available"
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
