package dates

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotADate      = errors.New("please enter valid dates")
	ErrStartAfterEnd = errors.New("start date cannot be after end date")
	ErrFutureDate    = errors.New("dates cannot be in the future")
	ErrRangeTooLong  = errors.New("range too long")
)

// ValidationError reports why a user-supplied range was rejected.
// It unwraps to one of the Err* sentinels.
type ValidationError struct {
	Field string // "start", "end" or "range"
	Err   error
	Max   int // set for ErrRangeTooLong
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Err, ErrRangeTooLong) && e.Max > 0 {
		return fmt.Sprintf("%s (max %d days)", e.Err, e.Max)
	}
	if e.Field != "" && e.Field != "range" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseRange validates a custom start/end pair typed by the user.
// maxDays <= 0 disables the length check.
func ParseRange(startText, endText string, today time.Time, maxDays int) (time.Time, time.Time, error) {
	start, ok := Parse(startText)
	if !ok {
		return time.Time{}, time.Time{}, &ValidationError{Field: "start", Err: ErrNotADate}
	}
	end, ok := Parse(endText)
	if !ok {
		return time.Time{}, time.Time{}, &ValidationError{Field: "end", Err: ErrNotADate}
	}
	if err := CheckRange(start, end, today, maxDays); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// CheckRange applies the ordering, future and length rules to parsed days.
func CheckRange(start, end, today time.Time, maxDays int) error {
	start, end, today = Of(start), Of(end), Of(today)
	if start.After(end) {
		return &ValidationError{Field: "range", Err: ErrStartAfterEnd}
	}
	if start.After(today) || end.After(today) {
		return &ValidationError{Field: "range", Err: ErrFutureDate}
	}
	if maxDays > 0 && DaysBetween(start, end)+1 > maxDays {
		return &ValidationError{Field: "range", Err: ErrRangeTooLong, Max: maxDays}
	}
	return nil
}
