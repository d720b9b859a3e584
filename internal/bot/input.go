package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"momentum/internal/model"
)

var errNoNumber = errors.New("expected a number")

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel"
}

// parseDay accepts "today", "tomorrow" or YYYY-MM-DD and returns the start
// of that day in now's location.
func parseDay(text string, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(strings.ToLower(text))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch value {
	case "today", strings.ToLower(btnToday):
		return today, nil
	case "tomorrow", strings.ToLower(btnTomorrow):
		return today.AddDate(0, 0, 1), nil
	}
	day, err := time.ParseInLocation(dateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", text, err)
	}
	return day, nil
}

// parseReminder accepts HH:MM, placed on the due day or today, or a full
// "YYYY-MM-DD HH:MM".
func parseReminder(text string, due *time.Time, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(text)
	if at, err := time.ParseInLocation(dateLayout+" "+clockLayout, value, now.Location()); err == nil {
		return at, nil
	}

	clock, err := time.Parse(clockLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse reminder %q: %w", text, err)
	}
	day := now
	if due != nil {
		day = due.In(now.Location())
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}

func parsePriority(text string) (model.Priority, error) {
	switch strings.TrimSpace(strings.ToLower(text)) {
	case "1", "low", strings.ToLower(btnPriorityLow):
		return model.PriorityLow, nil
	case "2", "medium", strings.ToLower(btnPriorityMedium):
		return model.PriorityMedium, nil
	case "3", "high", strings.ToLower(btnPriorityHigh):
		return model.PriorityHigh, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", text)
	}
}

// parseNumber reads a 1-based list position and checks it against count.
func parseNumber(text string, count int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errNoNumber
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("number %d is out of range 1-%d", n, count)
	}
	return n - 1, nil
}
