package scoring

import (
	"fmt"
	"time"

	"pulseboard-backend/internal/triage/domain"
)

// Structured scoring is pure: no I/O, no randomness. Each function maps one
// source's metadata to a 0-100 urgency value plus a reasoning string naming
// the rule applied.

// due-date buckets shared by the task-manager and secondary-list scorers
type dueBucket struct {
	label string
	boost int
	cap   int
}

var (
	bucketOverdue = dueBucket{"overdue", 55, 95}
	bucketToday   = dueBucket{"due today", 45, 85}
	bucketTwoDays = dueBucket{"due within 2 days", 35, 75}
	bucketWeek    = dueBucket{"due within 7 days", 20, 60}
	bucketLater   = dueBucket{"due later", 0, 100}
	bucketNoDue   = dueBucket{"no due date", 0, 100}
)

// taskPriorityBase maps a Todoist-style priority (1 = normal .. 4 = urgent)
// to its label and base score. Out-of-range values fall back to the lowest
// tier rather than erroring.
func taskPriorityBase(priority int) (string, int) {
	switch priority {
	case 4:
		return "urgent", 40
	case 3:
		return "high", 30
	case 2:
		return "medium", 25
	default:
		return "normal", 20
	}
}

// calendarDaysUntil compares calendar days only, ignoring time of day, so a
// due date does not flap across buckets within the same local day.
func calendarDaysUntil(due, now time.Time) int {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := due.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func pickDueBucket(due *time.Time, now time.Time) dueBucket {
	if due == nil {
		return bucketNoDue
	}
	days := calendarDaysUntil(*due, now)
	switch {
	case days < 0:
		return bucketOverdue
	case days == 0:
		return bucketToday
	case days <= 2:
		return bucketTwoDays
	case days <= 7:
		return bucketWeek
	default:
		return bucketLater
	}
}

func applyBucket(base int, b dueBucket) int {
	value := base + b.boost
	if value > b.cap {
		value = b.cap
	}
	return value
}

// ScoreTask scores a task-manager item from its priority and due date.
func ScoreTask(meta *domain.TaskMetadata, now time.Time) domain.TriageScore {
	label, base := taskPriorityBase(meta.Priority)
	bucket := pickDueBucket(meta.DueDate, now)
	return domain.TriageScore{
		Value:     domain.ClampScore(applyBucket(base, bucket)),
		Reasoning: fmt.Sprintf("%s priority, %s", label, bucket.label),
	}
}

// ScoreEvent scores a calendar event by proximity of its start time.
func ScoreEvent(meta *domain.EventMetadata, now time.Time) domain.TriageScore {
	until := meta.StartTime.Sub(now)
	var value int
	var reason string
	switch {
	case until <= 0:
		value, reason = 0, "Event already passed"
	case until <= 4*time.Hour:
		value, reason = 80, "Event starts within 4 hours"
	case until <= 24*time.Hour:
		value, reason = 65, "Event starts within 24 hours"
	case until <= 48*time.Hour:
		value, reason = 50, "Event starts within 2 days"
	case until <= 7*24*time.Hour:
		value, reason = 35, "Event starts within 7 days"
	default:
		value, reason = 20, "Event more than a week away"
	}
	return domain.TriageScore{Value: value, Reasoning: reason}
}

// listItemBase is the base score for secondary-list items. The provider has
// no priority field, so every item starts from the same tier and urgency
// comes entirely from the due date.
const listItemBase = 25

// ScoreListItem scores a secondary-task-list item from its due date.
func ScoreListItem(meta *domain.ListItemMetadata, now time.Time) domain.TriageScore {
	bucket := pickDueBucket(meta.Due, now)
	return domain.TriageScore{
		Value:     domain.ClampScore(applyBucket(listItemBase, bucket)),
		Reasoning: fmt.Sprintf("list item, %s", bucket.label),
	}
}
