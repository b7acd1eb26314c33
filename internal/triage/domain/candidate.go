package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Source identifies which external provider a candidate item came from.
type Source string

const (
	SourceEmail       Source = "email"
	SourceTaskManager Source = "task_manager"
	SourceCalendar    Source = "calendar"
	SourceTaskList    Source = "secondary_task_list"
)

// DisplayName returns the user-facing provider name, used to prefix
// error messages in sync results.
func (s Source) DisplayName() string {
	switch s {
	case SourceEmail:
		return "Gmail"
	case SourceTaskManager:
		return "Todoist"
	case SourceCalendar:
		return "Calendar"
	case SourceTaskList:
		return "Google Tasks"
	default:
		return string(s)
	}
}

// CandidateItem is the normalized, transient representation of one unit of
// data from an external source, prior to scoring. It is created fresh on
// every fetch and discarded after scoring.
type CandidateItem struct {
	Source   Source
	SourceID string
	Title    string
	Snippet  string
	Metadata SourceMetadata
}

// TriageScore is the pure output of a scorer for one CandidateItem.
type TriageScore struct {
	Value     int    `json:"value"`
	Reasoning string `json:"reasoning"`
}

// ClampScore bounds a raw score into [0, 100].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// EmailMetadata carries the header-level facts about an inbox message.
// Bodies are never fetched.
type EmailMetadata struct {
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
	IsStarred  bool      `json:"is_starred"`
	IsArchived bool      `json:"is_archived"`
}

// TaskMetadata carries the structured fields of a task-manager item.
// Priority follows Todoist semantics: 1 = normal .. 4 = urgent.
type TaskMetadata struct {
	Priority  int        `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	ProjectID string     `json:"project_id,omitempty"`
}

// EventMetadata carries the structured fields of a calendar event.
type EventMetadata struct {
	StartTime time.Time `json:"start_time"`
	Organizer string    `json:"organizer,omitempty"`
}

// ListItemMetadata carries the structured fields of a secondary-task-list item.
type ListItemMetadata struct {
	Due   *time.Time `json:"due,omitempty"`
	Notes string     `json:"notes,omitempty"`
}

// SourceMetadata is a tagged union of per-source payloads, keyed by the
// candidate's Source. Exactly one field is set; the orchestrator never
// interprets it, only the matching scorer does. It is persisted as jsonb.
type SourceMetadata struct {
	Email    *EmailMetadata    `json:"email,omitempty"`
	Task     *TaskMetadata     `json:"task,omitempty"`
	Event    *EventMetadata    `json:"event,omitempty"`
	ListItem *ListItemMetadata `json:"list_item,omitempty"`
}

// Value implements driver.Valuer so gorm can store the union as jsonb.
func (m SourceMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *SourceMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = SourceMetadata{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported source metadata type %T", value)
	}
}
