package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Task field bounds.
const (
	MinPriority      = 1
	MaxPriority      = 5
	MaxTitleLength   = 200
	MaxTagNameLength = 100
)

// DateLayout is the wire and storage layout of due dates.
const DateLayout = "2006-01-02"

// Field-level validation messages.
var (
	MsgFieldRequired   = "Field required"
	MsgNotNull         = "Field may not be null"
	MsgTitleTooShort   = "String should have at least 1 character"
	MsgTitleTooLong    = fmt.Sprintf("String should have at most %d characters", MaxTitleLength)
	MsgPriorityTooLow  = fmt.Sprintf("Input should be greater than or equal to %d", MinPriority)
	MsgPriorityTooHigh = fmt.Sprintf("Input should be less than or equal to %d", MaxPriority)
	MsgInvalidDate     = "Invalid date format. Use YYYY-MM-DD."
	MsgDueDateInPast   = "due_date must not be in the past."
	MsgTagTooLong      = fmt.Sprintf("Tag names should have at most %d characters", MaxTagNameLength)
)

// Tag is a unique, normalized label that can be attached to many tasks.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Task is a unit of work with a priority, a due date and a set of tags.
// Deleted tasks keep their row; IsDeleted and DeletedAt record the soft delete.
type Task struct {
	ID          int64
	Title       string
	Description *string
	Priority    int
	// DueDate is a calendar date held as midnight UTC.
	DueDate   time.Time
	Completed bool
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Tags      []Tag
}

// TagNames returns the names of the task's tags in their current order.
func (t *Task) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// CreateTaskInput carries the values supplied when creating a task.
// DueDate is the raw YYYY-MM-DD string as received.
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    int
	DueDate     string
	Tags        []string
}

// NewTask validates in against the calendar date of now and builds an unsaved Task.
// Tag names are normalized; the returned task's tags carry names only.
// Returns a *ValidationError listing every violated field.
func NewTask(in CreateTaskInput, now time.Time) (*Task, error) {
	verr := &ValidationError{}

	validateTitle(verr, in.Title)
	validatePriority(verr, in.Priority)
	due := validateDueDate(verr, in.DueDate, now)
	tags := validateTags(verr, in.Tags)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	task := &Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     due,
		Tags:        make([]Tag, 0, len(tags)),
	}
	for _, name := range tags {
		task.Tags = append(task.Tags, Tag{Name: name})
	}
	return task, nil
}

// NormalizeTags trims and lower-cases names, drops empty ones and removes
// duplicates while keeping first-seen order. It never returns nil.
func NormalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, s)
	}
	return d, nil
}

// Today returns the UTC calendar date of now as midnight UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateTitle(verr *ValidationError, title string) {
	n := utf8.RuneCountInString(title)
	switch {
	case n < 1:
		verr.Add("title", MsgTitleTooShort)
	case n > MaxTitleLength:
		verr.Add("title", MsgTitleTooLong)
	}
}

func validatePriority(verr *ValidationError, priority int) {
	switch {
	case priority < MinPriority:
		verr.Add("priority", MsgPriorityTooLow)
	case priority > MaxPriority:
		verr.Add("priority", MsgPriorityTooHigh)
	}
}

// validateDueDate returns the parsed date, or the zero time after recording a violation.
func validateDueDate(verr *ValidationError, raw string, now time.Time) time.Time {
	due, err := ParseDate(raw)
	if err != nil {
		verr.Add("due_date", MsgInvalidDate)
		return time.Time{}
	}
	if due.Before(Today(now)) {
		verr.Add("due_date", MsgDueDateInPast)
		return time.Time{}
	}
	return due
}

func validateTags(verr *ValidationError, raw []string) []string {
	tags := NormalizeTags(raw)
	for _, name := range tags {
		if utf8.RuneCountInString(name) > MaxTagNameLength {
			verr.Add("tags", MsgTagTooLong)
			break
		}
	}
	return tags
}
