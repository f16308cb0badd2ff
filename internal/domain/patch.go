package domain

import "time"

// TaskPatch is a partial update. Only fields whose Optional is Set are applied.
//
// A null description clears it and null or empty tags clear the tag set.
// Null is rejected for every other field.
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[string]
	Priority    Optional[int]
	DueDate     Optional[string]
	Completed   Optional[bool]
	Tags        Optional[[]string]
}

// IsEmpty reports whether no field is present.
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Priority.Set &&
		!p.DueDate.Set && !p.Completed.Set && !p.Tags.Set
}

// Validate checks every present field against the calendar date of now.
// Returns a *ValidationError listing every violated field, or nil.
func (p TaskPatch) Validate(now time.Time) error {
	verr := &ValidationError{}

	if p.Title.Set {
		if p.Title.Null {
			verr.Add("title", MsgNotNull)
		} else {
			validateTitle(verr, p.Title.Value)
		}
	}
	if p.Priority.Set {
		if p.Priority.Null {
			verr.Add("priority", MsgNotNull)
		} else {
			validatePriority(verr, p.Priority.Value)
		}
	}
	if p.DueDate.Set {
		if p.DueDate.Null {
			verr.Add("due_date", MsgNotNull)
		} else {
			validateDueDate(verr, p.DueDate.Value, now)
		}
	}
	if p.Completed.Set && p.Completed.Null {
		verr.Add("completed", MsgNotNull)
	}
	if p.Tags.HasValue() {
		validateTags(verr, p.Tags.Value)
	}

	return verr.OrNil()
}

// ReplacesTags reports whether the patch carries a tag set.
func (p TaskPatch) ReplacesTags() bool {
	return p.Tags.Set
}

// TagNames returns the normalized replacement tag set; empty when the tags are cleared.
func (p TaskPatch) TagNames() []string {
	if !p.Tags.HasValue() {
		return []string{}
	}
	return NormalizeTags(p.Tags.Value)
}

// ApplyTo writes the present scalar fields onto t. Call Validate first;
// tags are left untouched because replacing them needs the tag store.
func (p TaskPatch) ApplyTo(t *Task) {
	if p.Title.HasValue() {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		if p.Description.Null {
			t.Description = nil
		} else {
			desc := p.Description.Value
			t.Description = &desc
		}
	}
	if p.Priority.HasValue() {
		t.Priority = p.Priority.Value
	}
	if p.DueDate.HasValue() {
		if due, err := ParseDate(p.DueDate.Value); err == nil {
			t.DueDate = due
		}
	}
	if p.Completed.HasValue() {
		t.Completed = p.Completed.Value
	}
}
