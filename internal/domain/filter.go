package domain

// Pagination bounds for task listings.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// TaskFilter holds the optional list criteria. A nil pointer or empty Tags
// means the criterion is not applied. Tags match a task carrying any of them.
type TaskFilter struct {
	Completed *bool
	Priority  *int
	Tags      []string
	Limit     int
	Offset    int
}

// Normalize returns a copy with tag names normalized and a zero Limit
// replaced by DefaultListLimit.
func (f TaskFilter) Normalize() TaskFilter {
	out := f
	out.Tags = NormalizeTags(f.Tags)
	if out.Limit == 0 {
		out.Limit = DefaultListLimit
	}
	return out
}

// Validate checks the priority and pagination bounds.
func (f TaskFilter) Validate() error {
	verr := &ValidationError{}
	if f.Priority != nil {
		validatePriority(verr, *f.Priority)
	}
	switch {
	case f.Limit < 1:
		verr.Add("limit", "Input should be greater than or equal to 1")
	case f.Limit > MaxListLimit:
		verr.Add("limit", "Input should be less than or equal to 100")
	}
	if f.Offset < 0 {
		verr.Add("offset", "Input should be greater than or equal to 0")
	}
	return verr.OrNil()
}

// TaskPage is one page of a filtered listing together with the total match count.
type TaskPage struct {
	Tasks  []Task
	Total  int
	Limit  int
	Offset int
}
