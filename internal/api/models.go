package api

import (
	"time"

	"github.com/phrazzld/taskapi/internal/domain"
)

// CreateTaskRequest defines the payload for POST /tasks.
// Pointer fields let "required" tell a missing field from a zero value.
type CreateTaskRequest struct {
	Title       *string  `json:"title"       validate:"required,min=1,max=200"`
	Description *string  `json:"description"`
	Priority    *int     `json:"priority"    validate:"required,gte=1,lte=5"`
	DueDate     *string  `json:"due_date"    validate:"required,datetime=2006-01-02"`
	Tags        []string `json:"tags"`
}

// ToInput converts a validated request to the service input.
func (req CreateTaskRequest) ToInput() domain.CreateTaskInput {
	in := domain.CreateTaskInput{
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}
	if req.DueDate != nil {
		in.DueDate = *req.DueDate
	}
	return in
}

// UpdateTaskRequest defines the payload for PATCH /tasks/{id}.
// Every field is optional; explicit nulls are kept apart from absent keys.
type UpdateTaskRequest struct {
	Title       domain.Optional[string]   `json:"title"`
	Description domain.Optional[string]   `json:"description"`
	Priority    domain.Optional[int]      `json:"priority"`
	DueDate     domain.Optional[string]   `json:"due_date"`
	Completed   domain.Optional[bool]     `json:"completed"`
	Tags        domain.Optional[[]string] `json:"tags"`
}

// ToPatch converts the request to a domain patch.
func (req UpdateTaskRequest) ToPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		Tags:        req.Tags,
	}
}

// ListTasksQuery holds the parsed query string of GET /tasks.
type ListTasksQuery struct {
	Completed *bool    `json:"completed"`
	Priority  *int     `json:"priority"  validate:"omitempty,gte=1,lte=5"`
	Tags      []string `json:"tags"`
	Limit     int      `json:"limit"     validate:"gte=1,lte=100"`
	Offset    int      `json:"offset"    validate:"gte=0"`
}

// ToFilter converts the query to a domain filter.
func (q ListTasksQuery) ToFilter() domain.TaskFilter {
	return domain.TaskFilter{
		Completed: q.Completed,
		Priority:  q.Priority,
		Tags:      q.Tags,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
}

// TagResponse is the JSON representation of a tag.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Priority    int           `json:"priority"`
	DueDate     string        `json:"due_date"`
	Completed   bool          `json:"completed"`
	IsDeleted   bool          `json:"is_deleted"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Tags        []TagResponse `json:"tags"`
}

// TaskListResponse is one page of tasks with the total match count.
type TaskListResponse struct {
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Tasks  []TaskResponse `json:"tasks"`
}

// StatusResponse is returned by the liveness and readiness endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	tags := make([]TagResponse, 0, len(task.Tags))
	for _, tag := range task.Tags {
		tags = append(tags, TagResponse{ID: tag.ID, Name: tag.Name})
	}
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate.Format(domain.DateLayout),
		Completed:   task.Completed,
		IsDeleted:   task.IsDeleted,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
		Tags:        tags,
	}
}

func pageToResponse(page *domain.TaskPage) TaskListResponse {
	tasks := make([]TaskResponse, 0, len(page.Tasks))
	for i := range page.Tasks {
		tasks = append(tasks, taskToResponse(&page.Tasks[i]))
	}
	return TaskListResponse{
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
		Tasks:  tasks,
	}
}
