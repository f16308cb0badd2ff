package postgres

import (
	"strconv"
	"strings"

	"github.com/phrazzld/taskapi/internal/domain"
)

// taskColumns is the select list shared by every task read, in scanTask order.
const taskColumns = `t.id, t.title, t.description, t.priority, t.due_date, t.completed,
		t.is_deleted, t.deleted_at, t.created_at, t.updated_at`

// queryArgs numbers positional parameters as they are appended.
type queryArgs struct {
	values []any
}

// add appends v and returns its placeholder.
func (a *queryArgs) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// list appends every element of vs and returns their comma-separated placeholders.
func (a *queryArgs) list(vs []string) string {
	placeholders := make([]string, len(vs))
	for i, v := range vs {
		placeholders[i] = a.add(v)
	}
	return strings.Join(placeholders, ", ")
}

// buildTaskWhere renders the WHERE clause for filter. Soft-deleted tasks are
// always excluded; present criteria are ANDed and the tag criterion matches
// tasks carrying any of the listed tags.
func buildTaskWhere(filter domain.TaskFilter, args *queryArgs) string {
	conds := []string{"t.is_deleted = FALSE"}

	if filter.Completed != nil {
		conds = append(conds, "t.completed = "+args.add(*filter.Completed))
	}
	if filter.Priority != nil {
		conds = append(conds, "t.priority = "+args.add(*filter.Priority))
	}
	if len(filter.Tags) > 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM task_tags tt
			JOIN tags g ON g.id = tt.tag_id
			WHERE tt.task_id = t.id AND g.name IN (`+args.list(filter.Tags)+`))`)
	}

	return "WHERE " + strings.Join(conds, " AND ")
}

// BuildListTasksQuery returns the page query for filter, newest first with
// id as the tie-breaker so consecutive pages never overlap.
func BuildListTasksQuery(filter domain.TaskFilter) (string, []any) {
	args := &queryArgs{}
	where := buildTaskWhere(filter, args)
	limit := args.add(filter.Limit)
	offset := args.add(filter.Offset)

	query := "SELECT " + taskColumns + "\n\t\tFROM tasks t\n\t\t" + where +
		"\n\t\tORDER BY t.created_at DESC, t.id DESC\n\t\tLIMIT " + limit + " OFFSET " + offset
	return query, args.values
}

// BuildCountTasksQuery returns the query counting every task matched by
// filter, ignoring pagination.
func BuildCountTasksQuery(filter domain.TaskFilter) (string, []any) {
	args := &queryArgs{}
	where := buildTaskWhere(filter, args)
	return "SELECT COUNT(*) FROM tasks t " + where, args.values
}
