package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2030, time.June, 15, 22, 30, 0, 0, time.UTC)

func validInput() CreateTaskInput {
	desc := "Complete the Q4 report"
	return CreateTaskInput{
		Title:       "Finish report",
		Description: &desc,
		Priority:    4,
		DueDate:     "2030-07-01",
		Tags:        []string{"Work", " urgent "},
	}
}

func TestNewTask(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		task, err := NewTask(validInput(), fixedNow)

		require.NoError(t, err)
		assert.Equal(t, "Finish report", task.Title)
		assert.Equal(t, 4, task.Priority)
		assert.Equal(t, time.Date(2030, time.July, 1, 0, 0, 0, 0, time.UTC), task.DueDate)
		assert.Equal(t, []string{"work", "urgent"}, task.TagNames())
		assert.False(t, task.Completed)
		assert.False(t, task.IsDeleted)
	})

	t.Run("due today is accepted", func(t *testing.T) {
		in := validInput()
		in.DueDate = "2030-06-15"

		_, err := NewTask(in, fixedNow)

		assert.NoError(t, err)
	})

	t.Run("no tags yields empty slice", func(t *testing.T) {
		in := validInput()
		in.Tags = nil

		task, err := NewTask(in, fixedNow)

		require.NoError(t, err)
		assert.NotNil(t, task.Tags)
		assert.Empty(t, task.Tags)
	})

	tests := []struct {
		name    string
		mutate  func(*CreateTaskInput)
		field   string
		message string
	}{
		{"empty title", func(in *CreateTaskInput) { in.Title = "" }, "title", MsgTitleTooShort},
		{"title too long", func(in *CreateTaskInput) { in.Title = strings.Repeat("a", 201) }, "title", MsgTitleTooLong},
		{"priority zero", func(in *CreateTaskInput) { in.Priority = 0 }, "priority", MsgPriorityTooLow},
		{"priority six", func(in *CreateTaskInput) { in.Priority = 6 }, "priority", MsgPriorityTooHigh},
		{"due date yesterday", func(in *CreateTaskInput) { in.DueDate = "2030-06-14" }, "due_date", MsgDueDateInPast},
		{"due date malformed", func(in *CreateTaskInput) { in.DueDate = "15/06/2030" }, "due_date", MsgInvalidDate},
		{"tag too long", func(in *CreateTaskInput) { in.Tags = []string{strings.Repeat("t", 101)} }, "tags", MsgTagTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			task, err := NewTask(in, fixedNow)

			assert.Nil(t, task)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.message, verr.Fields[tc.field])
			assert.Len(t, verr.Fields, 1)
		})
	}

	t.Run("title length counts characters not bytes", func(t *testing.T) {
		in := validInput()
		in.Title = strings.Repeat("é", 200)

		_, err := NewTask(in, fixedNow)

		assert.NoError(t, err)
	})

	t.Run("whitespace title is kept as sent", func(t *testing.T) {
		in := validInput()
		in.Title = "   "

		task, err := NewTask(in, fixedNow)

		require.NoError(t, err)
		assert.Equal(t, "   ", task.Title)
	})

	t.Run("reports every violation", func(t *testing.T) {
		_, err := NewTask(CreateTaskInput{DueDate: "nope"}, fixedNow)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, map[string]string{
			"title":    MsgTitleTooShort,
			"priority": MsgPriorityTooLow,
			"due_date": MsgInvalidDate,
		}, verr.Fields)
	})
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"lower and trim", []string{" Work ", "URGENT"}, []string{"work", "urgent"}},
		{"drops empty", []string{"", "   ", "home"}, []string{"home"}},
		{"dedupes keeping order", []string{"b", "a", "B ", "a"}, []string{"b", "a"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTags(tc.in))
		})
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2030, time.June, 16, 5, 0, 0, 0, loc)

	assert.Equal(t, time.Date(2030, time.June, 15, 0, 0, 0, 0, time.UTC), Today(now))
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError("title", "first")
	verr.Add("title", "second")
	verr.Add("priority", "bad")

	assert.Equal(t, "first", verr.Fields["title"])
	assert.Equal(t, "validation failed: priority: bad; title: first", verr.Error())
	assert.True(t, errors.Is(verr, ErrValidation))

	var empty *ValidationError
	assert.False(t, empty.HasErrors())
	assert.NoError(t, (&ValidationError{}).OrNil())
}
