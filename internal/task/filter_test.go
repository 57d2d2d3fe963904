package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) *time.Time {
	t := time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ids(tasks []*Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func fixture() []*Task {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	t1 := New(1, "Buy groceries", base)
	t1.Tags = []string{"home"}
	t1.DueDate = day(10)

	t2 := New(2, "Write report", base.Add(time.Minute))
	t2.Tags = []string{"work", "urgent"}
	t2.Priority = PriorityHigh
	t2.DueDate = day(5)

	t3 := New(3, "buy bread", base.Add(2*time.Minute))
	t3.Completed = true
	t3.Priority = PriorityLow

	t4 := New(4, "Call plumber", base.Add(3*time.Minute))
	t4.Description = "leaking groceries cupboard"
	t4.Tags = []string{"urgent"}
	t4.DueDate = day(20)

	return []*Task{t1, t2, t3, t4}
}

func TestFilter_Empty(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4}, ids(Filter{}.Apply(fixture())))
}

func TestFilter_Predicates(t *testing.T) {
	done := true
	pending := false
	high := PriorityHigh

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"completed", Filter{Completed: &done}, []int{3}},
		{"pending", Filter{Completed: &pending}, []int{1, 2, 4}},
		{"priority", Filter{Priority: &high}, []int{2}},
		{"tags any-match", Filter{Tags: []string{"work", "urgent"}}, []int{2, 4}},
		{"tag normalized", Filter{Tags: []string{" HOME"}}, []int{1}},
		{"keyword title", Filter{Keyword: "groc"}, []int{1, 4}},
		{"keyword case", Filter{Keyword: "BUY"}, []int{1, 3}},
		{"due before inclusive", Filter{DueBefore: day(10)}, []int{1, 2}},
		{"due after inclusive", Filter{DueAfter: day(10)}, []int{1, 4}},
		{"due window", Filter{DueAfter: day(6), DueBefore: day(19)}, []int{1}},
		{"and combination", Filter{Tags: []string{"urgent"}, Completed: &pending, Keyword: "plumb"}, []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(fixture())))
		})
	}
}

func TestFilter_UndatedNeverMatchesBounds(t *testing.T) {
	undated := New(9, "x", time.Now())
	far := time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, Filter{DueBefore: &far}.Matches(undated))
	assert.False(t, Filter{DueAfter: &past}.Matches(undated))
}

func TestSort_Fields(t *testing.T) {
	tests := []struct {
		field     SortField
		ascending bool
		want      []int
	}{
		{SortByID, true, []int{1, 2, 3, 4}},
		{SortByID, false, []int{4, 3, 2, 1}},
		{SortByTitle, true, []int{3, 1, 4, 2}},
		{SortByCreatedAt, false, []int{4, 3, 2, 1}},
		{SortByDueDate, true, []int{2, 1, 4, 3}},
		{SortByDueDate, false, []int{3, 4, 1, 2}},
		{SortByPriority, true, []int{2, 1, 4, 3}},
		{SortByPriority, false, []int{3, 1, 4, 2}},
		{SortField("bogus"), true, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(fixture(), tt.field, tt.ascending)))
		})
	}
}

func TestSort_UndatedLastAscending(t *testing.T) {
	tasks := fixture()
	tasks = append(tasks, New(5, "no date either", time.Now()))

	sorted := Sort(tasks, SortByDueDate, true)
	seenUndated := false
	for _, tk := range sorted {
		if tk.DueDate == nil {
			seenUndated = true
			continue
		}
		assert.False(t, seenUndated, "dated task %d sorted after an undated one", tk.ID)
	}
}

func TestSort_StableTies(t *testing.T) {
	now := time.Now()
	a := New(3, "same", now)
	b := New(1, "SAME", now)
	c := New(2, "same", now)

	in := []*Task{a, b, c}
	assert.Equal(t, []int{3, 1, 2}, ids(Sort(in, SortByTitle, true)))
	assert.Equal(t, []int{3, 1, 2}, ids(Sort(in, SortByTitle, false)))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Sort(in, SortByID, false)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(in))
}

func TestParseSortField(t *testing.T) {
	for _, in := range []string{"id", "Title", " due_date ", "PRIORITY", "created_at", "updated_at"} {
		f, err := ParseSortField(in)
		require.NoError(t, err, in)
		assert.Contains(t, SortFields, f)
	}

	_, err := ParseSortField("size")
	assert.ErrorIs(t, err, ErrInvalidEnum)
	assert.ErrorContains(t, err, `invalid sort field "size"`)
}
