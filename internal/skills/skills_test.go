package skills

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "spaces and newline", raw: " a  b \n", want: "a b"},
		{name: "tabs", raw: "\tGo\t\tlang", want: "Go lang"},
		{name: "already clean", raw: "SQL", want: "SQL"},
		{name: "only whitespace", raw: " \n\t ", want: ""},
		{name: "unicode kept", raw: "  Développement   logiciel ", want: "Développement logiciel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestAggregateCountsAndPercentages(t *testing.T) {
	table, err := Aggregate([]SkillList{{"Python", "Python", "SQL"}, {"Python"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, table.TotalJobs)
	assert.Equal(t, []Entry{
		{Skill: "Python", Count: 3, Percentage: 150},
		{Skill: "SQL", Count: 1, Percentage: 50},
	}, table.Entries)
}

func TestAggregateEmptyInput(t *testing.T) {
	_, err := Aggregate(nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyInput))

	_, err = AggregateFrom(Lists{}, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestAggregateStopwordsStillCountJobs(t *testing.T) {
	lists := []SkillList{{"Communication", "Go"}, {" Communication\n"}, {}}
	table, err := Aggregate(lists, NewStopwords("Communication"))
	require.NoError(t, err)

	assert.Equal(t, 3, table.TotalJobs)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, Entry{Skill: "Go", Count: 1, Percentage: 33}, table.Entries[0])
}

func TestAggregateStopwordsAreCaseSensitive(t *testing.T) {
	table, err := Aggregate([]SkillList{{"sql", "SQL"}}, NewStopwords("SQL"))
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, "sql", table.Entries[0].Skill)
}

func TestAggregateStableTieOrder(t *testing.T) {
	lists := []SkillList{
		{"Docker", "Kubernetes", "Go"},
		{"Go", "AWS"},
		{"Kubernetes  ", "Terraform"},
	}
	table, err := Aggregate(lists, nil)
	require.NoError(t, err)

	var order []string
	for _, e := range table.Entries {
		order = append(order, e.Skill)
	}
	assert.Equal(t, []string{"Kubernetes", "Go", "Docker", "AWS", "Terraform"}, order)
}

func TestAggregateRoundsHalfToEven(t *testing.T) {
	tests := []struct {
		name  string
		count int
		total int
		want  int
	}{
		{name: "12.5 rounds down", count: 1, total: 8, want: 12},
		{name: "37.5 rounds up", count: 3, total: 8, want: 38},
		{name: "62.5 rounds down", count: 5, total: 8, want: 62},
		{name: "33.3 rounds down", count: 1, total: 3, want: 33},
		{name: "66.7 rounds up", count: 2, total: 3, want: 67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists := make([]SkillList, tt.total)
			for i := 0; i < tt.count; i++ {
				lists[i] = SkillList{"Rust"}
			}
			table, err := Aggregate(lists, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Entries[0].Percentage)
		})
	}
}
