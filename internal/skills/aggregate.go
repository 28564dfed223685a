package skills

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyInput is returned when there are no jobs to compute percentages over.
var ErrEmptyInput = errors.New("no jobs to aggregate")

type Entry struct {
	Skill string
	Count int
	// Percentage of jobs mentioning the skill. A skill listed more than once
	// per job can push this above 100; it is never clipped.
	Percentage int
}

// Table is a frequency table ordered by descending Count. Entries with the
// same Count keep the order in which their skill was first seen.
type Table struct {
	Entries   []Entry
	TotalJobs int
}

// Source resolves to the per-job skill lists an aggregation runs over.
type Source interface {
	SkillLists() ([]SkillList, error)
}

// Lists is an in-memory Source.
type Lists []SkillList

func (l Lists) SkillLists() ([]SkillList, error) {
	return l, nil
}

// AggregateFrom resolves src and aggregates the result.
func AggregateFrom(src Source, stopwords Stopwords) (Table, error) {
	lists, err := src.SkillLists()
	if err != nil {
		return Table{}, err
	}
	return Aggregate(lists, stopwords)
}

// Aggregate counts normalized skills across lists. Every list, empty ones
// included, counts as one job in the percentage denominator.
func Aggregate(lists []SkillList, stopwords Stopwords) (Table, error) {
	total := len(lists)
	if total == 0 {
		return Table{}, ErrEmptyInput
	}

	index := map[string]int{}
	entries := []Entry{}
	for _, list := range lists {
		for _, raw := range list {
			skill := Normalize(raw)
			if stopwords.Contains(skill) {
				continue
			}
			i, ok := index[skill]
			if !ok {
				i = len(entries)
				index[skill] = i
				entries = append(entries, Entry{Skill: skill})
			}
			entries[i].Count++
		}
	}

	for i := range entries {
		entries[i].Percentage = int(math.RoundToEven(100 * float64(entries[i].Count) / float64(total)))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	return Table{Entries: entries, TotalJobs: total}, nil
}
