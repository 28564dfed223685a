package skills

import "strings"

// SkillList is the ordered list of raw skill strings scraped for one job.
type SkillList []string

// Stopwords is a set of normalized skills that are never counted.
type Stopwords map[string]struct{}

func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s[Normalize(w)] = struct{}{}
	}
	return s
}

// Contains reports whether the already normalized skill is a stopword.
// Matching is exact and case-sensitive.
func (s Stopwords) Contains(skill string) bool {
	_, ok := s[skill]
	return ok
}

// Normalize collapses every run of whitespace into one space and trims the ends.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
