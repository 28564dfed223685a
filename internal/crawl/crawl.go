package crawl

import (
	"context"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/skills"
)

// Run collects every job of the search and scrapes the skills of each one.
// Failures along the way shorten or empty the result, they never abort it.
func (j *Job) Run(ctx context.Context, searchURL string) []skills.SkillList {
	ids := j.ExtractJobIDs(ctx, searchURL)
	j.Log.Infow("job ids collected", "count", len(ids), "search", searchURL)
	lists := j.ExtractSkills(ctx, ids)
	j.Log.Infow("crawling done", "search", searchURL, "jobs", len(lists))
	return lists
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
