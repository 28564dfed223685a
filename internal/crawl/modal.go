package crawl

import (
	"context"
	"fmt"

	"github.com/AlfredBerg/rod-skills/internal/browser"
	"github.com/AlfredBerg/rod-skills/internal/skills"
)

// ExtractSkills scrapes the skills modal of every job in order. A job that
// fails at any step yields an empty list so the result always has one
// entry per processed id. Each list is handed to the recorders before the
// next job starts.
func (j *Job) ExtractSkills(ctx context.Context, ids []string) []skills.SkillList {
	lists := make([]skills.SkillList, 0, len(ids))
	if len(ids) == 0 {
		j.Log.Warn("job buffer empty")
		return lists
	}

	total := len(ids)
	for i, id := range ids {
		//Is the context canceled?
		if ctx.Err() != nil {
			j.Log.Warnw("skill extraction interrupted", "processed", i, "total", total, "error", ctx.Err())
			break
		}

		j.Log.Infof("processing status: %.2f%% (%d/%d)", float64(i)/float64(total)*100, i+1, total)
		list := j.scrapeJob(ctx, id)
		lists = append(lists, list)
		j.record(id, list)

		if j.Progress != nil {
			j.Progress(i+1, total)
		}
	}
	return lists
}

func (j *Job) scrapeJob(ctx context.Context, id string) skills.SkillList {
	list := skills.SkillList{}

	url := j.JobURL(id)
	if err := j.Session.Navigate(url); err != nil {
		j.Log.Errorw("could not open job", "job", id, "error", err)
		return list
	}
	if err := j.Session.WaitLoad(j.Timeout); err != nil {
		j.Log.Errorw("timeout while loading the job page", "job", id, "error", err)
		return list
	}
	j.Log.Infow("browsing job", "url", url)

	button, err := browser.WaitClickable(ctx, j.Session, j.Selectors.ModalButton, j.Timeout)
	if err == nil {
		err = button.Click()
	}
	if err != nil {
		j.Log.Errorw("error clicking qualification details button, ignoring entry", "job", id, "error", err)
		return list
	}

	if _, err := browser.WaitVisible(ctx, j.Session, j.Selectors.ModalContent, j.Timeout); err != nil {
		j.Log.Errorw("timed out waiting for skill details to load", "job", id, "error", err)
		return list
	}

	items, err := j.Session.Find(j.Selectors.ModalItem)
	if err != nil {
		j.Log.Errorw("could not read skill list", "job", id, "error", err)
		return list
	}
	j.Log.Infow("found skills", "job", id, "count", len(items))

	for i, item := range items {
		text, err := j.skillText(item)
		if err != nil {
			j.Log.Warnw("skipping skill item", "job", id, "index", i, "error", err)
			continue
		}
		j.Log.Debugw("scraped skill", "job", id, "skill", text)
		list = append(list, text)
	}
	return list
}

func (j *Job) skillText(item browser.Element) (string, error) {
	if j.Selectors.SkillText == "" {
		return item.Text()
	}
	els, err := item.Find(j.Selectors.SkillText)
	if err != nil {
		return "", err
	}
	if len(els) == 0 {
		return "", fmt.Errorf("%w: %s", browser.ErrNotFound, j.Selectors.SkillText)
	}
	return els[0].Text()
}

func (j *Job) record(id string, list skills.SkillList) {
	for _, r := range j.Recorders {
		if err := r.Record(id, list); err != nil {
			j.Log.Errorw("could not persist skills", "job", id, "error", err)
		}
	}
}
