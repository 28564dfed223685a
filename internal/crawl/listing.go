package crawl

import (
	"context"
	"errors"

	"github.com/AlfredBerg/rod-skills/internal/browser"
)

type listState int

const (
	awaitingList listState = iota
	collecting
	advancingPage
	done
)

// maxStaleRetries bounds how often one page's item list is read again
// after its elements were replaced under us.
const maxStaleRetries = 3

// ExtractJobIDs opens the search page and collects the job ids of every
// result page.
func (j *Job) ExtractJobIDs(ctx context.Context, searchURL string) []string {
	if err := j.Session.Navigate(searchURL); err != nil {
		j.Log.Errorw("could not navigate to the search page", "url", searchURL, "error", err)
	} else if err := j.Session.WaitLoad(j.Timeout); err != nil {
		j.Log.Warnw("search page did not finish loading", "url", searchURL, "error", err)
	}
	return j.CollectJobIDs(ctx)
}

// CollectJobIDs walks the result pages starting at the current one. When a
// page never shows its list or there is no next page the ids gathered so
// far are returned.
func (j *Job) CollectJobIDs(ctx context.Context) []string {
	ids := []string{}
	page := 1
	state := awaitingList

	for state != done {
		//Is the context canceled?
		if ctx.Err() != nil {
			j.Log.Warnw("job listing interrupted", "page", page, "error", ctx.Err())
			break
		}

		switch state {
		case awaitingList:
			if _, err := browser.WaitPresent(ctx, j.Session, j.Selectors.ListContainer, j.Timeout); err != nil {
				j.Log.Errorw("timed out waiting for job list to load", "page", page, "error", err)
				state = done
				continue
			}
			state = collecting

		case collecting:
			found := j.collectPage()
			ids = append(ids, found...)
			j.Log.Infow("found jobs", "page", page, "on_page", len(found), "total", len(ids))
			state = advancingPage

		case advancingPage:
			if !j.nextPage(ctx) {
				state = done
				continue
			}
			page++
			state = awaitingList
		}
	}

	return ids
}

func (j *Job) collectPage() []string {
	items, err := j.Session.Find(j.Selectors.ListItem)
	if err != nil {
		j.Log.Errorw("could not read job list", "error", err)
		return nil
	}

	var ids []string
	retries := 0
	for i := 0; i < len(items); i++ {
		id, err := items[i].Attribute(j.Selectors.JobIDAttr)
		if errors.Is(err, browser.ErrStaleElement) && retries < maxStaleRetries {
			retries++
			j.Log.Infow("stale job element, reading the list again", "index", i)
			items, err = j.Session.Find(j.Selectors.ListItem)
			if err != nil {
				j.Log.Errorw("could not read job list", "error", err)
				return ids
			}
			i--
			continue
		}
		if err != nil {
			j.Log.Warnw("skipping job element", "index", i, "error", err)
			continue
		}
		// Items scrolled out of view are rendered without an id
		if id == "" {
			continue
		}
		j.Log.Debugw("processing job id", "id", id)
		ids = append(ids, id)
	}
	return ids
}

// nextPage activates the next page control and waits for the new page.
func (j *Job) nextPage(ctx context.Context) bool {
	next, err := browser.WaitClickable(ctx, j.Session, j.Selectors.NextPage, j.Timeout)
	if err != nil {
		j.Log.Infow("no more pages or next button not found", "error", err)
		return false
	}

	if err := next.Click(); err != nil {
		if !errors.Is(err, browser.ErrClickIntercepted) {
			j.Log.Infow("could not click next button", "error", err)
			return false
		}
		j.Log.Infow("next button click intercepted, scrolling to button and trying again")
		if err := next.ScrollIntoView(); err != nil {
			j.Log.Infow("could not scroll to next button", "error", err)
			return false
		}
		if !sleep(ctx, j.Settle) {
			return false
		}
		if err := next.Click(); err != nil {
			j.Log.Infow("could not click next button", "error", err)
			return false
		}
	}
	j.Log.Info("browsing next page")

	if err := j.Session.WaitLoad(j.Timeout); err != nil {
		j.Log.Errorw("page load timed out", "error", err)
		return false
	}
	return true
}
