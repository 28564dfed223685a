package crawl

import (
	"time"

	"github.com/AlfredBerg/rod-skills/internal/browser"
	"github.com/AlfredBerg/rod-skills/internal/config"
	"github.com/AlfredBerg/rod-skills/internal/skills"
	"go.uber.org/zap"
)

// Recorder persists the skills of one job as soon as they are scraped.
type Recorder interface {
	Record(jobID string, list skills.SkillList) error
}

type Job struct {
	Session   browser.Session
	Selectors config.Selectors
	// Timeout bounds every individual wait.
	Timeout time.Duration
	// Settle is the pause before retrying an intercepted click.
	Settle time.Duration
	JobURL func(jobID string) string

	Recorders []Recorder
	// Progress, if set, is called after each job with the number processed so far.
	Progress func(done, total int)
	Log      *zap.SugaredLogger
}

func NewJob(session browser.Session, cfg *config.Config, log *zap.SugaredLogger, recorders ...Recorder) *Job {
	return &Job{
		Session:   session,
		Selectors: cfg.Selectors,
		Timeout:   cfg.Browser.Timeout,
		Settle:    cfg.Browser.Settle,
		JobURL:    cfg.JobURL,
		Recorders: recorders,
		Log:       log,
	}
}
