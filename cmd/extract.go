package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/browser"
	"github.com/AlfredBerg/rod-skills/internal/config"
	"github.com/AlfredBerg/rod-skills/internal/crawl"
	"github.com/AlfredBerg/rod-skills/internal/outputHandlers/sqlite"
	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/AlfredBerg/rod-skills/internal/store"
	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type extraction struct {
	Lists   []skills.SkillList
	RunFile string
	Keyword string
	RunID   string
}

// label names the exports of this extraction.
func (e *extraction) label() string {
	if e.Keyword != "" {
		return e.Keyword
	}
	return "recommended"
}

type extractFunc func(ctx context.Context, searchURL string) (*extraction, error)

type extractFlags struct {
	url    string
	export bool
}

var eFlags extractFlags

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&eFlags.url, "url", "u", "", "The job search url to scrape. Defaults to search_url from the config.")
	extractCmd.Flags().BoolVarP(&eFlags.export, "export", "e", false, "Export the frequency table to a spreadsheet.")
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Scrape the skills of every job in a search and print their frequencies",

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		searchURL := resolveSearchURL(cfg, log, eFlags.url)
		ex, err := newExtractor(cfg, log)(cmd.Context(), searchURL)
		if err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), cfg, skills.Lists(ex.Lists), ex.label(), eFlags.export)
	},
}

// resolveSearchURL falls back to the configured search url when raw is
// empty or not a valid search.
func resolveSearchURL(cfg *config.Config, log *zap.SugaredLogger, raw string) string {
	if raw == "" {
		return cfg.SearchURL
	}
	if err := cfg.ValidateSearchURL(raw); err != nil {
		log.Warnw("using default search url", "url", raw, "error", err)
		return cfg.SearchURL
	}
	return raw
}

// newExtractor returns the browser backed extraction used by the commands.
func newExtractor(cfg *config.Config, log *zap.SugaredLogger) extractFunc {
	return func(ctx context.Context, searchURL string) (*extraction, error) {
		started := time.Now()
		ex := &extraction{Keyword: config.Keyword(searchURL)}

		run, err := store.NewRunFile(cfg.Paths.Runs, store.RunFileName(ex.Keyword, started))
		if err != nil {
			return nil, fmt.Errorf("creating run file: %w", err)
		}
		ex.RunFile = run.Path
		recorders := []crawl.Recorder{run}

		if cfg.Paths.Database != "" {
			mirror := &sqlite.SkillOutput{Database: cfg.Paths.Database, Log: log}
			if err := mirror.Init(); err != nil {
				return nil, fmt.Errorf("opening skill database: %w", err)
			}
			defer mirror.Cleanup()
			if ex.RunID, err = mirror.StartRun(searchURL, started); err != nil {
				return nil, fmt.Errorf("starting run: %w", err)
			}
			recorders = append(recorders, mirror)
		}

		session, err := browser.Launch(cfg.Browser.Headless, cfg.Browser.Timeout, log)
		if err != nil {
			return nil, err
		}
		defer session.Close()

		if err := session.Authenticate(ctx, cfg); err != nil {
			return nil, fmt.Errorf("logging in: %w", err)
		}

		job := crawl.NewJob(session, cfg, log, recorders...)
		var bar *pb.ProgressBar
		job.Progress = func(done, total int) {
			if bar == nil {
				bar = pb.StartNew(total)
			}
			bar.SetCurrent(int64(done))
		}

		ex.Lists = job.Run(ctx, searchURL)
		if bar != nil {
			bar.Finish()
		}
		log.Infow("extraction saved", "file", ex.RunFile, "run", ex.RunID, "jobs", len(ex.Lists))
		return ex, nil
	}
}
