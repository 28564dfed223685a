package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/AlfredBerg/rod-skills/internal/config"
	"github.com/AlfredBerg/rod-skills/internal/export"
	"github.com/AlfredBerg/rod-skills/internal/skills"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

// report aggregates src, prints the frequency table and optionally exports it.
// An empty source is reported as skills.ErrEmptyInput so the command fails.
func report(out io.Writer, cfg *config.Config, src skills.Source, label string, exportTable bool) error {
	table, err := skills.AggregateFrom(src, cfg.StopwordSet())
	if errors.Is(err, skills.ErrEmptyInput) {
		fmt.Fprintln(out, pterm.Warning.Sprint("No skill data to aggregate."))
	}
	if err != nil {
		return err
	}

	if err := printTable(out, table); err != nil {
		return err
	}
	if !exportTable {
		return nil
	}
	_, err = exportTo(out, cfg, table, label)
	return err
}

func printTable(out io.Writer, table skills.Table) error {
	fmt.Fprintln(out, pterm.Info.Sprintf("Number of jobs: %s", humanize.Comma(int64(table.TotalJobs))))

	data := pterm.TableData{{"Skill", "Count", "Percentage"}}
	for _, e := range table.Entries {
		data = append(data, []string{e.Skill, humanize.Comma(int64(e.Count)), fmt.Sprintf("%d%%", e.Percentage)})
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)
	return nil
}

func exportTo(out io.Writer, cfg *config.Config, table skills.Table, label string) (string, error) {
	path := filepath.Join(cfg.Paths.Exports, export.FileName(label, time.Now()))
	if err := export.Write(path, table); err != nil {
		return "", fmt.Errorf("exporting %s: %w", path, err)
	}
	fmt.Fprintln(out, pterm.Success.Sprintf("Exported to %s", path))
	return path, nil
}
